package reflection

import (
	"fmt"

	"github.com/holmberd/go-reflectionstore/profile"
)

const (
	// FormatVersion is the only buffer version this package writes and reads.
	FormatVersion = 1

	intSize   = 8
	floatSize = 8
	boolSize  = 1
)

// field describes one record field on the wire.
// addr returns a pointer to the field (*int, *bool, *float64), a slice aliasing
// a fixed-size array field ([]int, []float64), or a profile pointer.
type field struct {
	name string
	addr func(r *Reflection) any
}

// fixedFields is the wire order of the scalar and vector fields.
var fixedFields = []field{
	{"miller_index", func(r *Reflection) any { return r.MillerIndex[:] }},
	{"status", func(r *Reflection) any { return (*int)(&r.Status) }},
	{"entering", func(r *Reflection) any { return &r.Entering }},
	{"rotation_angle", func(r *Reflection) any { return &r.RotationAngle }},
	{"beam_vector", func(r *Reflection) any { return r.BeamVector[:] }},
	{"image_coord_px", func(r *Reflection) any { return r.ImageCoordPx[:] }},
	{"image_coord_mm", func(r *Reflection) any { return r.ImageCoordMm[:] }},
	{"frame_number", func(r *Reflection) any { return &r.FrameNumber }},
	{"panel_number", func(r *Reflection) any { return &r.PanelNumber }},
	{"bounding_box", func(r *Reflection) any { return r.BoundingBox[:] }},
	{"centroid_position", func(r *Reflection) any { return r.CentroidPosition[:] }},
	{"centroid_variance", func(r *Reflection) any { return r.CentroidVariance[:] }},
	{"centroid_sq_width", func(r *Reflection) any { return r.CentroidSqWidth[:] }},
	{"intensity", func(r *Reflection) any { return &r.Intensity }},
	{"intensity_variance", func(r *Reflection) any { return &r.IntensityVariance }},
	{"corrected_intensity", func(r *Reflection) any { return &r.CorrectedIntensity }},
	{"corrected_intensity_variance", func(r *Reflection) any { return &r.CorrectedIntensityVariance }},
}

// profileFields is the wire order of the profile arrays, written after the fixed fields.
var profileFields = []field{
	{"shoebox", func(r *Reflection) any { return &r.Shoebox }},
	{"shoebox_mask", func(r *Reflection) any { return &r.ShoeboxMask }},
	{"shoebox_background", func(r *Reflection) any { return &r.ShoeboxBackground }},
	{"transformed_shoebox", func(r *Reflection) any { return &r.TransformedShoebox }},
}

var allFields = append(append([]field(nil), fixedFields...), profileFields...)

// FieldSpan is the byte range of a fixed field within an encoded buffer.
type FieldSpan struct {
	Name   string
	Offset int
	Size   int
}

var layout = buildLayout()

func buildLayout() []FieldSpan {
	spans := make([]FieldSpan, 0, len(fixedFields)+1)
	spans = append(spans, FieldSpan{Name: "version", Offset: 0, Size: intSize})
	off := intSize
	var zero Reflection
	for _, f := range fixedFields {
		n := wireSize(f.addr(&zero))
		spans = append(spans, FieldSpan{Name: f.name, Offset: off, Size: n})
		off += n
	}
	return spans
}

// Layout returns the byte ranges of the version word and the fixed fields, in wire order.
func Layout() []FieldSpan {
	return append([]FieldSpan(nil), layout...)
}

// FixedSize is the number of bytes taken by the version word and the fixed fields.
func FixedSize() int {
	last := layout[len(layout)-1]
	return last.Offset + last.Size
}

// EncodedSize returns the length of the buffer Encode produces for r.
func EncodedSize(r *Reflection) int {
	n := FixedSize()
	for _, f := range profileFields {
		n += wireSize(f.addr(r))
	}
	return n
}

func wireSize(v any) int {
	switch v := v.(type) {
	case *int:
		return intSize
	case *bool:
		return boolSize
	case *float64:
		return floatSize
	case []int:
		return len(v) * intSize
	case []float64:
		return len(v) * floatSize
	case *profile.Array[float64]:
		return intSize*(1+v.NDim()) + floatSize*v.Len()
	case *profile.Array[int]:
		return intSize*(1+v.NDim()) + intSize*v.Len()
	default:
		panic(fmt.Sprintf("reflection: unsupported field type %T", v))
	}
}
