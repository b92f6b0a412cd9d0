package reflection

import (
	"fmt"
	"strings"

	"github.com/holmberd/go-reflectionstore/profile"
)

var fieldBits = func() map[string]uint32 {
	bits := make(map[string]uint32, len(fixedFields)+len(profileFields))
	for i, f := range allFields {
		bits[f.name] = 1 << i
	}
	return bits
}()

var allFieldBits = uint32(1)<<len(fieldBits) - 1

// Builder stages the fields of a Reflection and produces the record once every
// field has been provided. A Builder is not safe for concurrent use.
type Builder struct {
	r   Reflection
	set uint32
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) mark(names ...string) *Builder {
	for _, name := range names {
		bit, ok := fieldBits[name]
		if !ok {
			panic(fmt.Sprintf("reflection: unknown field %q", name))
		}
		b.set |= bit
	}
	return b
}

func (b *Builder) MillerIndex(h, k, l int) *Builder {
	b.r.MillerIndex = MillerIndex{h, k, l}
	return b.mark("miller_index")
}

func (b *Builder) Status(s Status) *Builder {
	b.r.Status = s
	return b.mark("status")
}

func (b *Builder) Entering(entering bool) *Builder {
	b.r.Entering = entering
	return b.mark("entering")
}

func (b *Builder) RotationAngle(angle float64) *Builder {
	b.r.RotationAngle = angle
	return b.mark("rotation_angle")
}

func (b *Builder) BeamVector(v Vec3) *Builder {
	b.r.BeamVector = v
	return b.mark("beam_vector")
}

// ImageCoord sets the predicted image position in pixels and millimetres.
func (b *Builder) ImageCoord(px, mm Vec2) *Builder {
	b.r.ImageCoordPx = px
	b.r.ImageCoordMm = mm
	return b.mark("image_coord_px", "image_coord_mm")
}

func (b *Builder) FrameNumber(n int) *Builder {
	b.r.FrameNumber = n
	return b.mark("frame_number")
}

func (b *Builder) PanelNumber(n int) *Builder {
	b.r.PanelNumber = n
	return b.mark("panel_number")
}

func (b *Builder) BoundingBox(bbox BoundingBox) *Builder {
	b.r.BoundingBox = bbox
	return b.mark("bounding_box")
}

// Centroid sets the centroid position, variance and squared width.
func (b *Builder) Centroid(position, variance, sqWidth Vec3) *Builder {
	b.r.CentroidPosition = position
	b.r.CentroidVariance = variance
	b.r.CentroidSqWidth = sqWidth
	return b.mark("centroid_position", "centroid_variance", "centroid_sq_width")
}

func (b *Builder) Intensity(value, variance float64) *Builder {
	b.r.Intensity = value
	b.r.IntensityVariance = variance
	return b.mark("intensity", "intensity_variance")
}

func (b *Builder) CorrectedIntensity(value, variance float64) *Builder {
	b.r.CorrectedIntensity = value
	b.r.CorrectedIntensityVariance = variance
	return b.mark("corrected_intensity", "corrected_intensity_variance")
}

func (b *Builder) Shoebox(data profile.Array[float64], mask profile.Array[int], background profile.Array[float64]) *Builder {
	b.r.Shoebox = data
	b.r.ShoeboxMask = mask
	b.r.ShoeboxBackground = background
	return b.mark("shoebox", "shoebox_mask", "shoebox_background")
}

func (b *Builder) TransformedShoebox(data profile.Array[float64]) *Builder {
	b.r.TransformedShoebox = data
	return b.mark("transformed_shoebox")
}

// stage marks f as set and returns its address in the staged record.
func (b *Builder) stage(f field) any {
	b.mark(f.name)
	return f.addr(&b.r)
}

// Build returns a copy of the staged record. It fails with ErrIncomplete
// naming every field that was never set. Records built from the same Builder
// share no profile memory.
func (b *Builder) Build() (*Reflection, error) {
	if err := b.complete(); err != nil {
		return nil, err
	}
	r := b.r
	r.Shoebox = r.Shoebox.Clone()
	r.ShoeboxMask = r.ShoeboxMask.Clone()
	r.ShoeboxBackground = r.ShoeboxBackground.Clone()
	r.TransformedShoebox = r.TransformedShoebox.Clone()
	return &r, nil
}

func (b *Builder) complete() error {
	if b.set == allFieldBits {
		return nil
	}
	var missing []string
	for _, f := range allFields {
		if b.set&fieldBits[f.name] == 0 {
			missing = append(missing, f.name)
		}
	}
	return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
}
