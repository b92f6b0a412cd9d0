package reflection

import (
	"fmt"

	"github.com/holmberd/go-reflectionstore/profile"
)

// MillerIndex is the (h, k, l) index of a reflection.
type MillerIndex [3]int

type Vec2 [2]float64

type Vec3 [3]float64

// BoundingBox holds the lo/hi pixel bounds per axis: x0, x1, y0, y1, z0, z1.
type BoundingBox [6]int

// Status is a bitmask of reflection flags.
type Status int

// Has reports whether all bits of flag are set.
func (s Status) Has(flag Status) bool {
	return s&flag == flag
}

// Reflection describes a single measured diffraction signal.
type Reflection struct {
	MillerIndex MillerIndex
	Status      Status
	Entering    bool

	RotationAngle float64
	BeamVector    Vec3
	ImageCoordPx  Vec2
	ImageCoordMm  Vec2
	FrameNumber   int
	PanelNumber   int
	BoundingBox   BoundingBox

	CentroidPosition Vec3
	CentroidVariance Vec3
	CentroidSqWidth  Vec3

	Intensity                  float64
	IntensityVariance          float64
	CorrectedIntensity         float64
	CorrectedIntensityVariance float64

	Shoebox            profile.Array[float64]
	ShoeboxMask        profile.Array[int]
	ShoeboxBackground  profile.Array[float64]
	TransformedShoebox profile.Array[float64]
}

// Equal reports whether r and o hold the same values for every field.
// NaN compares equal to NaN.
func (r *Reflection) Equal(o *Reflection) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.MillerIndex != o.MillerIndex ||
		r.Status != o.Status ||
		r.Entering != o.Entering ||
		r.FrameNumber != o.FrameNumber ||
		r.PanelNumber != o.PanelNumber ||
		r.BoundingBox != o.BoundingBox {
		return false
	}
	floats := [][2][]float64{
		{{r.RotationAngle}, {o.RotationAngle}},
		{r.BeamVector[:], o.BeamVector[:]},
		{r.ImageCoordPx[:], o.ImageCoordPx[:]},
		{r.ImageCoordMm[:], o.ImageCoordMm[:]},
		{r.CentroidPosition[:], o.CentroidPosition[:]},
		{r.CentroidVariance[:], o.CentroidVariance[:]},
		{r.CentroidSqWidth[:], o.CentroidSqWidth[:]},
		{
			{r.Intensity, r.IntensityVariance, r.CorrectedIntensity, r.CorrectedIntensityVariance},
			{o.Intensity, o.IntensityVariance, o.CorrectedIntensity, o.CorrectedIntensityVariance},
		},
	}
	for _, pair := range floats {
		for i, x := range pair[0] {
			y := pair[1][i]
			if x != y && (x == x || y == y) {
				return false
			}
		}
	}
	return r.Shoebox.Equal(o.Shoebox) &&
		r.ShoeboxMask.Equal(o.ShoeboxMask) &&
		r.ShoeboxBackground.Equal(o.ShoeboxBackground) &&
		r.TransformedShoebox.Equal(o.TransformedShoebox)
}

func (r *Reflection) String() string {
	return fmt.Sprintf(
		"reflection(hkl=%v frame=%d panel=%d xyz=%v I=%g sigI2=%g)",
		r.MillerIndex, r.FrameNumber, r.PanelNumber, r.CentroidPosition, r.Intensity, r.IntensityVariance,
	)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *Reflection) MarshalBinary() ([]byte, error) {
	return Encode(r), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// r is left untouched when data cannot be decoded.
func (r *Reflection) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}
