package reflection

import (
	"strings"
	"testing"

	"github.com/holmberd/go-reflectionstore/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeBuilder() *Builder {
	return NewBuilder().
		MillerIndex(1, -2, 3).
		Status(5).
		Entering(true).
		RotationAngle(0.5).
		BeamVector(Vec3{0, 0, 1}).
		ImageCoord(Vec2{10, 20}, Vec2{1, 2}).
		FrameNumber(4).
		PanelNumber(0).
		BoundingBox(BoundingBox{0, 2, 0, 3, 4, 5}).
		Centroid(Vec3{1, 2, 4.5}, Vec3{0.1, 0.1, 0.1}, Vec3{1, 1, 1}).
		Intensity(100, 10).
		CorrectedIntensity(110, 11).
		Shoebox(
			profile.MustNew([]int{1, 2, 3}, []float64{1, 2, 3, 4, 5, 6}),
			profile.MustNew([]int{1, 2, 3}, []int{1, 1, 0, 0, 1, 1}),
			profile.Array[float64]{},
		).
		TransformedShoebox(profile.Array[float64]{})
}

func TestBuilder(t *testing.T) {
	t.Run("Build complete record", func(t *testing.T) {
		r, err := completeBuilder().Build()
		require.NoError(t, err)
		assert.Equal(t, MillerIndex{1, -2, 3}, r.MillerIndex)
		assert.True(t, r.Status.Has(4))
		assert.False(t, r.Status.Has(2))
		assert.Equal(t, Vec2{1, 2}, r.ImageCoordMm)
		assert.Equal(t, 110.0, r.CorrectedIntensity)
		assert.Equal(t, 1, r.ShoeboxMask.At(0, 1, 1))
	})

	t.Run("Build reports missing fields", func(t *testing.T) {
		r, err := NewBuilder().MillerIndex(1, 2, 3).Intensity(1, 1).Build()
		require.ErrorIs(t, err, ErrIncomplete)
		assert.Nil(t, r)
		_, list, found := strings.Cut(err.Error(), "missing ")
		require.True(t, found)
		missing := strings.Split(list, ", ")
		assert.Contains(t, missing, "status")
		assert.Contains(t, missing, "transformed_shoebox")
		assert.Contains(t, missing, "corrected_intensity_variance")
		assert.NotContains(t, missing, "miller_index")
		assert.NotContains(t, missing, "intensity")
		assert.NotContains(t, missing, "intensity_variance")
		assert.Len(t, missing, len(allFields)-3)
	})

	t.Run("Built records are independent copies", func(t *testing.T) {
		b := completeBuilder()
		r1, err := b.Build()
		require.NoError(t, err)
		r2, err := b.FrameNumber(9).Build()
		require.NoError(t, err)
		assert.Equal(t, 4, r1.FrameNumber)
		assert.Equal(t, 9, r2.FrameNumber)

		r1.Shoebox.Set(42, 0, 1, 2)
		r1.ShoeboxMask.Set(7, 0, 0, 0)
		assert.Equal(t, 6.0, r2.Shoebox.At(0, 1, 2))
		assert.Equal(t, 1, r2.ShoeboxMask.At(0, 0, 0))

		r3, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 6.0, r3.Shoebox.At(0, 1, 2), "should not alias the staged record")
	})

	t.Run("Every table field has a setter", func(t *testing.T) {
		assert.Len(t, fieldBits, len(fixedFields)+len(profileFields))
		assert.Equal(t, allFieldBits, completeBuilder().set)
	})
}

func TestReflectionEqual(t *testing.T) {
	a, err := completeBuilder().Build()
	require.NoError(t, err)
	b, err := completeBuilder().Build()
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	b.CentroidVariance[1] = 0.2
	assert.False(t, a.Equal(b))

	c, _ := completeBuilder().Build()
	c.ShoeboxMask.Set(7, 0, 0, 0)
	assert.False(t, a.Equal(c))

	var nilRefl *Reflection
	assert.False(t, a.Equal(nilRefl))
	assert.True(t, nilRefl.Equal(nil))
}
