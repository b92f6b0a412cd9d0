package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray(t *testing.T) {
	t.Run("Row-major indexing", func(t *testing.T) {
		a, err := New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, 2, a.NDim())
		assert.Equal(t, 6, a.Len())
		assert.Equal(t, []int{2, 3}, a.Shape())
		assert.Equal(t, 6.0, a.At(1, 2))
		assert.Equal(t, 4.0, a.At(1, 0))
		assert.Equal(t, 3.0, a.At(0, 2))
		assert.Equal(t, 5.0, a.Index(4))
	})

	t.Run("Three dimensions", func(t *testing.T) {
		values := make([]int, 24)
		for i := range values {
			values[i] = i
		}
		a := MustNew([]int{2, 3, 4}, values)
		assert.Equal(t, 1*12+2*4+3, a.At(1, 2, 3))
		a.Set(-1, 0, 1, 1)
		assert.Equal(t, -1, a.Index(5))
	})

	t.Run("Empty shape is the empty array", func(t *testing.T) {
		a, err := New[float64](nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, a.NDim())
		assert.Equal(t, 0, a.Len())
		assert.Equal(t, Array[float64]{}, a)
	})

	t.Run("Zero-sized dimension", func(t *testing.T) {
		a, err := Zeros[int](0, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 3}, a.Shape())
		assert.Equal(t, 0, a.Len())
	})

	t.Run("Value count mismatch", func(t *testing.T) {
		_, err := New([]int{2, 2}, []float64{1, 2, 3})
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("Negative dimension", func(t *testing.T) {
		_, err := Zeros[float64](2, -1)
		assert.ErrorIs(t, err, ErrNegativeDim)
	})

	t.Run("Element count overflow", func(t *testing.T) {
		_, err := ElementCount([]int{math.MaxInt / 2, 3})
		assert.ErrorIs(t, err, ErrSizeOverflow)
	})

	t.Run("New copies values", func(t *testing.T) {
		values := []float64{1, 2}
		a := MustNew([]int{2}, values)
		values[0] = 9
		assert.Equal(t, 1.0, a.Index(0))
	})

	t.Run("Out of range index panics", func(t *testing.T) {
		a := MustNew([]int{2, 2}, []int{1, 2, 3, 4})
		assert.Panics(t, func() { a.At(2, 0) })
		assert.Panics(t, func() { a.At(0) })
	})
}

func TestArrayEqual(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Array[float64]
		expect bool
	}{
		{"Both empty", Array[float64]{}, MustNew[float64](nil, nil), true},
		{"Same values", MustNew([]int{2}, []float64{1, 2}), MustNew([]int{2}, []float64{1, 2}), true},
		{"Different shape", MustNew([]int{2, 1}, []float64{1, 2}), MustNew([]int{1, 2}, []float64{1, 2}), false},
		{"Different values", MustNew([]int{2}, []float64{1, 2}), MustNew([]int{2}, []float64{1, 3}), false},
		{"NaN equals NaN", MustNew([]int{1}, []float64{math.NaN()}), MustNew([]int{1}, []float64{math.NaN()}), true},
		{"NaN differs from number", MustNew([]int{1}, []float64{math.NaN()}), MustNew([]int{1}, []float64{0}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.a.Equal(tt.b))
			assert.Equal(t, tt.expect, tt.b.Equal(tt.a))
		})
	}
}

func TestArrayClone(t *testing.T) {
	a := MustNew([]int{2, 2}, []int{1, 2, 3, 4})
	c := a.Clone()
	assert.True(t, a.Equal(c))

	c.Set(9, 1, 1)
	assert.Equal(t, 4, a.At(1, 1))
	assert.Equal(t, 9, c.At(1, 1))

	assert.Equal(t, Array[int]{}, Array[int]{}.Clone())
}
