// Package profile provides a small multi-dimensional array container used for
// reflection profile buffers (shoeboxes, masks and backgrounds).
//
// Elements are stored flat in row-major order, the last dimension varying fastest.
// An array with no dimensions is empty: it has zero elements.
package profile

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrNegativeDim   = errors.New("profile: negative dimension size")
	ErrShapeMismatch = errors.New("profile: value count does not match shape")
	ErrSizeOverflow  = errors.New("profile: element count overflows int")
)

// Element is the set of element types a profile can hold.
type Element interface {
	~int | ~float64
}

// Array is an immutable-shape, row-major multi-dimensional array.
// The zero value is the empty array.
type Array[T Element] struct {
	shape []int
	data  []T
}

// New creates an array of the given shape holding a copy of values.
// len(values) must equal the product of shape (zero for an empty shape).
func New[T Element](shape []int, values []T) (Array[T], error) {
	return Wrap(shape, slices.Clone(values))
}

// Wrap is like New but takes ownership of values instead of copying them.
func Wrap[T Element](shape []int, values []T) (Array[T], error) {
	n, err := ElementCount(shape)
	if err != nil {
		return Array[T]{}, err
	}
	if len(values) != n {
		return Array[T]{}, fmt.Errorf("%w: shape %v wants %d, got %d", ErrShapeMismatch, shape, n, len(values))
	}
	return newArray(shape, values), nil
}

// MustNew is like New but panics on error. Intended for literals.
func MustNew[T Element](shape []int, values []T) Array[T] {
	a, err := New(shape, values)
	if err != nil {
		panic(err)
	}
	return a
}

// Zeros creates a zero-filled array of the given shape.
func Zeros[T Element](shape ...int) (Array[T], error) {
	n, err := ElementCount(shape)
	if err != nil {
		return Array[T]{}, err
	}
	return newArray(shape, make([]T, n)), nil
}

// newArray takes ownership of data. Empty shapes and empty data are normalised
// to nil so that equal arrays are also deeply equal.
func newArray[T Element](shape []int, data []T) Array[T] {
	a := Array[T]{}
	if len(shape) > 0 {
		a.shape = slices.Clone(shape)
	}
	if len(data) > 0 {
		a.data = data
	}
	return a
}

// ElementCount returns the number of elements an array of the given shape holds.
func ElementCount(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, nil
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: %v", ErrNegativeDim, shape)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: %v", ErrSizeOverflow, shape)
		}
		n *= d
	}
	return n, nil
}

// Clone returns an array that shares no memory with a.
func (a Array[T]) Clone() Array[T] {
	return newArray(a.shape, slices.Clone(a.data))
}

// Shape returns a copy of the dimension sizes.
func (a Array[T]) Shape() []int {
	return slices.Clone(a.shape)
}

// NDim returns the number of dimensions.
func (a Array[T]) NDim() int {
	return len(a.shape)
}

// Dim returns the size of dimension i.
func (a Array[T]) Dim(i int) int {
	return a.shape[i]
}

// Len returns the flat element count.
func (a Array[T]) Len() int {
	return len(a.data)
}

// Index returns the i-th element in row-major order.
func (a Array[T]) Index(i int) T {
	return a.data[i]
}

// Values returns a copy of the flat elements in row-major order.
func (a Array[T]) Values() []T {
	return slices.Clone(a.data)
}

// At returns the element at the given logical position.
func (a Array[T]) At(idx ...int) T {
	return a.data[a.offset(idx)]
}

// Set writes v at the given logical position.
// Arrays share their backing storage on copy, like slices.
func (a Array[T]) Set(v T, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a Array[T]) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("profile: index %v has %d dimensions, array has %d", idx, len(idx), len(a.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("profile: index %v out of range for shape %v", idx, a.shape))
		}
		off = off*a.shape[i] + x
	}
	return off
}

// Equal reports whether both arrays have the same shape and elements.
// NaN elements compare equal to NaN.
func (a Array[T]) Equal(o Array[T]) bool {
	if !slices.Equal(a.shape, o.shape) || len(a.data) != len(o.data) {
		return false
	}
	for i, x := range a.data {
		y := o.data[i]
		if x != y && (x == x || y == y) {
			return false
		}
	}
	return true
}

func (a Array[T]) String() string {
	return fmt.Sprintf("profile%v%v", a.shape, a.data)
}
