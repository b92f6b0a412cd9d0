package reflection

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/holmberd/go-reflectionstore/profile"
)

type writer struct {
	buf []byte
}

func (w *writer) putInt(v int) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(int64(v)))
}

func (w *writer) putFloat(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *writer) putBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) putShape(ndim int, dim func(int) int) {
	w.putInt(ndim)
	for i := range ndim {
		w.putInt(dim(i))
	}
}

func (w *writer) put(v any) {
	switch v := v.(type) {
	case *int:
		w.putInt(*v)
	case *bool:
		w.putBool(*v)
	case *float64:
		w.putFloat(*v)
	case []int:
		for _, x := range v {
			w.putInt(x)
		}
	case []float64:
		for _, x := range v {
			w.putFloat(x)
		}
	case *profile.Array[float64]:
		w.putShape(v.NDim(), v.Dim)
		for i := range v.Len() {
			w.putFloat(v.Index(i))
		}
	case *profile.Array[int]:
		w.putShape(v.NDim(), v.Dim)
		for i := range v.Len() {
			w.putInt(v.Index(i))
		}
	default:
		panic(fmt.Sprintf("reflection: unsupported field type %T", v))
	}
}

// reader consumes a buffer front to back. field names the field being read
// and is reported in errors.
type reader struct {
	buf   []byte
	off   int
	field string
}

func (r *reader) fail(off int, err error) error {
	return &FormatError{Field: r.field, Offset: off, Err: err}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) next(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, r.fail(r.off, ErrTruncated)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.next(intSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) int() (int, error) {
	v, err := r.uint64()
	return int(int64(v)), err
}

func (r *reader) float() (float64, error) {
	v, err := r.uint64()
	return math.Float64frombits(v), err
}

func (r *reader) bool() (bool, error) {
	b, err := r.next(boolSize)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// shape reads a dimension count and sizes, and checks that the elements they
// declare fit in the unread part of the buffer before anything is allocated.
func (r *reader) shape(elemSize int) ([]int, int, error) {
	start := r.off
	ndim, err := r.int()
	if err != nil {
		return nil, 0, err
	}
	if ndim < 0 {
		return nil, 0, r.fail(start, fmt.Errorf("%w: %d dimensions", ErrInvalidShape, ndim))
	}
	if ndim > r.remaining()/intSize {
		return nil, 0, r.fail(r.off, ErrTruncated)
	}
	var shape []int
	if ndim > 0 {
		shape = make([]int, ndim)
	}
	for i := range shape {
		if shape[i], err = r.int(); err != nil {
			return nil, 0, err
		}
	}
	n, err := profile.ElementCount(shape)
	if err != nil {
		return nil, 0, r.fail(start, errors.Join(ErrInvalidShape, err))
	}
	if n > r.remaining()/elemSize {
		return nil, 0, r.fail(r.off, ErrTruncated)
	}
	return shape, n, nil
}

func (r *reader) read(v any) error {
	var err error
	switch v := v.(type) {
	case *int:
		*v, err = r.int()
	case *bool:
		*v, err = r.bool()
	case *float64:
		*v, err = r.float()
	case []int:
		for i := range v {
			if v[i], err = r.int(); err != nil {
				return err
			}
		}
	case []float64:
		for i := range v {
			if v[i], err = r.float(); err != nil {
				return err
			}
		}
	case *profile.Array[float64]:
		shape, n, err := r.shape(floatSize)
		if err != nil {
			return err
		}
		values := make([]float64, n)
		for i := range values {
			values[i], _ = r.float()
		}
		*v, err = profile.Wrap(shape, values)
		return err
	case *profile.Array[int]:
		shape, n, err := r.shape(intSize)
		if err != nil {
			return err
		}
		values := make([]int, n)
		for i := range values {
			values[i], _ = r.int()
		}
		*v, err = profile.Wrap(shape, values)
		return err
	default:
		panic(fmt.Sprintf("reflection: unsupported field type %T", v))
	}
	return err
}
