// Package persist bridges reflection records and host object-persistence
// conventions, where an object's state is an ordered container of opaque values.
//
// The adapter holds no format knowledge. It encodes with reflection.Encode,
// decodes with reflection.Decode, and delegates the container shape to a Convention.
package persist

import (
	"errors"
	"fmt"

	"github.com/holmberd/go-reflectionstore/reflection"
)

// ErrMalformedInput is returned when a state container does not carry exactly
// one encoded buffer.
var ErrMalformedInput = errors.New("persist: malformed adapter input")

// Convention describes how a host persistence mechanism represents state.
// Unwrap must fail with ErrMalformedInput unless c holds exactly one buffer.
type Convention[C any] interface {
	Wrap(buf []byte) C
	Unwrap(c C) ([]byte, error)
}

// Adapter implements get-state/set-state for reflections on top of a Convention.
// It is safe for concurrent use if the convention is.
type Adapter[C any] struct {
	conv Convention[C]
}

func NewAdapter[C any](conv Convention[C]) *Adapter[C] {
	return &Adapter[C]{conv: conv}
}

// GetState returns r's encoded state wrapped in the host container.
func (a *Adapter[C]) GetState(r *reflection.Reflection) C {
	return a.conv.Wrap(reflection.Encode(r))
}

// SetState replaces r's content with the decoded state.
// r is not modified when the container or the buffer is malformed.
func (a *Adapter[C]) SetState(r *reflection.Reflection, state C) error {
	buf, err := a.conv.Unwrap(state)
	if err != nil {
		return err
	}
	decoded, err := reflection.Decode(buf)
	if err != nil {
		return fmt.Errorf("persist: failed to decode state: %w", err)
	}
	*r = *decoded
	return nil
}
