package reflection

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion = errors.New("reflection: unsupported format version")
	ErrTruncated          = errors.New("reflection: truncated buffer")
	ErrInvalidShape       = errors.New("reflection: invalid profile shape")
	ErrTrailingData       = errors.New("reflection: trailing data after record")
	ErrIncomplete         = errors.New("reflection: incomplete record")
)

// FormatError is returned when a buffer cannot be decoded.
// Use errors.Is with the Err* values to test for a specific kind.
type FormatError struct {
	Field  string // Field being decoded.
	Offset int    // Byte offset at which decoding failed.
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v (field %q, offset %d)", e.Err, e.Field, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
