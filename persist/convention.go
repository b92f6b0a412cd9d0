package persist

import (
	"encoding/base64"
	"fmt"

	"github.com/holmberd/go-reflectionstore/encoder"
	"google.golang.org/protobuf/types/known/structpb"
)

// Tuple is a host-neutral, fixed-arity ordered collection of opaque values.
type Tuple []any

// TupleConvention stores the encoded buffer as the single element of a Tuple.
type TupleConvention struct{}

func (TupleConvention) Wrap(buf []byte) Tuple {
	return Tuple{buf}
}

func (TupleConvention) Unwrap(t Tuple) ([]byte, error) {
	if len(t) != 1 {
		return nil, fmt.Errorf("%w: tuple has %d elements, want 1", ErrMalformedInput, len(t))
	}
	buf, ok := t[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: tuple element is %T, want []byte", ErrMalformedInput, t[0])
	}
	return buf, nil
}

// ListValueConvention stores the encoded buffer as a single base64 string
// inside a protobuf ListValue, for hosts that persist protobuf messages.
type ListValueConvention struct{}

func (ListValueConvention) Wrap(buf []byte) *structpb.ListValue {
	return &structpb.ListValue{
		Values: []*structpb.Value{structpb.NewStringValue(base64.StdEncoding.EncodeToString(buf))},
	}
}

func (ListValueConvention) Unwrap(l *structpb.ListValue) ([]byte, error) {
	values := l.GetValues()
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: list has %d values, want 1", ErrMalformedInput, len(values))
	}
	s, ok := values[0].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%w: list value is %T, want a string", ErrMalformedInput, values[0].GetKind())
	}
	buf, err := base64.StdEncoding.DecodeString(s.StringValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return buf, nil
}

// CBORConvention stores the encoded buffer as the single byte string of a
// canonical CBOR array, for hosts that persist CBOR documents.
type CBORConvention struct{}

func (CBORConvention) Wrap(buf []byte) []byte {
	data, err := encoder.CBORCodec{}.Marshal([][]byte{buf})
	if err != nil {
		// An array of byte strings always encodes.
		panic(err)
	}
	return data
}

func (CBORConvention) Unwrap(data []byte) ([]byte, error) {
	var items []any
	if err := (encoder.CBORCodec{}).Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if len(items) != 1 {
		return nil, fmt.Errorf("%w: array has %d items, want 1", ErrMalformedInput, len(items))
	}
	buf, ok := items[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: array item is %T, want a byte string", ErrMalformedInput, items[0])
	}
	return buf, nil
}
