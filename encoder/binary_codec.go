package encoder

import (
	"encoding"
	"fmt"
)

// BinaryMarshal returns the binary encoding of v.
func BinaryMarshal(v encoding.BinaryMarshaler) ([]byte, error) {
	return v.MarshalBinary()
}

// BinaryUnmarshal decodes data into the value pointed to by v.
func BinaryUnmarshal(data []byte, v encoding.BinaryUnmarshaler) error {
	if v == nil {
		return fmt.Errorf("encoder: nil unmarshal target")
	}
	return v.UnmarshalBinary(data)
}

// BinaryCodec implements Codec for types implementing encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler, such as *reflection.Reflection.
type BinaryCodec struct{}

func (BinaryCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("encoder: %T does not implement encoding.BinaryMarshaler", v)
	}
	return BinaryMarshal(m)
}

func (BinaryCodec) Unmarshal(data []byte, out any) error {
	u, ok := out.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("encoder: %T does not implement encoding.BinaryUnmarshaler", out)
	}
	return BinaryUnmarshal(data, u)
}
