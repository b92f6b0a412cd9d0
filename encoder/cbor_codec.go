package encoder

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEnc, cborDec = newCBORModes()

func newCBORModes() (cbor.EncMode, cbor.DecMode) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("encoder: invalid CBOR encoding options: %v", err))
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("encoder: invalid CBOR decoding options: %v", err))
	}
	return em, dm
}

// CBORCodec implements Codec with canonical CBOR (RFC 8949), so equal values
// give equal bytes.
type CBORCodec struct{}

func (CBORCodec) Marshal(v any) ([]byte, error) {
	data, err := cborEnc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return data, nil
}

func (CBORCodec) Unmarshal(data []byte, out any) error {
	if err := cborDec.Unmarshal(data, out); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	return nil
}
