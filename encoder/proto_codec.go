package encoder

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

var protoMarshalOptions = proto.MarshalOptions{Deterministic: true}

// ProtoCodec implements Codec for protobuf messages.
// Marshalling is deterministic so equal messages give equal bytes.
type ProtoCodec struct{}

func (ProtoCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("encoder: %T is not a proto.Message", v)
	}
	data, err := protoMarshalOptions.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return data, nil
}

func (ProtoCodec) Unmarshal(data []byte, out any) error {
	m, ok := out.(proto.Message)
	if !ok {
		return fmt.Errorf("encoder: %T is not a proto.Message", out)
	}
	if err := proto.Unmarshal(data, m); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	return nil
}
