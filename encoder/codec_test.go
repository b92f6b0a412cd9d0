package encoder

import (
	"testing"

	"github.com/holmberd/go-reflectionstore/reflection"
	"github.com/holmberd/go-reflectionstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestBinaryCodec(t *testing.T) {
	var codec Codec = BinaryCodec{}

	t.Run("Marshal and unmarshal a reflection", func(t *testing.T) {
		src := testutil.NewReflection(t, 1, 2, 2)
		data, err := codec.Marshal(src)
		require.NoError(t, err)
		assert.Equal(t, reflection.Encode(src), data)

		var dst reflection.Reflection
		require.NoError(t, codec.Unmarshal(data, &dst))
		assert.True(t, src.Equal(&dst))
	})

	t.Run("Reject values without binary methods", func(t *testing.T) {
		_, err := codec.Marshal(struct{}{})
		assert.Error(t, err)
		assert.Error(t, codec.Unmarshal([]byte{}, &struct{}{}))
	})

	t.Run("Unmarshal errors propagate", func(t *testing.T) {
		var dst reflection.Reflection
		err := codec.Unmarshal([]byte{2, 0, 0, 0, 0, 0, 0, 0}, &dst)
		assert.ErrorIs(t, err, reflection.ErrUnsupportedVersion)
	})
}

func TestProtoCodec(t *testing.T) {
	var codec Codec = ProtoCodec{}

	t.Run("Marshal and unmarshal a message", func(t *testing.T) {
		src, err := structpb.NewStruct(map[string]any{"id": "r1", "n": 3.0, "b": true})
		require.NoError(t, err)
		data, err := codec.Marshal(src)
		require.NoError(t, err)

		// Deterministic output for equal messages.
		again, err := codec.Marshal(src)
		require.NoError(t, err)
		assert.Equal(t, data, again)

		dst := &structpb.Struct{}
		require.NoError(t, codec.Unmarshal(data, dst))
		assert.Equal(t, src.AsMap(), dst.AsMap())
	})

	t.Run("Reject non-proto values", func(t *testing.T) {
		_, err := codec.Marshal("plain")
		assert.Error(t, err)
		assert.Error(t, codec.Unmarshal(nil, new(int)))
	})

	t.Run("Reject malformed data", func(t *testing.T) {
		assert.Error(t, codec.Unmarshal([]byte{0xff, 0xff}, &structpb.Struct{}))
	})
}

func TestCBORCodec(t *testing.T) {
	var codec Codec = CBORCodec{}

	t.Run("Marshal and unmarshal", func(t *testing.T) {
		src := map[string]any{"id": "r1", "state": []byte{1, 0, 0}}
		data, err := codec.Marshal(src)
		require.NoError(t, err)

		var dst map[string]any
		require.NoError(t, codec.Unmarshal(data, &dst))
		assert.Equal(t, "r1", dst["id"])
		assert.Equal(t, []byte{1, 0, 0}, dst["state"])
	})

	t.Run("Canonical map key order", func(t *testing.T) {
		a, err := codec.Marshal(map[string]int{"b": 2, "a": 1, "ccc": 3})
		require.NoError(t, err)
		b, err := codec.Marshal(map[string]int{"ccc": 3, "a": 1, "b": 2})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Reject malformed data", func(t *testing.T) {
		var dst []any
		assert.Error(t, codec.Unmarshal([]byte{0x9f}, &dst))
	})
}
