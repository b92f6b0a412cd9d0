// Package encoder provides the codecs used to turn stored values into bytes.
package encoder

// Codec marshals values to and from bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, out any) error
}
