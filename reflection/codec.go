package reflection

import "fmt"

// Encode returns the binary encoding of r. It does not modify r.
func Encode(r *Reflection) []byte {
	return AppendEncode(make([]byte, 0, EncodedSize(r)), r)
}

// AppendEncode appends the binary encoding of r to dst and returns the extended buffer.
func AppendEncode(dst []byte, r *Reflection) []byte {
	w := writer{buf: dst}
	w.putInt(FormatVersion)
	for _, f := range allFields {
		w.put(f.addr(r))
	}
	return w.buf
}

// Decode parses a buffer produced by Encode. The whole buffer must be consumed.
func Decode(buf []byte) (*Reflection, error) {
	rd := &reader{buf: buf, field: "version"}
	version, err := rd.uint64()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, rd.fail(0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version))
	}

	b := NewBuilder()
	for _, f := range allFields {
		rd.field = f.name
		if err := rd.read(b.stage(f)); err != nil {
			return nil, err
		}
	}
	if rd.remaining() > 0 {
		rd.field = ""
		return nil, rd.fail(rd.off, fmt.Errorf("%w: %d bytes", ErrTrailingData, rd.remaining()))
	}
	if err := b.complete(); err != nil {
		return nil, err
	}
	return &b.r, nil
}
