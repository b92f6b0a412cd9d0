// Package reflection defines the Reflection record and its versioned binary encoding.
//
// # Wire format
//
// An encoded buffer is a single contiguous byte sequence:
//
//	[version][fixed fields...][shoebox][shoebox mask][shoebox background][transformed shoebox]
//
// Every integer (the version, signed fields, dimension counts and sizes, and mask
// elements) is 8 bytes little-endian two's complement. Every float is an 8 byte
// little-endian IEEE-754 binary64. Booleans are a single byte, 0x00 or 0x01.
// There is no padding, no compression and no overall length prefix; the end of
// the buffer terminates the record.
//
// Fixed fields follow the version in this order:
//
//	miller_index                  3 x int
//	status                        int
//	entering                      bool
//	rotation_angle                float
//	beam_vector                   3 x float
//	image_coord_px                2 x float
//	image_coord_mm                2 x float
//	frame_number                  int
//	panel_number                  int
//	bounding_box                  6 x int
//	centroid_position             3 x float
//	centroid_variance             3 x float
//	centroid_sq_width             3 x float
//	intensity                     float
//	intensity_variance            float
//	corrected_intensity           float
//	corrected_intensity_variance  float
//
// Each profile is written as its dimension count, its dimension sizes, then its
// elements in row-major order. Use Layout to get the byte range of a fixed field.
//
// The order lives in a single field table shared by the encoder and decoder.
//
// # Errors
//
// Decoding returns a *FormatError wrapping one of ErrUnsupportedVersion,
// ErrTruncated, ErrInvalidShape or ErrTrailingData. No partially decoded record
// is ever returned.
//
// Encode and Decode hold no state and are safe for concurrent use on distinct
// records. Encoded buffers are never written after Encode returns.
package reflection
