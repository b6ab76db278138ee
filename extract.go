// extract.go reads single fields out of encoded buffers without a full
// decode. Every extractor runs Validate first and then touches only the
// bytes its field occupies, so buffers that still carry their payload are
// fine.

package framehdr

import (
	"encoding/binary"
	"fmt"
)

// ExtractSampleSize returns the sample count field.
func ExtractSampleSize(b []byte) (uint16, error) {
	if err := Validate(b); err != nil {
		return 0, err
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	return uint16(word & sampleSizeMask), nil
}

// ExtractEncoding returns the encoding field.
func ExtractEncoding(b []byte) (Encoding, error) {
	if err := Validate(b); err != nil {
		return 0, err
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	return Encoding((word & encodingMask) >> encodingShift), nil
}

// ExtractID returns the stream id. A header without one yields an unset
// OptU64, not an error; the error cases are a malformed word and an id
// flag with no bytes behind it.
func ExtractID(b []byte) (OptU64, error) {
	if err := Validate(b); err != nil {
		return OptU64{}, err
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	if word&idMask == 0 {
		return OptU64{}, nil
	}
	if len(b) < WordSize+FieldSize {
		return OptU64{}, fmt.Errorf("id field: %w", ErrBufferTooShort)
	}
	return U64(binary.BigEndian.Uint64(b[WordSize : WordSize+FieldSize])), nil
}

// ExtractPTS returns the presentation timestamp, skipping the id field
// when one is present. A header without a pts yields an unset OptU64, not
// an error.
func ExtractPTS(b []byte) (OptU64, error) {
	if err := Validate(b); err != nil {
		return OptU64{}, err
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	if word&ptsMask == 0 {
		return OptU64{}, nil
	}
	off := WordSize
	if word&idMask != 0 {
		off += FieldSize
	}
	if len(b) < off+FieldSize {
		return OptU64{}, fmt.Errorf("pts field: %w", ErrBufferTooShort)
	}
	return U64(binary.BigEndian.Uint64(b[off : off+FieldSize])), nil
}
