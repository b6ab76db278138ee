// validate.go implements the cheap precondition check shared by the
// decode, extract, and patch paths.

package framehdr

import (
	"encoding/binary"
	"fmt"
)

// Validate reports whether b begins with a well-formed header word. It
// reads only the first four bytes and allocates nothing on success, so it
// is safe to call per-packet on hot paths. It deliberately ignores the
// optional trailing fields; the Extract functions check those when asked
// for them.
func Validate(b []byte) error {
	if len(b) < WordSize {
		return fmt.Errorf("header word: %w", ErrBufferTooShort)
	}
	return validateWord(binary.BigEndian.Uint32(b[0:WordSize]))
}

// validateWord checks the magic and the two field codes with unassigned
// values. Every sample rate and channel code is assigned, so those fields
// cannot be malformed at this level.
func validateWord(word uint32) error {
	if word>>magicShift != magicWord {
		return ErrInvalidMagic
	}
	if ec := (word & encodingMask) >> encodingShift; ec > uint32(H264) {
		return fmt.Errorf("encoding code %d: %w", ec, ErrInvalidCode)
	}
	if bc := (word & bitsMask) >> bitsShift; bc >= uint32(len(bitDepths)) {
		return fmt.Errorf("bits per sample code %d: %w", bc, ErrInvalidCode)
	}
	return nil
}
