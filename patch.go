// patch.go rewrites single fields inside an already-encoded buffer.
//
// Every patch validates the buffer and the replacement value before it
// writes anything, so a patch that returns an error leaves the buffer
// byte-for-byte unchanged. Patches write only the bytes their field
// occupies and never move the optional trailing fields. Two consequences
// when toggling presence flags:
//
//   - Clearing the id or pts drops a flag bit but does not shrink the
//     buffer; the stale field bytes stay where they were, unclaimed.
//   - Setting a field writes at that field's fixed offset. When the other
//     optional field already occupies those bytes, the write lands on top
//     of it. Reshaping a header is a Decode, New, Encode round trip, not
//     a patch.

package framehdr

import (
	"encoding/binary"
	"fmt"
)

// patchWord replaces the masked bits of the header word in place.
func patchWord(b []byte, mask, value uint32) {
	word := binary.BigEndian.Uint32(b[0:WordSize])
	word &^= mask
	word |= value & mask
	binary.BigEndian.PutUint32(b[0:WordSize], word)
}

// PatchSampleSize replaces the sample count field in place.
func PatchSampleSize(b []byte, sampleSize uint16) error {
	if err := Validate(b); err != nil {
		return err
	}
	if sampleSize > MaxSampleSize {
		return fmt.Errorf("sample size %d: %w", sampleSize, ErrSampleSizeTooLarge)
	}
	patchWord(b, sampleSizeMask, uint32(sampleSize))
	return nil
}

// PatchEncoding replaces the encoding field in place.
func PatchEncoding(b []byte, encoding Encoding) error {
	if err := Validate(b); err != nil {
		return err
	}
	if encoding > H264 {
		return fmt.Errorf("encoding %d: %w", uint8(encoding), ErrInvalidCode)
	}
	patchWord(b, encodingMask, uint32(encoding)<<encodingShift)
	return nil
}

// PatchSampleRate replaces the sample rate field in place.
func PatchSampleRate(b []byte, sampleRate uint32) error {
	if err := Validate(b); err != nil {
		return err
	}
	rc, ok := sampleRateCode(sampleRate)
	if !ok {
		return fmt.Errorf("sample rate %d: %w", sampleRate, ErrInvalidSampleRate)
	}
	patchWord(b, sampleRateMask, rc<<sampleRateShift)
	return nil
}

// PatchChannels replaces the channel count field in place.
func PatchChannels(b []byte, channels uint8) error {
	if err := Validate(b); err != nil {
		return err
	}
	if channels == 0 || channels > MaxChannels {
		return fmt.Errorf("channels %d: %w", channels, ErrInvalidChannelCount)
	}
	patchWord(b, channelsMask, uint32(channels-1)<<channelsShift)
	return nil
}

// PatchBitsPerSample replaces the bit depth field in place.
func PatchBitsPerSample(b []byte, bitsPerSample uint8) error {
	if err := Validate(b); err != nil {
		return err
	}
	bc, ok := bitsCode(bitsPerSample)
	if !ok {
		return fmt.Errorf("bits per sample %d: %w", bitsPerSample, ErrInvalidBitsPerSample)
	}
	patchWord(b, bitsMask, bc<<bitsShift)
	return nil
}

// PatchID sets or clears the stream id in place. Setting requires room
// for the field directly after the header word; the room check runs
// before any byte is written. Clearing only drops the flag.
func PatchID(b []byte, id OptU64) error {
	if err := Validate(b); err != nil {
		return err
	}
	if !id.Set {
		patchWord(b, idMask, 0)
		return nil
	}
	if len(b) < WordSize+FieldSize {
		return fmt.Errorf("id field: %w", ErrBufferTooShort)
	}
	binary.BigEndian.PutUint64(b[WordSize:WordSize+FieldSize], id.Value)
	patchWord(b, idMask, idMask)
	return nil
}

// PatchPTS sets or clears the presentation timestamp in place. The pts
// offset follows the current id flag, so when setting both fields patch
// the id first. Clearing only drops the flag.
func PatchPTS(b []byte, pts OptU64) error {
	if err := Validate(b); err != nil {
		return err
	}
	if !pts.Set {
		patchWord(b, ptsMask, 0)
		return nil
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	off := WordSize
	if word&idMask != 0 {
		off += FieldSize
	}
	if len(b) < off+FieldSize {
		return fmt.Errorf("pts field: %w", ErrBufferTooShort)
	}
	binary.BigEndian.PutUint64(b[off:off+FieldSize], pts.Value)
	patchWord(b, ptsMask, ptsMask)
	return nil
}
