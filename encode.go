// encode.go packs a Header into its wire form.

package framehdr

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encode packs h into a new buffer of exactly h.Size() bytes. The sample
// rate and bit depth are mapped through the code tables again here, so a
// zero Header fails instead of encoding garbage.
func Encode(h Header) ([]byte, error) {
	word, err := packWord(h)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, h.Size())
	binary.BigEndian.PutUint32(buf[0:WordSize], word)
	off := WordSize
	if h.id.Set {
		binary.BigEndian.PutUint64(buf[off:off+FieldSize], h.id.Value)
		off += FieldSize
	}
	if h.pts.Set {
		binary.BigEndian.PutUint64(buf[off:off+FieldSize], h.pts.Value)
	}
	return buf, nil
}

// EncodeTo writes the encoded header to w. The payload follows at the
// caller's leisure; nothing here frames or measures it.
func EncodeTo(w io.Writer, h Header) error {
	buf, err := Encode(h)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func packWord(h Header) (uint32, error) {
	rc, ok := sampleRateCode(h.sampleRate)
	if !ok {
		return 0, fmt.Errorf("sample rate %d: %w", h.sampleRate, ErrInvalidSampleRate)
	}
	bc, ok := bitsCode(h.bitsPerSample)
	if !ok {
		return 0, fmt.Errorf("bits per sample %d: %w", h.bitsPerSample, ErrInvalidBitsPerSample)
	}

	word := magicWord << magicShift
	word |= rc << sampleRateShift
	word |= bc << bitsShift
	if h.pts.Set {
		word |= ptsMask
	}
	if h.id.Set {
		word |= idMask
	}
	word |= uint32(h.encoding) << encodingShift
	word |= uint32(h.endianness) << endianShift
	word |= uint32(h.channels-1) << channelsShift
	word |= uint32(h.sampleSize)
	return word, nil
}
