// decode.go unpacks wire buffers back into Header values.

package framehdr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Decode parses a complete encoded header. The buffer must hold exactly
// the bytes the header word implies; a payload or any other trailing data
// fails the decode with ErrInvalidLength. Use DecodeFrom to take a header
// off the front of a stream, or the Extract functions to read single
// fields out of a buffer that still carries its payload.
func Decode(b []byte) (Header, error) {
	h, n, err := decodePrefix(b)
	if err != nil {
		return Header{}, err
	}
	if len(b) != n {
		return Header{}, fmt.Errorf("%d bytes after %d-byte header: %w", len(b)-n, n, ErrInvalidLength)
	}
	return h, nil
}

// DecodeFrom reads one header from r, consuming exactly the header's bytes
// and leaving any payload unread.
func DecodeFrom(r io.Reader) (Header, error) {
	var word [WordSize]byte
	if _, err := io.ReadFull(r, word[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("header word: %w", ErrBufferTooShort)
		}
		return Header{}, err
	}

	// Only a validated word gets to decide how many more bytes to read.
	w := binary.BigEndian.Uint32(word[:])
	if err := validateWord(w); err != nil {
		return Header{}, err
	}

	n := WordSize
	if w&idMask != 0 {
		n += FieldSize
	}
	if w&ptsMask != 0 {
		n += FieldSize
	}

	buf := make([]byte, n)
	copy(buf, word[:])
	if n > WordSize {
		if _, err := io.ReadFull(r, buf[WordSize:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Header{}, fmt.Errorf("trailing fields: %w", ErrBufferTooShort)
			}
			return Header{}, err
		}
	}
	return Decode(buf)
}

// decodePrefix parses the header at the front of b and reports how many
// bytes it occupied.
func decodePrefix(b []byte) (Header, int, error) {
	if len(b) < WordSize {
		return Header{}, 0, fmt.Errorf("header word: %w", ErrBufferTooShort)
	}
	word := binary.BigEndian.Uint32(b[0:WordSize])
	if err := validateWord(word); err != nil {
		return Header{}, 0, err
	}

	endianness := LittleEndian
	if word&endianMask != 0 {
		endianness = BigEndian
	}

	var id, pts OptU64
	off := WordSize
	if word&idMask != 0 {
		if len(b) < off+FieldSize {
			return Header{}, 0, fmt.Errorf("id field: %w", ErrBufferTooShort)
		}
		id = U64(binary.BigEndian.Uint64(b[off : off+FieldSize]))
		off += FieldSize
	}
	if word&ptsMask != 0 {
		if len(b) < off+FieldSize {
			return Header{}, 0, fmt.Errorf("pts field: %w", ErrBufferTooShort)
		}
		pts = U64(binary.BigEndian.Uint64(b[off : off+FieldSize]))
		off += FieldSize
	}

	// Unpacked values go back through New so decoded headers satisfy
	// exactly the construction constraints.
	h, err := New(
		Encoding((word&encodingMask)>>encodingShift),
		uint16(word&sampleSizeMask),
		sampleRates[(word&sampleRateMask)>>sampleRateShift],
		uint8((word&channelsMask)>>channelsShift)+1,
		bitDepths[(word&bitsMask)>>bitsShift],
		endianness,
		id, pts,
	)
	if err != nil {
		return Header{}, 0, err
	}
	return h, off, nil
}
