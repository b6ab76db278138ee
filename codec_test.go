package framehdr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func mustHeader(t *testing.T, enc Encoding, size uint16, rate uint32, ch, bits uint8, endian Endianness, id, pts OptU64) Header {
	t.Helper()
	h, err := New(enc, size, rate, ch, bits, endian, id, pts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func mustEncode(t *testing.T, h Header) []byte {
	t.Helper()
	buf, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func wordBytes(word uint32) []byte {
	b := make([]byte, WordSize)
	binary.BigEndian.PutUint32(b, word)
	return b
}

// corruptMagic rewrites the magic field of word. The replacement goes
// through a parameter so oversized values truncate at runtime the way a
// corrupted wire word would.
func corruptMagic(word, magic uint32) uint32 {
	mask := uint32(0x3F) << magicShift
	return word&^mask | magic<<magicShift
}

// The reference header used across these tests: PCM signed, 1024 samples,
// 48kHz, stereo, 24-bit, little-endian, no optional fields.
func refHeader(t *testing.T) Header {
	t.Helper()
	return mustHeader(t, PCMSigned, 1024, 48000, 2, 24, LittleEndian, OptU64{}, OptU64{})
}

func TestEncodeKnownBytes(t *testing.T) {
	got := mustEncode(t, refHeader(t))
	want := []byte{0xA9, 0x40, 0x14, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoded word: expected % X, got % X", want, got)
	}

	h := mustHeader(t, PCMSigned, 1024, 48000, 2, 24, LittleEndian, U64(0xDEADBEEF), U64(0xCAFEBABE))
	got = mustEncode(t, h)
	want = []byte{
		0xA9, 0x70, 0x14, 0x00,
		0x00, 0x00, 0x00, 0x00, 0xDE, 0xAD, 0xBE, 0xEF,
		0x00, 0x00, 0x00, 0x00, 0xCA, 0xFE, 0xBA, 0xBE,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoded header: expected % X, got % X", want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"bare word", mustHeader(t, Opus, 960, 48000, 2, 16, LittleEndian, OptU64{}, OptU64{})},
		{"id only", mustHeader(t, FLAC, 2048, 88200, 6, 24, BigEndian, U64(42), OptU64{})},
		{"pts only", mustHeader(t, AAC, 1, 44100, 1, 32, LittleEndian, OptU64{}, U64(1675000000000000))},
		{"id and pts", mustHeader(t, H264, 4095, 96000, 16, 32, BigEndian, U64(0xFFFFFFFFFFFFFFFF), U64(0))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := mustEncode(t, tc.h)
			if len(buf) != tc.h.Size() {
				t.Fatalf("encoded length %d, Size() %d", len(buf), tc.h.Size())
			}

			got, err := Decode(buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tc.h {
				t.Fatalf("round trip mismatch:\n in: %v\nout: %v", tc.h, got)
			}

			again := mustEncode(t, got)
			if !bytes.Equal(buf, again) {
				t.Fatalf("re-encode mismatch: % X vs % X", buf, again)
			}
		})
	}
}

// Every bit position carries a field, so a header with every field at its
// maximum must survive the trip with nothing bleeding into a neighbor.
func TestFieldBoundaries(t *testing.T) {
	h := mustHeader(t, PCMSigned, 0xFFF, 48000, 16, 32, BigEndian, U64(1), U64(1))
	got, err := Decode(mustEncode(t, h))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SampleSize() != 0xFFF || got.Channels() != 16 || got.BitsPerSample() != 32 {
		t.Fatalf("field bleed: %v", got)
	}
	if got.Endianness() != BigEndian || !got.ID().Set || !got.PTS().Set {
		t.Fatalf("flag bleed: %v", got)
	}
}

func TestDecodeMagicCorruption(t *testing.T) {
	valid := binary.BigEndian.Uint32(mustEncode(t, refHeader(t)))

	tests := []struct {
		name  string
		magic uint32
	}{
		{"magic plus one", magicWord + 1},
		{"magic minus one", magicWord - 1},
		{"magic shifted right", magicWord >> 1},
		{"magic shifted left", magicWord << 1},
		{"magic cleared", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := wordBytes(corruptMagic(valid, tc.magic))
			if _, err := Decode(buf); !errors.Is(err, ErrInvalidMagic) {
				t.Fatalf("Decode: expected ErrInvalidMagic, got %v", err)
			}
			if err := Validate(buf); !errors.Is(err, ErrInvalidMagic) {
				t.Fatalf("Validate: expected ErrInvalidMagic, got %v", err)
			}
		})
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	full := mustEncode(t, refHeader(t))
	for n := 0; n < WordSize; n++ {
		if _, err := Decode(full[:n]); !errors.Is(err, ErrBufferTooShort) {
			t.Fatalf("len %d: expected ErrBufferTooShort, got %v", n, err)
		}
	}
}

func TestDecodeTruncatedOptionalFields(t *testing.T) {
	withID := mustEncode(t, mustHeader(t, Opus, 960, 48000, 2, 16, LittleEndian, U64(7), OptU64{}))
	withBoth := mustEncode(t, mustHeader(t, Opus, 960, 48000, 2, 16, LittleEndian, U64(7), U64(9)))

	tests := []struct {
		name string
		buf  []byte
	}{
		{"id flagged, word only", withID[:4]},
		{"id flagged, id cut", withID[:11]},
		{"both flagged, pts missing", withBoth[:12]},
		{"both flagged, pts cut", withBoth[:19]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.buf); !errors.Is(err, ErrBufferTooShort) {
				t.Fatalf("expected ErrBufferTooShort, got %v", err)
			}
		})
	}
}

func TestDecodeReservedCodes(t *testing.T) {
	valid := binary.BigEndian.Uint32(mustEncode(t, refHeader(t)))

	tests := []struct {
		name string
		word uint32
	}{
		{"bits code 3", valid&^bitsMask | 3<<bitsShift},
		{"encoding code 6", valid&^encodingMask | 6<<encodingShift},
		{"encoding code 7", valid&^encodingMask | 7<<encodingShift},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := wordBytes(tc.word)
			if _, err := Decode(buf); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("Decode: expected ErrInvalidCode, got %v", err)
			}
			if err := Validate(buf); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("Validate: expected ErrInvalidCode, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	buf := mustEncode(t, refHeader(t))
	buf = append(buf, 0x01)
	if _, err := Decode(buf); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}

	withBoth := mustEncode(t, mustHeader(t, Opus, 960, 48000, 2, 16, LittleEndian, U64(7), U64(9)))
	withBoth = append(withBoth, make([]byte, 128)...)
	if _, err := Decode(withBoth); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength with payload attached, got %v", err)
	}
}

func TestEncodeZeroHeader(t *testing.T) {
	if _, err := Encode(Header{}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	h := mustHeader(t, PCMFloat, 256, 96000, 8, 32, LittleEndian, U64(11), U64(22))
	payload := bytes.Repeat([]byte{0x5A}, 64)

	var buf bytes.Buffer
	if err := EncodeTo(&buf, h); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	buf.Write(payload)

	got, err := DecodeFrom(&buf)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if got != h {
		t.Fatalf("stream round trip mismatch:\n in: %v\nout: %v", h, got)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Fatalf("payload consumed: %d bytes left, expected %d", buf.Len(), len(payload))
	}
}

func TestDecodeFromShortStream(t *testing.T) {
	full := mustEncode(t, mustHeader(t, Opus, 960, 48000, 2, 16, LittleEndian, U64(7), U64(9)))

	for _, n := range []int{0, 3, 4, 12, 19} {
		if _, err := DecodeFrom(bytes.NewReader(full[:n])); !errors.Is(err, ErrBufferTooShort) {
			t.Fatalf("len %d: expected ErrBufferTooShort, got %v", n, err)
		}
	}
}

func TestDecodeFromBadMagic(t *testing.T) {
	r := bytes.NewReader([]byte{0x00, 0x11, 0x22, 0x33, 0x44})
	if _, err := DecodeFrom(r); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestValidateToleratesPayload(t *testing.T) {
	buf := mustEncode(t, refHeader(t))
	buf = append(buf, make([]byte, 512)...)
	if err := Validate(buf); err != nil {
		t.Fatalf("Validate with payload: %v", err)
	}
}

func TestValidateShortBuffer(t *testing.T) {
	if err := Validate([]byte{0xA9, 0x40}); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort, got %v", err)
	}
}
