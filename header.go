// header.go defines the Header value type, its field enums, and validated
// construction. The packed word layout lives here; encode.go and decode.go
// move it on and off the wire.

package framehdr

import "fmt"

// Layout of the packed 4-byte header word.
const (
	magicWord uint32 = 0x2A

	magicShift      = 26
	sampleRateShift = 24
	bitsShift       = 22
	ptsShift        = 21
	idShift         = 20
	encodingShift   = 17
	endianShift     = 16
	channelsShift   = 12

	sampleRateMask = uint32(0x3) << sampleRateShift
	bitsMask       = uint32(0x3) << bitsShift
	ptsMask        = uint32(1) << ptsShift
	idMask         = uint32(1) << idShift
	encodingMask   = uint32(0x7) << encodingShift
	endianMask     = uint32(1) << endianShift
	channelsMask   = uint32(0xF) << channelsShift
	sampleSizeMask = uint32(0xFFF)
)

// Encoded sizes and field limits.
const (
	// WordSize is the length of the packed header word.
	WordSize = 4
	// FieldSize is the length of each optional trailing field.
	FieldSize = 8
	// MaxSize is the largest encoded header: word, id, and pts.
	MaxSize = WordSize + 2*FieldSize

	// MaxSampleSize is the largest sample count the 12-bit field holds.
	MaxSampleSize = 0xFFF
	// MaxChannels is the largest channel count the 4-bit field holds.
	MaxChannels = 16
)

// Encoding identifies the codec of the tagged payload.
type Encoding uint8

const (
	PCMSigned Encoding = iota
	PCMFloat
	Opus
	FLAC
	AAC
	H264
)

var encodingNames = [...]string{
	PCMSigned: "pcm_signed",
	PCMFloat:  "pcm_float",
	Opus:      "opus",
	FLAC:      "flac",
	AAC:       "aac",
	H264:      "h264",
}

// String returns the canonical name of the encoding, e.g. "opus".
func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

// ParseEncoding maps a canonical encoding name back to its value.
func ParseEncoding(s string) (Encoding, error) {
	for i, name := range encodingNames {
		if s == name {
			return Encoding(i), nil
		}
	}
	return 0, fmt.Errorf("encoding %q: %w", s, ErrInvalidCode)
}

// Endianness states the byte order of the payload samples.
type Endianness uint8

const (
	LittleEndian Endianness = 0
	BigEndian    Endianness = 1
)

// String returns "little" or "big".
func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// ParseEndianness maps "little" or "big" back to its value.
func ParseEndianness(s string) (Endianness, error) {
	switch s {
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	}
	return 0, fmt.Errorf("endianness %q: %w", s, ErrInvalidCode)
}

// OptU64 is an optional uint64 field. The zero value is absent.
type OptU64 struct {
	Value uint64
	Set   bool
}

// U64 returns a present OptU64 holding v.
func U64(v uint64) OptU64 { return OptU64{Value: v, Set: true} }

// Supported sample rates, indexed by their 2-bit wire code.
var sampleRates = [4]uint32{44100, 48000, 88200, 96000}

func sampleRateCode(rate uint32) (uint32, bool) {
	for code, r := range sampleRates {
		if r == rate {
			return uint32(code), true
		}
	}
	return 0, false
}

// Supported bit depths, indexed by their 2-bit wire code. Code 3 is
// unassigned.
var bitDepths = [3]uint8{16, 24, 32}

func bitsCode(bits uint8) (uint32, bool) {
	for code, b := range bitDepths {
		if b == bits {
			return uint32(code), true
		}
	}
	return 0, false
}

// Header describes one tagged sample payload. New and Decode are the only
// ways to obtain a non-zero Header, and both enforce the field
// constraints, so a Header in hand always packs into a well-formed buffer.
// The zero Header is not usable; Encode rejects it.
type Header struct {
	encoding      Encoding
	sampleSize    uint16
	sampleRate    uint32
	channels      uint8
	bitsPerSample uint8
	endianness    Endianness
	id            OptU64
	pts           OptU64
}

// New builds a validated Header. Checks run in a fixed order: channel
// count, bit depth, sample size, then sample rate; the first failure wins
// and the returned error carries the rejected value.
func New(encoding Encoding, sampleSize uint16, sampleRate uint32, channels, bitsPerSample uint8, endianness Endianness, id, pts OptU64) (Header, error) {
	if channels == 0 || channels > MaxChannels {
		return Header{}, fmt.Errorf("channels %d: %w", channels, ErrInvalidChannelCount)
	}
	if _, ok := bitsCode(bitsPerSample); !ok {
		return Header{}, fmt.Errorf("bits per sample %d: %w", bitsPerSample, ErrInvalidBitsPerSample)
	}
	if sampleSize > MaxSampleSize {
		return Header{}, fmt.Errorf("sample size %d: %w", sampleSize, ErrSampleSizeTooLarge)
	}
	if _, ok := sampleRateCode(sampleRate); !ok {
		return Header{}, fmt.Errorf("sample rate %d: %w", sampleRate, ErrInvalidSampleRate)
	}
	// Encoding and Endianness are open integer types in Go, so values
	// outside their assigned codes must be caught here to keep every
	// constructed Header encodable.
	if encoding > H264 {
		return Header{}, fmt.Errorf("encoding %d: %w", uint8(encoding), ErrInvalidCode)
	}
	if endianness > BigEndian {
		return Header{}, fmt.Errorf("endianness %d: %w", uint8(endianness), ErrInvalidCode)
	}
	return Header{
		encoding:      encoding,
		sampleSize:    sampleSize,
		sampleRate:    sampleRate,
		channels:      channels,
		bitsPerSample: bitsPerSample,
		endianness:    endianness,
		id:            id,
		pts:           pts,
	}, nil
}

// Encoding returns the payload codec.
func (h Header) Encoding() Encoding { return h.encoding }

// SampleSize returns the sample count described by the header.
func (h Header) SampleSize() uint16 { return h.sampleSize }

// SampleRate returns the sample rate in Hz.
func (h Header) SampleRate() uint32 { return h.sampleRate }

// Channels returns the channel count.
func (h Header) Channels() uint8 { return h.channels }

// BitsPerSample returns the payload bit depth.
func (h Header) BitsPerSample() uint8 { return h.bitsPerSample }

// Endianness returns the payload byte order.
func (h Header) Endianness() Endianness { return h.endianness }

// ID returns the stream id; absent when the header carries none.
func (h Header) ID() OptU64 { return h.id }

// PTS returns the presentation timestamp; absent when the header carries
// none.
func (h Header) PTS() OptU64 { return h.pts }

// Size returns the encoded length in bytes: 4, 12, or 20.
func (h Header) Size() int {
	n := WordSize
	if h.id.Set {
		n += FieldSize
	}
	if h.pts.Set {
		n += FieldSize
	}
	return n
}

// String renders the header on one line, e.g.
// "opus 48000Hz 2ch 24bit little-endian 960 samples pts=12345".
func (h Header) String() string {
	s := fmt.Sprintf("%s %dHz %dch %dbit %s-endian %d samples",
		h.encoding, h.sampleRate, h.channels, h.bitsPerSample, h.endianness, h.sampleSize)
	if h.id.Set {
		s += fmt.Sprintf(" id=%d", h.id.Value)
	}
	if h.pts.Set {
		s += fmt.Sprintf(" pts=%d", h.pts.Value)
	}
	return s
}
