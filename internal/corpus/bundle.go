package corpus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Bundle layout: an 8-byte magic string, a version byte, a compression
// byte, then the content. Content is big-endian like the header word:
// a u32 vector count followed by one entry per vector, each a u16
// name length, the name, a u8 expectation code, the u64 digest, a u32
// data length, and the data.
const (
	bundleMagic   = "FHDRCORP"
	bundleVersion = 1
)

// Compression selects how bundle content is stored.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression maps the written spelling back to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("corpus: unknown compression %q", s)
}

// EncodeBundle packs a suite into a single self-describing blob.
func EncodeBundle(s *Suite, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone, CompressionZstd:
	default:
		return nil, fmt.Errorf("corpus: unknown compression code %d", uint8(comp))
	}

	var content bytes.Buffer
	var scratch [8]byte
	binary.BigEndian.PutUint32(scratch[:4], uint32(len(s.Vectors)))
	content.Write(scratch[:4])
	for _, v := range s.Vectors {
		if v.Name == "" || len(v.Name) > math.MaxUint16 {
			return nil, fmt.Errorf("corpus: vector name %q not packable", v.Name)
		}
		code, ok := v.Expect.code()
		if !ok {
			return nil, fmt.Errorf("corpus: vector %s: unknown expectation %q", v.Name, v.Expect)
		}
		if uint64(len(v.Data)) > math.MaxUint32 {
			return nil, fmt.Errorf("corpus: vector %s: data too large", v.Name)
		}
		binary.BigEndian.PutUint16(scratch[:2], uint16(len(v.Name)))
		content.Write(scratch[:2])
		content.WriteString(v.Name)
		content.WriteByte(code)
		binary.BigEndian.PutUint64(scratch[:8], v.Digest)
		content.Write(scratch[:8])
		binary.BigEndian.PutUint32(scratch[:4], uint32(len(v.Data)))
		content.Write(scratch[:4])
		content.Write(v.Data)
	}

	packed := content.Bytes()
	if comp == CompressionZstd {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("corpus: zstd writer: %w", err)
		}
		packed = enc.EncodeAll(packed, nil)
		enc.Close()
	}

	out := make([]byte, 0, len(bundleMagic)+2+len(packed))
	out = append(out, bundleMagic...)
	out = append(out, bundleVersion, byte(comp))
	out = append(out, packed...)
	return out, nil
}

// DecodeBundle unpacks a bundle produced by EncodeBundle. It does not
// verify the vectors; run VerifySuite on the result for that.
func DecodeBundle(data []byte) (*Suite, Compression, error) {
	headerLen := len(bundleMagic) + 2
	if len(data) < headerLen {
		return nil, 0, fmt.Errorf("corpus: %d byte bundle: %w", len(data), ErrBadBundle)
	}
	if string(data[:len(bundleMagic)]) != bundleMagic {
		return nil, 0, fmt.Errorf("corpus: bad bundle magic: %w", ErrBadBundle)
	}
	if v := data[len(bundleMagic)]; v != bundleVersion {
		return nil, 0, fmt.Errorf("corpus: unsupported bundle version %d: %w", v, ErrBadBundle)
	}
	comp := Compression(data[len(bundleMagic)+1])
	content := data[headerLen:]
	switch comp {
	case CompressionNone:
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, fmt.Errorf("corpus: zstd reader: %w", err)
		}
		defer dec.Close()
		content, err = dec.DecodeAll(content, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("corpus: decompress: %v: %w", err, ErrBadBundle)
		}
	default:
		return nil, 0, fmt.Errorf("corpus: unknown compression code %d: %w", uint8(comp), ErrBadBundle)
	}

	cur := cursor{b: content}
	count, err := cur.u32()
	if err != nil {
		return nil, 0, err
	}
	// The smallest possible entry is 16 bytes; a count promising more
	// than the content can hold is rejected before allocating for it.
	if uint64(count)*16 > uint64(len(content)) {
		return nil, 0, fmt.Errorf("corpus: vector count %d exceeds content: %w", count, ErrBadBundle)
	}
	suite := &Suite{Vectors: make([]Vector, 0, count)}
	for i := uint32(0); i < count; i++ {
		nameLen, err := cur.u16()
		if err != nil {
			return nil, 0, err
		}
		if nameLen == 0 {
			return nil, 0, fmt.Errorf("corpus: entry %d: empty name: %w", i, ErrBadBundle)
		}
		name, err := cur.take(int(nameLen))
		if err != nil {
			return nil, 0, err
		}
		code, err := cur.u8()
		if err != nil {
			return nil, 0, err
		}
		expect, ok := expectFromCode(code)
		if !ok {
			return nil, 0, fmt.Errorf("corpus: entry %d: expectation code %d: %w", i, code, ErrBadBundle)
		}
		digest, err := cur.u64()
		if err != nil {
			return nil, 0, err
		}
		dataLen, err := cur.u32()
		if err != nil {
			return nil, 0, err
		}
		raw, err := cur.take(int(dataLen))
		if err != nil {
			return nil, 0, err
		}
		suite.Vectors = append(suite.Vectors, Vector{
			Name:   string(name),
			Expect: expect,
			Digest: digest,
			Data:   append([]byte(nil), raw...),
		})
	}
	if cur.off != len(cur.b) {
		return nil, 0, fmt.Errorf("corpus: %d trailing content bytes: %w", len(cur.b)-cur.off, ErrBadBundle)
	}
	return suite, comp, nil
}

// cursor walks bundle content with bounds checking on every read.
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || len(c.b)-c.off < n {
		return nil, fmt.Errorf("corpus: bundle truncated at offset %d: %w", c.off, ErrBadBundle)
	}
	out := c.b[c.off : c.off+n]
	c.off += n
	return out, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
