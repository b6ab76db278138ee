// Package corpus builds and checks suites of header test vectors.
//
// A suite pairs well-formed headers with deliberately damaged copies of
// them, each labeled with the outcome a decoder is required to produce.
// Suites can be written out as a directory of .bin files under a JSON
// index, or packed into a single compressed bundle, so that independent
// implementations of the format can share one set of fixtures.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/avpack/framehdr"
)

var (
	// ErrDigestMismatch reports vector data that no longer matches its
	// recorded xxhash64 digest.
	ErrDigestMismatch = errors.New("corpus: digest mismatch")
	// ErrOutcomeMismatch reports a decode outcome that disagrees with
	// the vector's label.
	ErrOutcomeMismatch = errors.New("corpus: outcome mismatch")
	// ErrBadBundle reports a bundle that cannot be parsed.
	ErrBadBundle = errors.New("corpus: malformed bundle")
)

// Expect names the outcome a vector is built to produce.
type Expect string

const (
	ExpectOK     Expect = "ok"
	ExpectMagic  Expect = "invalid_magic"
	ExpectCode   Expect = "invalid_code"
	ExpectShort  Expect = "buffer_too_short"
	ExpectLength Expect = "invalid_length"
)

// expectCodes fixes the wire code of each expectation inside a bundle.
var expectCodes = [...]Expect{
	ExpectOK,
	ExpectMagic,
	ExpectCode,
	ExpectShort,
	ExpectLength,
}

func (e Expect) code() (uint8, bool) {
	for i, known := range expectCodes {
		if e == known {
			return uint8(i), true
		}
	}
	return 0, false
}

func expectFromCode(c uint8) (Expect, bool) {
	if int(c) >= len(expectCodes) {
		return "", false
	}
	return expectCodes[c], true
}

// want returns the error sentinel a failing expectation must match.
func (e Expect) want() (error, bool) {
	switch e {
	case ExpectMagic:
		return framehdr.ErrInvalidMagic, true
	case ExpectCode:
		return framehdr.ErrInvalidCode, true
	case ExpectShort:
		return framehdr.ErrBufferTooShort, true
	case ExpectLength:
		return framehdr.ErrInvalidLength, true
	}
	return nil, false
}

// Vector is one labeled fixture: raw bytes, the outcome they must
// produce, and the xxhash64 digest of the bytes.
type Vector struct {
	Name   string
	Expect Expect
	Digest uint64
	Data   []byte
}

// Suite is an ordered collection of vectors.
type Suite struct {
	Vectors []Vector
}

// Base pairs a name with a header a suite is built around. Every
// vector derived from the base carries the name as a prefix.
type Base struct {
	Name   string
	Header framehdr.Header
}

// DefaultBases returns the built-in generation set. It spans every
// encoding, all four sample rates, all three bit depths, both byte
// orders, and all four presence shapes of the optional fields.
func DefaultBases() ([]Base, error) {
	specs := []struct {
		name       string
		encoding   framehdr.Encoding
		sampleSize uint16
		sampleRate uint32
		channels   uint8
		bits       uint8
		endianness framehdr.Endianness
		id, pts    framehdr.OptU64
	}{
		{"pcm16_mono", framehdr.PCMSigned, 512, 44100, 1, 16, framehdr.LittleEndian, framehdr.OptU64{}, framehdr.OptU64{}},
		{"pcm24_stereo", framehdr.PCMSigned, 1024, 48000, 2, 24, framehdr.LittleEndian, framehdr.OptU64{}, framehdr.OptU64{}},
		{"float32_quad_pts", framehdr.PCMFloat, 2048, 96000, 4, 32, framehdr.LittleEndian, framehdr.OptU64{}, framehdr.U64(90000)},
		{"opus_stereo_id", framehdr.Opus, 320, 48000, 2, 16, framehdr.LittleEndian, framehdr.U64(7), framehdr.OptU64{}},
		{"flac_max", framehdr.FLAC, framehdr.MaxSampleSize, 88200, framehdr.MaxChannels, 32, framehdr.BigEndian, framehdr.U64(1<<64 - 1), framehdr.U64(0)},
		{"aac_lc", framehdr.AAC, 768, 44100, 2, 16, framehdr.LittleEndian, framehdr.U64(1), framehdr.U64(1024)},
		{"h264_keyframe", framehdr.H264, 3800, 96000, 1, 16, framehdr.BigEndian, framehdr.OptU64{}, framehdr.U64(3003)},
	}

	bases := make([]Base, 0, len(specs))
	for _, s := range specs {
		h, err := framehdr.New(s.encoding, s.sampleSize, s.sampleRate, s.channels, s.bits, s.endianness, s.id, s.pts)
		if err != nil {
			return nil, fmt.Errorf("corpus: base %s: %w", s.name, err)
		}
		bases = append(bases, Base{Name: s.name, Header: h})
	}
	return bases, nil
}

// Generate builds a suite from the given bases: one well-formed vector
// per base plus the full mutation set derived from it.
func Generate(bases []Base) (*Suite, error) {
	if len(bases) == 0 {
		return nil, errors.New("corpus: no bases to generate from")
	}
	seen := make(map[string]struct{}, len(bases))
	suite := &Suite{}
	for _, b := range bases {
		if b.Name == "" {
			return nil, errors.New("corpus: base with empty name")
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("corpus: duplicate base name %q", b.Name)
		}
		seen[b.Name] = struct{}{}

		enc, err := framehdr.Encode(b.Header)
		if err != nil {
			return nil, fmt.Errorf("corpus: base %s: %w", b.Name, err)
		}
		suite.Vectors = append(suite.Vectors, newVector(b.Name+"_ok", ExpectOK, enc))
		suite.Vectors = append(suite.Vectors, mutate(b.Name, enc)...)
	}
	return suite, nil
}

func newVector(name string, expect Expect, data []byte) Vector {
	return Vector{
		Name:   name,
		Expect: expect,
		Digest: xxhash.Sum64(data),
		Data:   data,
	}
}

// Verify re-hashes a vector and replays it through the codec, checking
// that the observed outcome matches the label.
func Verify(v Vector) error {
	if got := xxhash.Sum64(v.Data); got != v.Digest {
		return fmt.Errorf("%s: recorded %016x, computed %016x: %w", v.Name, v.Digest, got, ErrDigestMismatch)
	}

	hdr, decodeErr := framehdr.Decode(v.Data)
	validateErr := framehdr.Validate(v.Data)

	switch v.Expect {
	case ExpectOK:
		if decodeErr != nil {
			return fmt.Errorf("%s: decode failed: %v: %w", v.Name, decodeErr, ErrOutcomeMismatch)
		}
		if validateErr != nil {
			return fmt.Errorf("%s: validate failed: %v: %w", v.Name, validateErr, ErrOutcomeMismatch)
		}
		enc, err := framehdr.Encode(hdr)
		if err != nil {
			return fmt.Errorf("%s: re-encode failed: %v: %w", v.Name, err, ErrOutcomeMismatch)
		}
		if !bytes.Equal(enc, v.Data) {
			return fmt.Errorf("%s: re-encode diverged from stored bytes: %w", v.Name, ErrOutcomeMismatch)
		}
	case ExpectMagic, ExpectCode:
		want, _ := v.Expect.want()
		if !errors.Is(decodeErr, want) {
			return fmt.Errorf("%s: decode: got %v, want %s: %w", v.Name, decodeErr, v.Expect, ErrOutcomeMismatch)
		}
		// Word-level damage must be visible without the trailing fields.
		if !errors.Is(validateErr, want) {
			return fmt.Errorf("%s: validate: got %v, want %s: %w", v.Name, validateErr, v.Expect, ErrOutcomeMismatch)
		}
	case ExpectShort:
		if !errors.Is(decodeErr, framehdr.ErrBufferTooShort) {
			return fmt.Errorf("%s: decode: got %v, want %s: %w", v.Name, decodeErr, v.Expect, ErrOutcomeMismatch)
		}
	case ExpectLength:
		if !errors.Is(decodeErr, framehdr.ErrInvalidLength) {
			return fmt.Errorf("%s: decode: got %v, want %s: %w", v.Name, decodeErr, v.Expect, ErrOutcomeMismatch)
		}
		if validateErr != nil {
			return fmt.Errorf("%s: validate rejected a sound word: %v: %w", v.Name, validateErr, ErrOutcomeMismatch)
		}
	default:
		return fmt.Errorf("%s: unknown expectation %q", v.Name, v.Expect)
	}
	return nil
}

// VerifySuite verifies every vector and stops at the first failure.
func VerifySuite(s *Suite) error {
	for _, v := range s.Vectors {
		if err := Verify(v); err != nil {
			return err
		}
	}
	return nil
}

const indexVersion = 1

type indexFile struct {
	Version int          `json:"version"`
	Vectors []indexEntry `json:"vectors"`
}

type indexEntry struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Expect string `json:"expect"`
	Digest string `json:"digest"`
}

// WriteDir lays a suite out as one .bin file per vector plus an
// index.json describing them.
func WriteDir(dir string, s *Suite) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("corpus: create dir: %w", err)
	}
	idx := indexFile{Version: indexVersion}
	for _, v := range s.Vectors {
		file := v.Name + ".bin"
		if err := os.WriteFile(filepath.Join(dir, file), v.Data, 0o644); err != nil {
			return fmt.Errorf("corpus: write vector %s: %w", v.Name, err)
		}
		idx.Vectors = append(idx.Vectors, indexEntry{
			Name:   v.Name,
			File:   file,
			Expect: string(v.Expect),
			Digest: fmt.Sprintf("%016x", v.Digest),
		})
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: encode index: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, "index.json"), data, 0o644); err != nil {
		return fmt.Errorf("corpus: write index: %w", err)
	}
	return nil
}

// LoadDir reads a suite back from a directory written by WriteDir. It
// does not verify the vectors; run VerifySuite on the result for that.
func LoadDir(dir string) (*Suite, error) {
	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err != nil {
		return nil, fmt.Errorf("corpus: read index: %w", err)
	}
	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("corpus: parse index: %w", err)
	}
	if idx.Version != indexVersion {
		return nil, fmt.Errorf("corpus: unsupported index version %d", idx.Version)
	}
	suite := &Suite{Vectors: make([]Vector, 0, len(idx.Vectors))}
	for _, e := range idx.Vectors {
		// Index entries name files inside dir only.
		if e.File != filepath.Base(e.File) {
			return nil, fmt.Errorf("corpus: index entry %s: file %q escapes dir", e.Name, e.File)
		}
		digest, err := strconv.ParseUint(e.Digest, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("corpus: index entry %s: digest %q: %w", e.Name, e.Digest, err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.File))
		if err != nil {
			return nil, fmt.Errorf("corpus: read vector %s: %w", e.Name, err)
		}
		suite.Vectors = append(suite.Vectors, Vector{
			Name:   e.Name,
			Expect: Expect(e.Expect),
			Digest: digest,
			Data:   raw,
		})
	}
	return suite, nil
}
