// Package hdrjson bridges framehdr.Header to JSON.
//
// JSON numbers in most consuming runtimes are IEEE 754 doubles, which hold
// integers exactly only up to 2^53. The id and pts fields are full 64-bit
// values, so this package carries them as decimal strings and keeps the
// conversion out of the codec core. Absent optional fields are omitted
// from the output and may be omitted or null on input.
package hdrjson

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/avpack/framehdr"
)

type headerJSON struct {
	Encoding      string  `json:"encoding"`
	SampleSize    uint16  `json:"sample_size"`
	SampleRate    uint32  `json:"sample_rate"`
	Channels      uint8   `json:"channels"`
	BitsPerSample uint8   `json:"bits_per_sample"`
	Endianness    string  `json:"endianness"`
	ID            *string `json:"id,omitempty"`
	PTS           *string `json:"pts,omitempty"`
}

// Marshal renders h as JSON with string-boxed id and pts fields.
func Marshal(h framehdr.Header) ([]byte, error) {
	out := headerJSON{
		Encoding:      h.Encoding().String(),
		SampleSize:    h.SampleSize(),
		SampleRate:    h.SampleRate(),
		Channels:      h.Channels(),
		BitsPerSample: h.BitsPerSample(),
		Endianness:    h.Endianness().String(),
	}
	if id := h.ID(); id.Set {
		s := strconv.FormatUint(id.Value, 10)
		out.ID = &s
	}
	if pts := h.PTS(); pts.Set {
		s := strconv.FormatUint(pts.Value, 10)
		out.PTS = &s
	}
	return json.Marshal(out)
}

// Unmarshal parses JSON produced by Marshal back into a Header. Field
// values pass through framehdr.New, so the constraints of the binary
// format apply to JSON input too.
func Unmarshal(data []byte) (framehdr.Header, error) {
	var in headerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return framehdr.Header{}, fmt.Errorf("hdrjson: %w", err)
	}

	encoding, err := framehdr.ParseEncoding(in.Encoding)
	if err != nil {
		return framehdr.Header{}, err
	}
	endianness, err := framehdr.ParseEndianness(in.Endianness)
	if err != nil {
		return framehdr.Header{}, err
	}

	id, err := parseOpt("id", in.ID)
	if err != nil {
		return framehdr.Header{}, err
	}
	pts, err := parseOpt("pts", in.PTS)
	if err != nil {
		return framehdr.Header{}, err
	}

	return framehdr.New(encoding, in.SampleSize, in.SampleRate, in.Channels, in.BitsPerSample, endianness, id, pts)
}

func parseOpt(field string, s *string) (framehdr.OptU64, error) {
	if s == nil {
		return framehdr.OptU64{}, nil
	}
	v, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		return framehdr.OptU64{}, fmt.Errorf("hdrjson: %s %q: not a decimal uint64", field, *s)
	}
	return framehdr.U64(v), nil
}
