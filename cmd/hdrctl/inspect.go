package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/avpack/framehdr"
	"github.com/avpack/framehdr/hdrjson"
)

// readInput resolves a command's <input> argument into raw bytes.
func readInput(arg string, isHex bool) ([]byte, error) {
	if isHex {
		return parseHex(arg)
	}
	return os.ReadFile(arg)
}

func parseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "\t", "", "\n", "").Replace(s)
	clean = strings.TrimPrefix(clean, "0x")
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("parse hex input: %w", err)
	}
	return data, nil
}

// splitFrame separates a buffer into its decoded header and the payload
// behind it. Presence flags come from the extractors, so the header
// length is settled before any trailing byte is interpreted.
func splitFrame(buf []byte) (framehdr.Header, []byte, error) {
	id, err := framehdr.ExtractID(buf)
	if err != nil {
		return framehdr.Header{}, nil, err
	}
	pts, err := framehdr.ExtractPTS(buf)
	if err != nil {
		return framehdr.Header{}, nil, err
	}

	n := framehdr.WordSize
	if id.Set {
		n += framehdr.FieldSize
	}
	if pts.Set {
		n += framehdr.FieldSize
	}
	h, err := framehdr.Decode(buf[:n])
	if err != nil {
		return framehdr.Header{}, nil, err
	}
	return h, buf[n:], nil
}

func runInspect(args []string, isHex bool, opts outputConfig) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect takes exactly one input")
	}
	buf, err := readInput(args[0], isHex)
	if err != nil {
		return err
	}
	h, payload, err := splitFrame(buf)
	if err != nil {
		return err
	}
	if opts.Format == formatJSON {
		return renderJSON(os.Stdout, h, payload, opts)
	}
	return renderText(os.Stdout, h, payload, opts)
}

func optText(v framehdr.OptU64) string {
	if !v.Set {
		return "absent"
	}
	return strconv.FormatUint(v.Value, 10)
}

func renderText(w io.Writer, h framehdr.Header, payload []byte, opts outputConfig) error {
	rows := [][2]string{
		{"encoding", h.Encoding().String()},
		{"sample_size", strconv.Itoa(int(h.SampleSize()))},
		{"sample_rate", strconv.Itoa(int(h.SampleRate()))},
		{"channels", strconv.Itoa(int(h.Channels()))},
		{"bits_per_sample", strconv.Itoa(int(h.BitsPerSample()))},
		{"endianness", h.Endianness().String()},
		{"id", optText(h.ID())},
		{"pts", optText(h.PTS())},
		{"header_bytes", strconv.Itoa(h.Size())},
		{"payload_bytes", strconv.Itoa(len(payload))},
	}
	if opts.PayloadDigest && len(payload) > 0 {
		rows = append(rows, [2]string{"payload_xxh64", fmt.Sprintf("%016x", xxhash.Sum64(payload))})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

type inspectJSON struct {
	Header       json.RawMessage `json:"header"`
	HeaderBytes  int             `json:"header_bytes"`
	PayloadBytes int             `json:"payload_bytes"`
	PayloadXXH64 string          `json:"payload_xxh64,omitempty"`
}

func renderJSON(w io.Writer, h framehdr.Header, payload []byte, opts outputConfig) error {
	hdr, err := hdrjson.Marshal(h)
	if err != nil {
		return err
	}
	out := inspectJSON{
		Header:       hdr,
		HeaderBytes:  h.Size(),
		PayloadBytes: len(payload),
	}
	if opts.PayloadDigest && len(payload) > 0 {
		out.PayloadXXH64 = fmt.Sprintf("%016x", xxhash.Sum64(payload))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runExtract(args []string, isHex bool) error {
	if len(args) != 2 {
		return fmt.Errorf("extract takes a field and an input")
	}
	buf, err := readInput(args[1], isHex)
	if err != nil {
		return err
	}
	out, err := extractField(buf, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Println(out)
	return err
}

func extractField(buf []byte, field string) (string, error) {
	switch field {
	case "sample_size":
		v, err := framehdr.ExtractSampleSize(buf)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(v)), nil
	case "encoding":
		v, err := framehdr.ExtractEncoding(buf)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case "id":
		v, err := framehdr.ExtractID(buf)
		if err != nil {
			return "", err
		}
		return optText(v), nil
	case "pts":
		v, err := framehdr.ExtractPTS(buf)
		if err != nil {
			return "", err
		}
		return optText(v), nil
	default:
		return "", fmt.Errorf("unknown field %q (expected sample_size, encoding, id, or pts)", field)
	}
}
