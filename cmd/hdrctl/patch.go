package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avpack/framehdr"
)

// patchSpec is one parsed <field>=<value> argument.
type patchSpec struct {
	field string
	apply func([]byte) error
}

func parsePatchSpec(arg string) (patchSpec, error) {
	field, value, ok := strings.Cut(arg, "=")
	if !ok {
		return patchSpec{}, fmt.Errorf("patch argument %q: expected <field>=<value>", arg)
	}
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)

	// Spelling errors surface here; value ranges are the codec's call.
	switch field {
	case "sample_size":
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return patchSpec{}, fmt.Errorf("sample_size %q: expected an unsigned integer", value)
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchSampleSize(b, uint16(v)) }}, nil
	case "encoding":
		enc, err := framehdr.ParseEncoding(value)
		if err != nil {
			return patchSpec{}, err
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchEncoding(b, enc) }}, nil
	case "sample_rate":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return patchSpec{}, fmt.Errorf("sample_rate %q: expected an unsigned integer", value)
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchSampleRate(b, uint32(v)) }}, nil
	case "channels":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return patchSpec{}, fmt.Errorf("channels %q: expected an unsigned integer", value)
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchChannels(b, uint8(v)) }}, nil
	case "bits_per_sample":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return patchSpec{}, fmt.Errorf("bits_per_sample %q: expected an unsigned integer", value)
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchBitsPerSample(b, uint8(v)) }}, nil
	case "id":
		opt, err := parseOptValue(field, value)
		if err != nil {
			return patchSpec{}, err
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchID(b, opt) }}, nil
	case "pts":
		opt, err := parseOptValue(field, value)
		if err != nil {
			return patchSpec{}, err
		}
		return patchSpec{field, func(b []byte) error { return framehdr.PatchPTS(b, opt) }}, nil
	default:
		return patchSpec{}, fmt.Errorf("unknown field %q", field)
	}
}

func parseOptValue(field, value string) (framehdr.OptU64, error) {
	if value == "none" {
		return framehdr.OptU64{}, nil
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return framehdr.OptU64{}, fmt.Errorf("%s %q: expected a decimal uint64 or none", field, value)
	}
	return framehdr.U64(v), nil
}

// runPatch applies every requested field patch to an in-memory copy and
// rewrites the file only when all of them succeed, so a file never ends
// up with half of a patch sequence applied.
func runPatch(args []string, logger zerolog.Logger) error {
	if len(args) < 2 {
		return fmt.Errorf("patch takes a file and at least one <field>=<value>")
	}
	path := args[0]

	specs := make([]patchSpec, 0, len(args)-1)
	for _, arg := range args[1:] {
		spec, err := parsePatchSpec(arg)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		if err := spec.apply(buf); err != nil {
			return fmt.Errorf("patch %s: %w", spec.field, err)
		}
		logger.Debug().Str("field", spec.field).Msg("field patched")
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return err
	}
	logger.Info().Str("file", path).Int("fields", len(specs)).Msg("header patched")
	return nil
}
