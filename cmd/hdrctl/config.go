package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

// outputConfig carries the rendering preferences for inspect and extract.
type outputConfig struct {
	Format        outputFormat
	PayloadDigest bool
}

func defaultOutputConfig() outputConfig {
	return outputConfig{Format: formatText, PayloadDigest: true}
}

// hdrctl config.toml key mapping to output preferences.
type fileConfig struct {
	Format        string `toml:"format"`
	PayloadDigest bool   `toml:"payload_digest"`
}

// loadOutputConfig overlays the file's keys onto the defaults. Only keys
// actually present in the file override; a config setting a lone key
// leaves the rest at their defaults.
func loadOutputConfig(path string) (outputConfig, error) {
	cfg := defaultOutputConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return outputConfig{}, fmt.Errorf("load hdrctl config: %w", err)
	}

	if meta.IsDefined("format") {
		switch f := outputFormat(strings.TrimSpace(raw.Format)); f {
		case formatText, formatJSON:
			cfg.Format = f
		default:
			return outputConfig{}, fmt.Errorf("load hdrctl config: unknown format %q (expected text or json)", raw.Format)
		}
	}
	if meta.IsDefined("payload_digest") {
		cfg.PayloadDigest = raw.PayloadDigest
	}
	return cfg, nil
}
