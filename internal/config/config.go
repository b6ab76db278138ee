package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// CorpusConfig drives suite generation: where output lands and which
// headers the vectors are built around. An empty vector list means the
// built-in generation set.
type CorpusConfig struct {
	OutDir      string         `toml:"out_dir"`
	Bundle      string         `toml:"bundle"`
	Compression string         `toml:"compression"`
	Vectors     []VectorConfig `toml:"vectors"`
}

// VectorConfig describes one generation base in config spelling.
// Encoding and endianness use the codec's canonical names; id and pts
// are absent unless set.
type VectorConfig struct {
	Name          string  `toml:"name"`
	Encoding      string  `toml:"encoding"`
	SampleSize    uint16  `toml:"sample_size"`
	SampleRate    uint32  `toml:"sample_rate"`
	Channels      uint8   `toml:"channels"`
	BitsPerSample uint8   `toml:"bits_per_sample"`
	Endianness    string  `toml:"endianness"`
	ID            *uint64 `toml:"id"`
	PTS           *uint64 `toml:"pts"`
}

func LoadCorpusConfig(path string) (CorpusConfig, error) {
	var cfg CorpusConfig
	if err := loadToml(path, &cfg); err != nil {
		return CorpusConfig{}, err
	}
	if cfg.OutDir == "" && cfg.Bundle == "" {
		cfg.OutDir = "corpus"
	}
	if cfg.Compression == "" {
		cfg.Compression = "zstd"
	}
	for i := range cfg.Vectors {
		if cfg.Vectors[i].Endianness == "" {
			cfg.Vectors[i].Endianness = "little"
		}
	}
	if err := ValidateCorpusConfig(cfg); err != nil {
		return CorpusConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateCorpusConfig(cfg CorpusConfig) error {
	if strings.TrimSpace(cfg.Compression) == "" {
		return fmt.Errorf("corpus config missing compression")
	}
	seen := make(map[string]struct{}, len(cfg.Vectors))
	for i, v := range cfg.Vectors {
		if err := ValidateVectorEntry(v); err != nil {
			return fmt.Errorf("vector[%d] invalid: %w", i, err)
		}
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("vector[%d] invalid: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}

// ValidateVectorEntry checks what the TOML layer can check. Value
// ranges and enum spellings are left to the codec's constructors.
func ValidateVectorEntry(v VectorConfig) error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !safeName(v.Name) {
		return fmt.Errorf("name %q may only use lowercase letters, digits, and underscores", v.Name)
	}
	if v.Encoding == "" {
		return fmt.Errorf("encoding is required")
	}
	if v.SampleRate == 0 {
		return fmt.Errorf("sample_rate is required")
	}
	return nil
}

// Vector names become file names, so they stay within one charset.
func safeName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
