package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "corpus":
		return corpusTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const corpusTemplate = `out_dir = "corpus"
bundle = ""
compression = "zstd"

[[vectors]]
name = "pcm24_stereo"
encoding = "pcm_signed"
sample_size = 1024
sample_rate = 48000
channels = 2
bits_per_sample = 24
endianness = "little"

[[vectors]]
name = "opus_stereo_id"
encoding = "opus"
sample_size = 320
sample_rate = 48000
channels = 2
bits_per_sample = 16
endianness = "little"
id = 7

[[vectors]]
name = "float_quad_stamped"
encoding = "pcm_float"
sample_size = 2048
sample_rate = 96000
channels = 4
bits_per_sample = 32
endianness = "little"
id = 1
pts = 90000
`
