package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avpack/framehdr"
	"github.com/avpack/framehdr/internal/corpus"
	"github.com/avpack/framehdr/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadCorpusConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
out_dir = "vectors"
compression = "none"

[[vectors]]
name = "pcm"
encoding = "pcm_signed"
sample_size = 1024
sample_rate = 48000
channels = 2
bits_per_sample = 24

[[vectors]]
name = "opus"
encoding = "opus"
sample_size = 320
sample_rate = 48000
channels = 2
bits_per_sample = 16
endianness = "big"
id = 7
`)

	cfg, err := LoadCorpusConfig(path)
	if err != nil {
		t.Fatalf("LoadCorpusConfig: %v", err)
	}
	if cfg.OutDir != "vectors" || cfg.Compression != "none" {
		t.Fatalf("got out_dir=%q compression=%q", cfg.OutDir, cfg.Compression)
	}
	if len(cfg.Vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(cfg.Vectors))
	}
	if cfg.Vectors[0].Endianness != "little" {
		t.Fatalf("omitted endianness = %q, want little default", cfg.Vectors[0].Endianness)
	}
	if cfg.Vectors[1].Endianness != "big" {
		t.Fatalf("endianness = %q, want big", cfg.Vectors[1].Endianness)
	}
	if cfg.Vectors[0].ID != nil || cfg.Vectors[1].ID == nil || *cfg.Vectors[1].ID != 7 {
		t.Fatal("id fields did not survive the load")
	}
}

func TestLoadCorpusConfigDefaults(t *testing.T) {
	cfg, err := LoadCorpusConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadCorpusConfig: %v", err)
	}
	if cfg.OutDir != "corpus" {
		t.Fatalf("default out_dir = %q, want corpus", cfg.OutDir)
	}
	if cfg.Compression != "zstd" {
		t.Fatalf("default compression = %q, want zstd", cfg.Compression)
	}
	if len(cfg.Vectors) != 0 {
		t.Fatalf("got %d vectors from an empty config", len(cfg.Vectors))
	}
}

func TestLoadCorpusConfigRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `
[[vectors]]
encoding = "opus"
sample_rate = 48000
`},
		{"unsafe name", `
[[vectors]]
name = "Bad-Name"
encoding = "opus"
sample_rate = 48000
`},
		{"duplicate names", `
[[vectors]]
name = "dup"
encoding = "opus"
sample_rate = 48000

[[vectors]]
name = "dup"
encoding = "flac"
sample_rate = 48000
`},
		{"missing encoding", `
[[vectors]]
name = "v"
sample_rate = 48000
`},
		{"missing sample_rate", `
[[vectors]]
name = "v"
encoding = "opus"
`},
		{"malformed toml", `vectors = [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCorpusConfig(writeConfig(t, tc.body)); err == nil {
				t.Fatal("LoadCorpusConfig accepted a bad config")
			}
		})
	}

	if _, err := LoadCorpusConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("LoadCorpusConfig accepted a missing file")
	}
}

func TestCorpusBases(t *testing.T) {
	cfg, err := LoadCorpusConfig(writeConfig(t, `
[[vectors]]
name = "pcm"
encoding = "pcm_signed"
sample_size = 1024
sample_rate = 48000
channels = 2
bits_per_sample = 24

[[vectors]]
name = "stamped"
encoding = "aac"
sample_size = 768
sample_rate = 44100
channels = 2
bits_per_sample = 16
id = 1
pts = 1024
`))
	if err != nil {
		t.Fatalf("LoadCorpusConfig: %v", err)
	}

	bases, err := CorpusBases(cfg)
	if err != nil {
		t.Fatalf("CorpusBases: %v", err)
	}
	if len(bases) != 2 {
		t.Fatalf("got %d bases, want 2", len(bases))
	}
	if bases[0].Name != "pcm" || bases[1].Name != "stamped" {
		t.Fatalf("base names = %s, %s", bases[0].Name, bases[1].Name)
	}
	if bases[0].Header.Size() != framehdr.WordSize {
		t.Fatalf("pcm base size = %d, want %d", bases[0].Header.Size(), framehdr.WordSize)
	}
	if bases[1].Header.Size() != framehdr.MaxSize {
		t.Fatalf("stamped base size = %d, want %d", bases[1].Header.Size(), framehdr.MaxSize)
	}
}

func TestCorpusBasesDefaultSet(t *testing.T) {
	bases, err := CorpusBases(CorpusConfig{})
	if err != nil {
		t.Fatalf("CorpusBases: %v", err)
	}
	if len(bases) == 0 {
		t.Fatal("empty vector list produced no bases")
	}
}

func TestCorpusBasesRejections(t *testing.T) {
	base := VectorConfig{
		Name:          "v",
		Encoding:      "opus",
		SampleSize:    320,
		SampleRate:    48000,
		Channels:      2,
		BitsPerSample: 16,
		Endianness:    "little",
	}

	badEncoding := base
	badEncoding.Encoding = "mp3"
	badEndian := base
	badEndian.Endianness = "middle"
	badChannels := base
	badChannels.Channels = 0

	cases := []struct {
		name   string
		vector VectorConfig
		want   error
	}{
		{"unknown encoding", badEncoding, framehdr.ErrInvalidCode},
		{"unknown endianness", badEndian, framehdr.ErrInvalidCode},
		{"zero channels", badChannels, framehdr.ErrInvalidChannelCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CorpusBases(CorpusConfig{Vectors: []VectorConfig{tc.vector}})
			if !errors.Is(err, tc.want) {
				t.Fatalf("CorpusBases = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBundleCompression(t *testing.T) {
	comp, err := BundleCompression(CorpusConfig{Compression: "zstd"})
	if err != nil || comp != corpus.CompressionZstd {
		t.Fatalf("BundleCompression(zstd) = %v, %v", comp, err)
	}
	if _, err := BundleCompression(CorpusConfig{Compression: "gzip"}); err == nil {
		t.Fatal("BundleCompression accepted gzip")
	}
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "corpus.toml")
	if err := WriteTemplate(path, "corpus", false); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}

	// The shipped template must load and convert cleanly.
	cfg, err := LoadCorpusConfig(path)
	if err != nil {
		t.Fatalf("LoadCorpusConfig(template): %v", err)
	}
	bases, err := CorpusBases(cfg)
	if err != nil {
		t.Fatalf("CorpusBases(template): %v", err)
	}
	if len(bases) != 3 {
		t.Fatalf("template yields %d bases, want 3", len(bases))
	}

	if err := WriteTemplate(path, "corpus", false); err == nil {
		t.Fatal("WriteTemplate overwrote an existing file without overwrite")
	}
	if err := WriteTemplate(path, "corpus", true); err != nil {
		t.Fatalf("WriteTemplate with overwrite: %v", err)
	}
}

func TestTemplateUnknownKind(t *testing.T) {
	if _, err := Template("ghost"); err == nil {
		t.Fatal("Template accepted an unknown kind")
	}
}
