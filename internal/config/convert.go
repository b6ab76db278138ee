package config

import (
	"fmt"

	"github.com/avpack/framehdr"
	"github.com/avpack/framehdr/internal/corpus"
)

// CorpusBases maps vector entries onto generation bases. Field values
// go through the codec's own constructors, so range and enum errors
// surface here rather than at generation time.
func CorpusBases(cfg CorpusConfig) ([]corpus.Base, error) {
	if len(cfg.Vectors) == 0 {
		return corpus.DefaultBases()
	}
	bases := make([]corpus.Base, 0, len(cfg.Vectors))
	for i, v := range cfg.Vectors {
		enc, err := framehdr.ParseEncoding(v.Encoding)
		if err != nil {
			return nil, fmt.Errorf("vector[%d] %s: %w", i, v.Name, err)
		}
		endian, err := framehdr.ParseEndianness(v.Endianness)
		if err != nil {
			return nil, fmt.Errorf("vector[%d] %s: %w", i, v.Name, err)
		}
		h, err := framehdr.New(enc, v.SampleSize, v.SampleRate, v.Channels, v.BitsPerSample, endian, optFrom(v.ID), optFrom(v.PTS))
		if err != nil {
			return nil, fmt.Errorf("vector[%d] %s: %w", i, v.Name, err)
		}
		bases = append(bases, corpus.Base{Name: v.Name, Header: h})
	}
	return bases, nil
}

// BundleCompression resolves the configured compression spelling.
func BundleCompression(cfg CorpusConfig) (corpus.Compression, error) {
	return corpus.ParseCompression(cfg.Compression)
}

func optFrom(p *uint64) framehdr.OptU64 {
	if p == nil {
		return framehdr.OptU64{}
	}
	return framehdr.U64(*p)
}
