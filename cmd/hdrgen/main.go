// hdrgen builds and verifies corpora of header test vectors.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/avpack/framehdr/internal/config"
	"github.com/avpack/framehdr/internal/corpus"
	"github.com/avpack/framehdr/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "corpus config path (TOML); the built-in set when empty")
	outDir := flag.String("out", "", "vector directory to write (overrides config)")
	bundlePath := flag.String("bundle", "", "bundle file to write (overrides config)")
	compression := flag.String("compression", "", "bundle compression: none|zstd (overrides config)")
	initPath := flag.String("init", "", "write a config template to this path and exit")
	force := flag.Bool("force", false, "overwrite an existing file for -init")
	validate := flag.Bool("validate", false, "validate the config file and exit")
	verifyPath := flag.String("verify", "", "verify an existing corpus directory or bundle and exit")
	flag.Parse()

	logger := logging.InitRuntime("hdrgen")

	switch {
	case *initPath != "":
		if err := config.WriteTemplate(*initPath, "corpus", *force); err != nil {
			logger.Fatal().Err(err).Msg("write template")
		}
		logger.Info().Str("path", *initPath).Msg("wrote corpus config template")
	case *validate:
		if *configPath == "" {
			logger.Fatal().Msg("-validate requires -config")
		}
		if _, err := config.LoadCorpusConfig(*configPath); err != nil {
			logger.Fatal().Err(err).Msg("config invalid")
		}
		logger.Info().Str("path", *configPath).Msg("config valid")
	case *verifyPath != "":
		n, err := verifyCorpus(*verifyPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("corpus verification failed")
		}
		logger.Info().Str("path", *verifyPath).Int("vectors", n).Msg("corpus verified")
	default:
		if err := generate(*configPath, *outDir, *bundlePath, *compression, logger); err != nil {
			logger.Fatal().Err(err).Msg("corpus generation failed")
		}
	}
}

// generate builds the suite and writes it to the configured targets.
// Flags override the config file; with neither, the built-in bases land
// in ./corpus.
func generate(configPath, outDir, bundlePath, compression string, logger zerolog.Logger) error {
	var cfg config.CorpusConfig
	if configPath != "" {
		loaded, err := config.LoadCorpusConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if bundlePath != "" {
		cfg.Bundle = bundlePath
	}
	if compression != "" {
		cfg.Compression = compression
	}
	if cfg.OutDir == "" && cfg.Bundle == "" {
		cfg.OutDir = "corpus"
	}
	if cfg.Compression == "" {
		cfg.Compression = "zstd"
	}

	// Resolve the compression spelling up front so a bad value fails
	// before anything lands on disk.
	var comp corpus.Compression
	if cfg.Bundle != "" {
		c, err := config.BundleCompression(cfg)
		if err != nil {
			return err
		}
		comp = c
	}

	bases, err := config.CorpusBases(cfg)
	if err != nil {
		return err
	}
	suite, err := corpus.Generate(bases)
	if err != nil {
		return err
	}
	// Never ship a suite whose labels the codec disagrees with.
	if err := corpus.VerifySuite(suite); err != nil {
		return err
	}

	if cfg.OutDir != "" {
		if err := corpus.WriteDir(cfg.OutDir, suite); err != nil {
			return err
		}
		logger.Info().Str("dir", cfg.OutDir).Int("vectors", len(suite.Vectors)).Msg("wrote vector directory")
	}
	if cfg.Bundle != "" {
		packed, err := corpus.EncodeBundle(suite, comp)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Bundle, packed, 0o644); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		logger.Info().Str("file", cfg.Bundle).Str("compression", comp.String()).Int("bytes", len(packed)).Msg("wrote bundle")
	}
	return nil
}

// verifyCorpus re-checks a written corpus: a directory goes through the
// index loader, anything else is read as a bundle.
func verifyCorpus(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	var suite *corpus.Suite
	if info.IsDir() {
		suite, err = corpus.LoadDir(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			suite, _, err = corpus.DecodeBundle(data)
		}
	}
	if err != nil {
		return 0, err
	}

	if err := corpus.VerifySuite(suite); err != nil {
		return 0, err
	}
	return len(suite.Vectors), nil
}
