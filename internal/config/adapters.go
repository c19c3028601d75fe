package config

import (
	"io"
	"time"

	"github.com/ludo-technologies/prosim/domain"
)

// ToSimilarityRequest converts the configuration to a domain request for paths
func (c *Config) ToSimilarityRequest(paths []string, outputWriter io.Writer) *domain.SimilarityRequest {
	var outputFormat domain.OutputFormat
	switch c.Output.Format {
	case "json":
		outputFormat = domain.OutputFormatJSON
	case "yaml":
		outputFormat = domain.OutputFormatYAML
	case "csv":
		outputFormat = domain.OutputFormatCSV
	default:
		outputFormat = domain.OutputFormatText
	}

	channels := make([]domain.Channel, len(c.Corpus.Channels))
	copy(channels, c.Corpus.Channels)

	return &domain.SimilarityRequest{
		// Input parameters
		Paths:           paths,
		Recursive:       c.Corpus.Recursive,
		IncludePatterns: c.Corpus.IncludePatterns,
		ExcludePatterns: c.Corpus.ExcludePatterns,
		PhraseField:     c.Corpus.PhraseField,
		Channels:        channels,

		// Engine configuration
		WindowSize:            c.Engine.WindowSize,
		WeightingPower:        c.Engine.WeightingPower,
		Threads:               c.Engine.Threads,
		StartDocument:         c.Engine.StartDocument,
		EndDocument:           c.Engine.EndDocument,
		MaxWindowsPerDocument: c.Engine.MaxWindowsPerDocument,
		Seed:                  c.Engine.Seed,
		ProgressInterval:      time.Duration(c.Engine.ProgressIntervalMS) * time.Millisecond,
		Timeout:               time.Duration(c.Engine.TimeoutSeconds) * time.Second,

		// Output configuration
		OutputFormat: outputFormat,
		OutputWriter: outputWriter,
		OutputDir:    c.Output.Directory,
		ShowRows:     c.Output.ShowRows,
	}
}

// FromSimilarityRequest builds a configuration from a domain request
func FromSimilarityRequest(req *domain.SimilarityRequest) *Config {
	channels := make([]domain.Channel, len(req.Channels))
	copy(channels, req.Channels)

	return &Config{
		Engine: EngineConfig{
			WindowSize:            req.WindowSize,
			WeightingPower:        req.WeightingPower,
			Threads:               req.Threads,
			StartDocument:         req.StartDocument,
			EndDocument:           req.EndDocument,
			MaxWindowsPerDocument: req.MaxWindowsPerDocument,
			Seed:                  req.Seed,
			ProgressIntervalMS:    int(req.ProgressInterval.Milliseconds()),
			TimeoutSeconds:        int(req.Timeout.Seconds()),
		},
		Corpus: CorpusConfig{
			PhraseField:     req.PhraseField,
			IncludePatterns: req.IncludePatterns,
			ExcludePatterns: req.ExcludePatterns,
			Recursive:       req.Recursive,
			Channels:        channels,
		},
		Output: OutputConfig{
			Format:    string(req.OutputFormat),
			Directory: req.OutputDir,
			ShowRows:  req.ShowRows,
		},
	}
}
