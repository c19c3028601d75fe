package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Channel is one categorical feature carried by every phoneme tuple
type Channel struct {
	Name   string `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
	Weight int    `json:"weight" yaml:"weight" toml:"weight" mapstructure:"weight"`
}

// DocumentDescriptor identifies one ingested document
type DocumentDescriptor struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PhonemeTuple is one phoneme: a value per channel, in channel order,
// plus the phrase identifier used for statistics only.
type PhonemeTuple struct {
	Phrase string
	Values []string
}

// DocumentInput is a document ready for ingestion
type DocumentInput struct {
	Descriptor DocumentDescriptor
	Tuples     []PhonemeTuple
}

// SimilarityRequest represents a request for corpus similarity analysis
type SimilarityRequest struct {
	// Input parameters
	Paths           []string `json:"paths" yaml:"paths"`
	Recursive       bool     `json:"recursive" yaml:"recursive"`
	IncludePatterns []string `json:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns" yaml:"exclude_patterns"`
	PhraseField     string   `json:"phrase_field" yaml:"phrase_field"`

	// Feature channels, in tuple order
	Channels []Channel `json:"channels" yaml:"channels"`

	// Engine configuration
	WindowSize            int           `json:"window_size" yaml:"window_size"`
	WeightingPower        float64       `json:"weighting_power" yaml:"weighting_power"`
	Threads               int           `json:"threads" yaml:"threads"`
	StartDocument         int           `json:"start_document" yaml:"start_document"`
	EndDocument           int           `json:"end_document" yaml:"end_document"`
	MaxWindowsPerDocument int           `json:"max_windows_per_document" yaml:"max_windows_per_document"`
	Seed                  uint64        `json:"seed" yaml:"seed"`
	ProgressInterval      time.Duration `json:"-" yaml:"-"`
	Timeout               time.Duration `json:"-" yaml:"-"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format" yaml:"output_format"`
	OutputWriter io.Writer    `json:"-" yaml:"-"`
	OutputPath   string       `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	OutputDir    string       `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	ShowRows     bool         `json:"show_rows" yaml:"show_rows"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
}

// ChannelNames returns the configured channel names in order
func (req *SimilarityRequest) ChannelNames() []string {
	names := make([]string, len(req.Channels))
	for i, ch := range req.Channels {
		names[i] = ch.Name
	}
	return names
}

// ChannelWeights returns the configured channel weights in order
func (req *SimilarityRequest) ChannelWeights() []int {
	weights := make([]int, len(req.Channels))
	for i, ch := range req.Channels {
		weights[i] = ch.Weight
	}
	return weights
}

// Validate validates a similarity request
func (req *SimilarityRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if req.WindowSize < 1 {
		return NewValidationError("window_size must be >= 1")
	}

	if !(req.WeightingPower > 0) {
		return NewValidationError("weighting_power must be > 0")
	}

	if req.Threads < 0 {
		return NewValidationError("threads must be >= 0")
	}

	if len(req.Channels) == 0 {
		return NewValidationError("at least one channel is required")
	}

	seen := make(map[string]bool, len(req.Channels))
	total := 0
	for _, ch := range req.Channels {
		if ch.Name == "" {
			return NewValidationError("channel names cannot be empty")
		}
		if seen[ch.Name] {
			return NewValidationError(fmt.Sprintf("duplicate channel name: %s", ch.Name))
		}
		seen[ch.Name] = true
		if ch.Weight < 0 {
			return NewValidationError(fmt.Sprintf("channel %s weight must be >= 0", ch.Name))
		}
		total += ch.Weight
	}
	if total == 0 {
		return NewValidationError("channel weights must sum to more than 0")
	}

	if req.StartDocument < 0 {
		return NewValidationError("start_document must be >= 0")
	}

	if req.EndDocument != 0 && req.EndDocument <= req.StartDocument {
		return NewValidationError("end_document must be 0 or greater than start_document")
	}

	if req.MaxWindowsPerDocument < 0 {
		return NewValidationError("max_windows_per_document must be >= 0")
	}

	switch req.OutputFormat {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
	default:
		return NewUnsupportedFormatError(string(req.OutputFormat))
	}

	return nil
}

// DocumentResult holds the per-document part of a similarity response
type DocumentResult struct {
	Index    int    `json:"index" yaml:"index"`
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Phonemes int    `json:"phonemes" yaml:"phonemes"`
	Phrases  int    `json:"phrases" yaml:"phrases"`
	Windows  int    `json:"windows" yaml:"windows"`

	// Rows has one entry per phoneme position with the scaled similarity to
	// every document, indexed by document.
	Rows [][]float64 `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// ConfusionSummary compares within-class and between-class confusion counts
type ConfusionSummary struct {
	WithinClassMean  float64 `json:"within_class_mean" yaml:"within_class_mean"`
	BetweenClassMean float64 `json:"between_class_mean" yaml:"between_class_mean"`
	Ratio            float64 `json:"ratio" yaml:"ratio"`
}

// SimilarityStatistics summarizes a run
type SimilarityStatistics struct {
	Documents         int            `json:"documents" yaml:"documents"`
	Phonemes          int            `json:"phonemes" yaml:"phonemes"`
	Phrases           int            `json:"phrases" yaml:"phrases"`
	Problems          int            `json:"problems" yaml:"problems"`
	SymbolsPerChannel map[string]int `json:"symbols_per_channel" yaml:"symbols_per_channel"`
	RawMin            float64        `json:"raw_min" yaml:"raw_min"`
	RawMax            float64        `json:"raw_max" yaml:"raw_max"`
	Threads           int            `json:"threads" yaml:"threads"`
	Seed              uint64         `json:"seed" yaml:"seed"`
}

// SimilarityResponse represents the result of a similarity analysis
type SimilarityResponse struct {
	RunID      string                `json:"run_id" yaml:"run_id"`
	Channels   []Channel             `json:"channels" yaml:"channels"`
	Documents  []DocumentResult      `json:"documents" yaml:"documents"`
	Confusion  [][]int64             `json:"confusion" yaml:"confusion"`
	Summary    ConfusionSummary      `json:"summary" yaml:"summary"`
	Statistics *SimilarityStatistics `json:"statistics" yaml:"statistics"`

	// Metadata
	Duration    int64  `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
	Success     bool   `json:"success" yaml:"success"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SimilarityService defines the interface for running the similarity engine
type SimilarityService interface {
	// ComputeSimilarity ingests docs in order and runs the engine to completion
	ComputeSimilarity(ctx context.Context, req *SimilarityRequest, docs []*DocumentInput) (*SimilarityResponse, error)
}

// CorpusLoader produces the ordered documents for a request
type CorpusLoader interface {
	// CollectFiles resolves the request's paths to corpus files, sorted
	CollectFiles(req *SimilarityRequest) ([]string, error)

	// LoadDocuments reads and validates every file, in the given order
	LoadDocuments(ctx context.Context, files []string, req *SimilarityRequest) ([]*DocumentInput, error)
}

// SimilarityOutputFormatter defines the interface for formatting similarity results
type SimilarityOutputFormatter interface {
	// Format writes response in the given format
	Format(response *SimilarityResponse, format OutputFormat, showRows bool, writer io.Writer) error
}

// SimilarityConfigurationLoader defines the interface for loading similarity configuration
type SimilarityConfigurationLoader interface {
	// LoadConfig loads configuration from configPath, or discovers one from
	// targetPath when configPath is empty
	LoadConfig(configPath, targetPath string) (*SimilarityRequest, error)

	// GetDefaultConfig returns the default configuration
	GetDefaultConfig() *SimilarityRequest
}
