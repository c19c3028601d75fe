package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override file settings,
// e.g. PROSIM_ENGINE_WINDOW_SIZE.
const EnvPrefix = "PROSIM"

// Config represents the main configuration structure
type Config struct {
	// Engine holds the similarity engine tunables
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine" toml:"engine"`

	// Corpus holds corpus discovery and channel configuration
	Corpus CorpusConfig `mapstructure:"corpus" yaml:"corpus" json:"corpus" toml:"corpus"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output" toml:"output"`
}

// EngineConfig holds configuration for the similarity engine
type EngineConfig struct {
	// WindowSize is the window length in phonemes
	WindowSize int `mapstructure:"window_size" yaml:"window_size" json:"window_size" toml:"window_size"`

	// WeightingPower controls decay sharpness; must be > 0
	WeightingPower float64 `mapstructure:"weighting_power" yaml:"weighting_power" json:"weighting_power" toml:"weighting_power"`

	// Threads is the worker count; 0 means one per CPU
	Threads int `mapstructure:"threads" yaml:"threads" json:"threads" toml:"threads"`

	// StartDocument and EndDocument bound the seed documents; EndDocument 0 means all
	StartDocument int `mapstructure:"start_document" yaml:"start_document" json:"start_document" toml:"start_document"`
	EndDocument   int `mapstructure:"end_document" yaml:"end_document" json:"end_document" toml:"end_document"`

	// MaxWindowsPerDocument caps problems per document; 0 means unbounded
	MaxWindowsPerDocument int `mapstructure:"max_windows_per_document" yaml:"max_windows_per_document" json:"max_windows_per_document" toml:"max_windows_per_document"`

	// Seed fixes the tie-break draws; 0 picks a random seed per run
	Seed uint64 `mapstructure:"seed" yaml:"seed" json:"seed" toml:"seed"`

	ProgressIntervalMS int `mapstructure:"progress_interval_ms" yaml:"progress_interval_ms" json:"progress_interval_ms" toml:"progress_interval_ms"`

	// TimeoutSeconds aborts the run after the given time; 0 means no limit
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds" toml:"timeout_seconds"`
}

// CorpusConfig holds configuration for corpus discovery
type CorpusConfig struct {
	// PhraseField names the column or key holding the phrase identifier
	PhraseField string `mapstructure:"phrase_field" yaml:"phrase_field" json:"phrase_field" toml:"phrase_field"`

	// IncludePatterns specifies corpus file patterns to include
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns specifies corpus file patterns to exclude
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns" toml:"exclude_patterns"`

	// Recursive controls whether to walk directories recursively
	Recursive bool `mapstructure:"recursive" yaml:"recursive" json:"recursive" toml:"recursive"`

	// Channels lists the feature channels in tuple order
	Channels []domain.Channel `mapstructure:"channels" yaml:"channels" json:"channels" toml:"channels"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format" json:"format" toml:"format"`

	// Directory receives report files when set
	Directory string `mapstructure:"directory" yaml:"directory" json:"directory" toml:"directory"`

	// ShowRows includes per-position similarity rows in text output
	ShowRows bool `mapstructure:"show_rows" yaml:"show_rows" json:"show_rows" toml:"show_rows"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			WindowSize:         domain.DefaultWindowSize,
			WeightingPower:     domain.DefaultWeightingPower,
			Threads:            domain.DefaultThreads,
			ProgressIntervalMS: int(domain.DefaultProgressInterval.Milliseconds()),
			TimeoutSeconds:     domain.DefaultTimeoutSeconds,
		},
		Corpus: CorpusConfig{
			PhraseField:     domain.DefaultPhraseField,
			IncludePatterns: domain.DefaultIncludePatterns(),
			ExcludePatterns: []string{},
			Recursive:       domain.DefaultRecursive,
			Channels:        domain.DefaultChannels(),
		},
		Output: OutputConfig{
			Format: string(domain.DefaultOutputFormat),
		},
	}
}

// LoadConfig loads configuration from an explicit file of any format viper
// understands, applying PROSIM_* environment overrides. An empty path
// returns the defaults with environment overrides applied.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	v := newViper(config)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// lists named in the file replace the defaults instead of merging into them
	if v.InConfig("corpus.channels") {
		config.Corpus.Channels = nil
	}
	if v.InConfig("corpus.include_patterns") {
		config.Corpus.IncludePatterns = nil
	}
	if v.InConfig("corpus.exclude_patterns") {
		config.Corpus.ExcludePatterns = nil
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newViper builds an isolated viper instance whose defaults mirror config,
// so AutomaticEnv can resolve every scalar key.
func newViper(config *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("engine.window_size", config.Engine.WindowSize)
	v.SetDefault("engine.weighting_power", config.Engine.WeightingPower)
	v.SetDefault("engine.threads", config.Engine.Threads)
	v.SetDefault("engine.start_document", config.Engine.StartDocument)
	v.SetDefault("engine.end_document", config.Engine.EndDocument)
	v.SetDefault("engine.max_windows_per_document", config.Engine.MaxWindowsPerDocument)
	v.SetDefault("engine.seed", config.Engine.Seed)
	v.SetDefault("engine.progress_interval_ms", config.Engine.ProgressIntervalMS)
	v.SetDefault("engine.timeout_seconds", config.Engine.TimeoutSeconds)
	v.SetDefault("corpus.phrase_field", config.Corpus.PhraseField)
	v.SetDefault("corpus.recursive", config.Corpus.Recursive)
	v.SetDefault("output.format", config.Output.Format)
	v.SetDefault("output.directory", config.Output.Directory)
	v.SetDefault("output.show_rows", config.Output.ShowRows)
	return v
}

// SaveConfig writes config to path; the format follows the file extension
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("engine", config.Engine)
	v.Set("corpus", config.Corpus)
	v.Set("output", config.Output)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return v.WriteConfigAs(path)
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.validateEngineConfig(); err != nil {
		return err
	}
	if err := c.validateCorpusConfig(); err != nil {
		return err
	}

	switch domain.OutputFormat(c.Output.Format) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml, csv, got %q", c.Output.Format)
	}

	return nil
}

func (c *Config) validateEngineConfig() error {
	e := c.Engine
	if e.WindowSize < 1 {
		return fmt.Errorf("engine.window_size must be >= 1, got %d", e.WindowSize)
	}
	if !(e.WeightingPower > 0) || math.IsInf(e.WeightingPower, 1) {
		return fmt.Errorf("engine.weighting_power must be a finite value > 0, got %v", e.WeightingPower)
	}
	if e.Threads < 0 {
		return fmt.Errorf("engine.threads must be >= 0, got %d", e.Threads)
	}
	if e.StartDocument < 0 {
		return fmt.Errorf("engine.start_document must be >= 0, got %d", e.StartDocument)
	}
	if e.EndDocument != 0 && e.EndDocument <= e.StartDocument {
		return fmt.Errorf("engine.end_document (%d) must be 0 or > start_document (%d)",
			e.EndDocument, e.StartDocument)
	}
	if e.MaxWindowsPerDocument < 0 {
		return fmt.Errorf("engine.max_windows_per_document must be >= 0, got %d", e.MaxWindowsPerDocument)
	}
	if e.ProgressIntervalMS < 0 {
		return fmt.Errorf("engine.progress_interval_ms must be >= 0, got %d", e.ProgressIntervalMS)
	}
	if e.TimeoutSeconds < 0 {
		return fmt.Errorf("engine.timeout_seconds must be >= 0, got %d", e.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateCorpusConfig() error {
	if len(c.Corpus.Channels) == 0 {
		return fmt.Errorf("corpus.channels must name at least one channel")
	}

	seen := make(map[string]bool, len(c.Corpus.Channels))
	total := 0
	for i, ch := range c.Corpus.Channels {
		if ch.Name == "" {
			return fmt.Errorf("corpus.channels[%d].name cannot be empty", i)
		}
		if seen[ch.Name] {
			return fmt.Errorf("corpus.channels has duplicate name %q", ch.Name)
		}
		seen[ch.Name] = true
		if ch.Weight < 0 {
			return fmt.Errorf("corpus.channels[%d].weight must be >= 0, got %d", i, ch.Weight)
		}
		total += ch.Weight
	}
	if total == 0 {
		return fmt.Errorf("corpus.channels weights must sum to more than 0")
	}
	return nil
}
