package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/prosim/domain"
)

// ConfigFileNames are the file names searched for, in priority order
var ConfigFileNames = []string{".prosim.toml", "prosim.toml"}

// ProsimTomlConfig represents the structure of .prosim.toml
type ProsimTomlConfig struct {
	Engine TomlEngineConfig `toml:"engine"`
	Corpus TomlCorpusConfig `toml:"corpus"`
	Output TomlOutputConfig `toml:"output"`
}

// TomlEngineConfig represents the [engine] section. Pointers tell an
// explicit zero apart from an unset key.
type TomlEngineConfig struct {
	WindowSize            *int     `toml:"window_size"`
	WeightingPower        *float64 `toml:"weighting_power"`
	Threads               *int     `toml:"threads"`
	StartDocument         *int     `toml:"start_document"`
	EndDocument           *int     `toml:"end_document"`
	MaxWindowsPerDocument *int     `toml:"max_windows_per_document"`
	Seed                  *uint64  `toml:"seed"`
	ProgressIntervalMS    *int     `toml:"progress_interval_ms"`
	TimeoutSeconds        *int     `toml:"timeout_seconds"`
}

// TomlCorpusConfig represents the [corpus] section
type TomlCorpusConfig struct {
	PhraseField     string           `toml:"phrase_field"`
	IncludePatterns []string         `toml:"include_patterns"`
	ExcludePatterns []string         `toml:"exclude_patterns"`
	Recursive       *bool            `toml:"recursive"`
	Channels        []domain.Channel `toml:"channels"`
}

// TomlOutputConfig represents the [output] section
type TomlOutputConfig struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory"`
	ShowRows  *bool  `toml:"show_rows"`
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig discovers a config file by walking up from startDir and merges
// it over the defaults. It returns the defaults and an empty path when no
// file exists.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, string, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), "", nil
	}

	config, err := l.LoadFile(configPath)
	if err != nil {
		return nil, configPath, err
	}
	return config, configPath, nil
}

// LoadFile decodes one TOML file and merges it over the defaults
func (l *TomlConfigLoader) LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var tomlCfg ProsimTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	l.mergeProsimTomlConfig(config, &tomlCfg)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

// FindConfigFile walks up the directory tree from startDir looking for a
// config file
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeProsimTomlConfig merges set values of tomlCfg into defaults
func (l *TomlConfigLoader) mergeProsimTomlConfig(defaults *Config, tomlCfg *ProsimTomlConfig) {
	e := tomlCfg.Engine
	if e.WindowSize != nil {
		defaults.Engine.WindowSize = *e.WindowSize
	}
	if e.WeightingPower != nil {
		defaults.Engine.WeightingPower = *e.WeightingPower
	}
	if e.Threads != nil {
		defaults.Engine.Threads = *e.Threads
	}
	if e.StartDocument != nil {
		defaults.Engine.StartDocument = *e.StartDocument
	}
	if e.EndDocument != nil {
		defaults.Engine.EndDocument = *e.EndDocument
	}
	if e.MaxWindowsPerDocument != nil {
		defaults.Engine.MaxWindowsPerDocument = *e.MaxWindowsPerDocument
	}
	if e.Seed != nil {
		defaults.Engine.Seed = *e.Seed
	}
	if e.ProgressIntervalMS != nil {
		defaults.Engine.ProgressIntervalMS = *e.ProgressIntervalMS
	}
	if e.TimeoutSeconds != nil {
		defaults.Engine.TimeoutSeconds = *e.TimeoutSeconds
	}

	c := tomlCfg.Corpus
	if c.PhraseField != "" {
		defaults.Corpus.PhraseField = c.PhraseField
	}
	if len(c.IncludePatterns) > 0 {
		defaults.Corpus.IncludePatterns = c.IncludePatterns
	}
	if len(c.ExcludePatterns) > 0 {
		defaults.Corpus.ExcludePatterns = c.ExcludePatterns
	}
	if c.Recursive != nil {
		defaults.Corpus.Recursive = *c.Recursive
	}
	if len(c.Channels) > 0 {
		defaults.Corpus.Channels = c.Channels
	}

	o := tomlCfg.Output
	if o.Format != "" {
		defaults.Output.Format = o.Format
	}
	if o.Directory != "" {
		defaults.Output.Directory = o.Directory
	}
	if o.ShowRows != nil {
		defaults.Output.ShowRows = *o.ShowRows
	}
}
