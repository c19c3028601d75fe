package service

import (
	"log/slog"
	"os"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/config"
)

// SimilarityConfigurationLoader implements the domain.SimilarityConfigurationLoader interface
type SimilarityConfigurationLoader struct {
	tomlLoader *config.TomlConfigLoader
}

// NewSimilarityConfigurationLoader creates a new configuration loader
func NewSimilarityConfigurationLoader() *SimilarityConfigurationLoader {
	return &SimilarityConfigurationLoader{tomlLoader: config.NewTomlConfigLoader()}
}

// LoadConfig loads the configuration for a run over targetPath. An explicit
// configPath may be TOML, YAML or JSON and is read through viper with
// PROSIM_* environment overrides; otherwise .prosim.toml is discovered by
// walking up from targetPath.
func (l *SimilarityConfigurationLoader) LoadConfig(configPath, targetPath string) (*domain.SimilarityRequest, error) {
	var (
		cfg        *config.Config
		loadedFrom string
		err        error
	)

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr != nil {
			return nil, domain.NewConfigError("config file not found: "+configPath, statErr)
		}
		cfg, err = config.LoadConfig(configPath)
		loadedFrom = configPath
	} else {
		if targetPath == "" {
			targetPath = "."
		}
		cfg, loadedFrom, err = l.tomlLoader.LoadConfig(targetPath)
	}
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	if loadedFrom != "" {
		slog.Debug("configuration loaded", "path", loadedFrom)
	}

	req := cfg.ToSimilarityRequest(nil, nil)
	req.ConfigPath = loadedFrom
	return req, nil
}

// GetDefaultConfig returns the built-in defaults as a request
func (l *SimilarityConfigurationLoader) GetDefaultConfig() *domain.SimilarityRequest {
	return config.DefaultConfig().ToSimilarityRequest(nil, nil)
}
