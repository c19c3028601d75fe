package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/ludo-technologies/prosim/domain"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
// All values are sourced from the domain package to ensure a single source of truth.
type DefaultConfigValues struct {
	// Engine
	WindowSize         int
	WeightingPower     float64
	Threads            int
	ProgressIntervalMS int
	TimeoutSeconds     int

	// Corpus
	PhraseField     string
	IncludePatterns []string
	Recursive       bool
	Channels        []domain.Channel

	// Output
	Format string
}

// newDefaultConfigValues creates a DefaultConfigValues populated from domain constants.
func newDefaultConfigValues() DefaultConfigValues {
	return DefaultConfigValues{
		WindowSize:         domain.DefaultWindowSize,
		WeightingPower:     domain.DefaultWeightingPower,
		Threads:            domain.DefaultThreads,
		ProgressIntervalMS: int(domain.DefaultProgressInterval.Milliseconds()),
		TimeoutSeconds:     domain.DefaultTimeoutSeconds,

		PhraseField:     domain.DefaultPhraseField,
		IncludePatterns: domain.DefaultIncludePatterns(),
		Recursive:       domain.DefaultRecursive,
		Channels:        domain.DefaultChannels(),

		Format: string(domain.DefaultOutputFormat),
	}
}

// GenerateDefaultConfigTOML renders the default config template with domain values
// and returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}
