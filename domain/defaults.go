package domain

import (
	"time"

	"github.com/ludo-technologies/prosim/internal/constants"
)

// ============================================================================
// Engine Defaults
// ============================================================================

const (
	// DefaultWindowSize is the window length in phonemes.
	DefaultWindowSize = 8

	// DefaultWeightingPower controls how sharply similarity decays with
	// mismatches. Higher values reward near-exact window matches.
	DefaultWeightingPower = 4.0

	// DefaultThreads of 0 means one worker per CPU.
	DefaultThreads = 0

	// DefaultChannelWeight is the mismatch weight of each channel.
	DefaultChannelWeight = 1

	// DefaultProgressInterval is how often the solve phase reports progress.
	DefaultProgressInterval = 100 * time.Millisecond
)

// DefaultChannelNames returns the six prosodic feature channels, in tuple order
func DefaultChannelNames() []string {
	return constants.ProsodicChannels()
}

// DefaultChannels returns the default channels with unit weights
func DefaultChannels() []Channel {
	names := DefaultChannelNames()
	channels := make([]Channel, len(names))
	for i, name := range names {
		channels[i] = Channel{Name: name, Weight: DefaultChannelWeight}
	}
	return channels
}

// ============================================================================
// Corpus Defaults
// ============================================================================

const (
	// DefaultPhraseField names the column holding the phrase identifier.
	DefaultPhraseField = "phrase"

	// DefaultRecursive walks directories recursively.
	DefaultRecursive = true
)

// DefaultIncludePatterns returns the corpus file patterns read by default
func DefaultIncludePatterns() []string {
	return []string{"**/*.csv", "**/*.tsv", "**/*.json", "**/*.yaml", "**/*.yml"}
}

// ============================================================================
// Output Defaults
// ============================================================================

const (
	// DefaultOutputFormat is used when no format is configured.
	DefaultOutputFormat = OutputFormatText

	// DefaultTimeoutSeconds of 0 means the run is never cut short.
	DefaultTimeoutSeconds = 0
)
