package domain

import (
	"testing"
)

// TestDefaultValueConsistency ensures all default values are properly defined
// and produce a valid request
func TestDefaultValueConsistency(t *testing.T) {
	t.Run("Engine defaults are in range", func(t *testing.T) {
		if DefaultWindowSize < 1 {
			t.Errorf("DefaultWindowSize (%d) should be >= 1", DefaultWindowSize)
		}
		if DefaultWeightingPower <= 0 {
			t.Errorf("DefaultWeightingPower (%.2f) should be > 0", DefaultWeightingPower)
		}
		if DefaultProgressInterval <= 0 {
			t.Errorf("DefaultProgressInterval (%v) should be > 0", DefaultProgressInterval)
		}
	})

	t.Run("Six unit-weight channels", func(t *testing.T) {
		channels := DefaultChannels()
		if len(channels) != 6 {
			t.Fatalf("expected 6 default channels, got %d", len(channels))
		}
		for _, ch := range channels {
			if ch.Weight != 1 {
				t.Errorf("channel %s weight = %d, want 1", ch.Name, ch.Weight)
			}
		}
	})

	t.Run("Defaults form a valid request", func(t *testing.T) {
		req := &SimilarityRequest{
			Paths:          []string{"corpus"},
			Channels:       DefaultChannels(),
			WindowSize:     DefaultWindowSize,
			WeightingPower: DefaultWeightingPower,
			Threads:        DefaultThreads,
			OutputFormat:   DefaultOutputFormat,
		}
		if err := req.Validate(); err != nil {
			t.Errorf("default request should validate: %v", err)
		}
	})
}
