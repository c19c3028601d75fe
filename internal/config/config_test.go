package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/prosim/domain"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 8, config.Engine.WindowSize)
	assert.Equal(t, 4.0, config.Engine.WeightingPower)
	assert.Equal(t, 0, config.Engine.Threads)
	assert.Equal(t, 100, config.Engine.ProgressIntervalMS)
	assert.Equal(t, "phrase", config.Corpus.PhraseField)
	assert.True(t, config.Corpus.Recursive)
	assert.Len(t, config.Corpus.Channels, 6)
	assert.Equal(t, "text", config.Output.Format)

	assert.NoError(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name          string
		modify        func(*Config)
		errorContains string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"zero window", func(c *Config) { c.Engine.WindowSize = 0 }, "engine.window_size"},
		{"zero power", func(c *Config) { c.Engine.WeightingPower = 0 }, "engine.weighting_power"},
		{"negative threads", func(c *Config) { c.Engine.Threads = -2 }, "engine.threads"},
		{"negative start", func(c *Config) { c.Engine.StartDocument = -1 }, "engine.start_document"},
		{"end equals start", func(c *Config) {
			c.Engine.StartDocument = 2
			c.Engine.EndDocument = 2
		}, "engine.end_document"},
		{"negative cap", func(c *Config) { c.Engine.MaxWindowsPerDocument = -1 }, "max_windows_per_document"},
		{"negative interval", func(c *Config) { c.Engine.ProgressIntervalMS = -1 }, "progress_interval_ms"},
		{"negative timeout", func(c *Config) { c.Engine.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"no channels", func(c *Config) { c.Corpus.Channels = nil }, "at least one channel"},
		{"empty channel name", func(c *Config) { c.Corpus.Channels[3].Name = "" }, "channels[3].name"},
		{"duplicate channel", func(c *Config) { c.Corpus.Channels[1].Name = "pos" }, "duplicate name \"pos\""},
		{"negative weight", func(c *Config) { c.Corpus.Channels[0].Weight = -1 }, "channels[0].weight"},
		{"zero weights", func(c *Config) {
			for i := range c.Corpus.Channels {
				c.Corpus.Channels[i].Weight = 0
			}
		}, "sum to more than 0"},
		{"html output", func(c *Config) { c.Output.Format = "html" }, "output.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modify(config)

			err := config.Validate()
			if tc.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prosim.yaml")
		content := `engine:
  window_size: 4
  weighting_power: 2.5
  seed: 1234
corpus:
  channels:
    - name: pos
      weight: 2
    - name: tone
      weight: 1
output:
  format: json
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 4, config.Engine.WindowSize)
		assert.Equal(t, 2.5, config.Engine.WeightingPower)
		assert.Equal(t, uint64(1234), config.Engine.Seed)
		assert.Equal(t, []domain.Channel{{Name: "pos", Weight: 2}, {Name: "tone", Weight: 1}}, config.Corpus.Channels)
		assert.Equal(t, "json", config.Output.Format)
		// untouched keys keep their defaults
		assert.Equal(t, "phrase", config.Corpus.PhraseField)
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("PROSIM_ENGINE_WINDOW_SIZE", "3")
		t.Setenv("PROSIM_OUTPUT_FORMAT", "csv")

		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 3, config.Engine.WindowSize)
		assert.Equal(t, "csv", config.Output.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prosim.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"engine": {"weighting_power": -1}}`), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestSaveConfig(t *testing.T) {
	config := DefaultConfig()
	config.Engine.WindowSize = 5
	config.Output.Format = "yaml"
	config.Corpus.Channels = []domain.Channel{{Name: "pos", Weight: 3}}

	path := filepath.Join(t.TempDir(), "nested", "saved.yaml")
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Engine.WindowSize)
	assert.Equal(t, "yaml", loaded.Output.Format)
	assert.Equal(t, []domain.Channel{{Name: "pos", Weight: 3}}, loaded.Corpus.Channels)
}

func TestConfigRequestRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Engine.Seed = 77
	config.Engine.TimeoutSeconds = 30
	config.Engine.EndDocument = 4
	config.Output.Format = "csv"

	req := config.ToSimilarityRequest([]string{"corpus"}, nil)
	assert.Equal(t, []string{"corpus"}, req.Paths)
	assert.Equal(t, domain.OutputFormatCSV, req.OutputFormat)
	assert.Equal(t, 100*time.Millisecond, req.ProgressInterval)
	assert.Equal(t, 30*time.Second, req.Timeout)
	assert.Equal(t, uint64(77), req.Seed)
	require.NoError(t, req.Validate())

	// the request owns its channel slice
	req.Channels[0].Weight = 9
	assert.Equal(t, 1, config.Corpus.Channels[0].Weight)

	back := FromSimilarityRequest(config.ToSimilarityRequest(nil, nil))
	assert.Equal(t, config, back)
}
