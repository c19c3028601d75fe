package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/prosim/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTomlConfigLoader_NoFileReturnsDefaults(t *testing.T) {
	loader := NewTomlConfigLoader()

	config, path, err := loader.LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), config)
}

func TestTomlConfigLoader_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prosim.toml"), `[engine]
window_size = 3
threads = 0
seed = 99

[corpus]
recursive = false

[[corpus.channels]]
name = "pos"
weight = 2

[[corpus.channels]]
name = "accent"
weight = 0

[output]
show_rows = true
`)

	config, path, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".prosim.toml"), path)

	assert.Equal(t, 3, config.Engine.WindowSize)
	assert.Equal(t, uint64(99), config.Engine.Seed)
	assert.Equal(t, domain.DefaultWeightingPower, config.Engine.WeightingPower)
	assert.False(t, config.Corpus.Recursive)
	assert.True(t, config.Output.ShowRows)
	assert.Equal(t, []domain.Channel{{Name: "pos", Weight: 2}, {Name: "accent", Weight: 0}}, config.Corpus.Channels)
	assert.Equal(t, domain.DefaultIncludePatterns(), config.Corpus.IncludePatterns)
}

func TestTomlConfigLoader_WalksUpFromSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "prosim.toml"), "[engine]\nweighting_power = 1.5\n")
	sub := filepath.Join(root, "corpus", "speaker1")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	config, path, err := NewTomlConfigLoader().LoadConfig(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "prosim.toml"), path)
	assert.Equal(t, 1.5, config.Engine.WeightingPower)
}

func TestTomlConfigLoader_DottedFileWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prosim.toml"), "[engine]\nwindow_size = 2\n")
	writeFile(t, filepath.Join(dir, "prosim.toml"), "[engine]\nwindow_size = 5\n")

	config, _, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Engine.WindowSize)
}

func TestTomlConfigLoader_StartFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prosim.toml"), "[engine]\nwindow_size = 6\n")
	doc := filepath.Join(dir, "doc.csv")
	writeFile(t, doc, "pos\nNN\n")

	config, _, err := NewTomlConfigLoader().LoadConfig(doc)
	require.NoError(t, err)
	assert.Equal(t, 6, config.Engine.WindowSize)
}

func TestTomlConfigLoader_Errors(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".prosim.toml"), "[engine\nwindow_size = ")

		_, path, err := NewTomlConfigLoader().LoadConfig(dir)
		require.Error(t, err)
		assert.NotEmpty(t, path)
	})

	t.Run("invalid values", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".prosim.toml"), "[engine]\nwindow_size = 0\n")

		_, _, err := NewTomlConfigLoader().LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine.window_size")
	})
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)
	assert.Contains(t, content, "[engine]")
	assert.Contains(t, content, "[[corpus.channels]]")

	var decoded ProsimTomlConfig
	require.NoError(t, toml.Unmarshal([]byte(content), &decoded))

	config := DefaultConfig()
	NewTomlConfigLoader().mergeProsimTomlConfig(config, &decoded)
	assert.Equal(t, DefaultConfig(), config)

	// the rendered file is itself discoverable and valid
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prosim.toml"), content)
	loaded, _, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}
