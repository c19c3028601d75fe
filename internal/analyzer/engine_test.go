package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Lifecycle(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		ChannelWeights: []int{1, 1},
		WindowSize:     3,
		WeightingPower: 4,
		Threads:        2,
		Seed:           17,
	})
	require.NoError(t, err)

	for _, doc := range randomDocuments(2, 3, 25, 2) {
		_, err := engine.Ingest(doc)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, engine.Solve(context.Background()), ErrCorpusNotSealed)
	_, err = engine.Aggregate()
	assert.ErrorIs(t, err, ErrCorpusNotSealed)

	n, err := engine.Seal()
	require.NoError(t, err)
	assert.Equal(t, 3*23, n)
	assert.Equal(t, 2, engine.Threads())

	completed, total := engine.Progress()
	assert.Equal(t, 0, completed)
	assert.Equal(t, n, total)

	require.NoError(t, engine.Solve(context.Background()))

	completed, total = engine.Progress()
	assert.Equal(t, total, completed)

	result, err := engine.Aggregate()
	require.NoError(t, err)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, []int{23, 23, 23}, result.Windows)
}

func TestEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(EngineConfig{ChannelWeights: []int{1}, WindowSize: 0, WeightingPower: 1})
	assert.ErrorIs(t, err, ErrInvalidWeighting)
}

func TestEngine_IngestAfterSeal(t *testing.T) {
	engine, err := NewEngine(EngineConfig{ChannelWeights: []int{1}, WindowSize: 1, WeightingPower: 1, Threads: 1})
	require.NoError(t, err)

	_, err = engine.Ingest(singleChannel("A"))
	require.NoError(t, err)
	_, err = engine.Seal()
	require.NoError(t, err)

	_, err = engine.Ingest(singleChannel("B"))
	assert.ErrorIs(t, err, ErrCorpusSealed)
}

func TestEngine_RangeAndCap(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		ChannelWeights: []int{1},
		WindowSize:     2,
		WeightingPower: 1,
		Threads:        1,
		Range:          ProblemRange{StartDocument: 1, MaxWindowsPerDocument: 2},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := engine.Ingest(singleChannel("A", "B", "C", "D", "E"))
		require.NoError(t, err)
	}

	n, err := engine.Seal()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, engine.Solve(context.Background()))
	result, err := engine.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 2}, result.Windows)

	// document 0 seeded nothing, so all its rows are zero
	for _, row := range result.Rows[0] {
		assert.Equal(t, []float64{0, 0, 0}, row)
	}
}
