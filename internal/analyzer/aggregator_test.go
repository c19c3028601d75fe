package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_TwoDocumentScenario(t *testing.T) {
	f := newSolverFixture(t, 2, 1, 2, 1,
		singleChannel("A", "A", "B", "B"),
		singleChannel("A", "A", "A", "A"),
	)
	require.NoError(t, f.pool.Solve(context.Background()))

	result, err := Aggregate(f.corpus, f.model, f.problems, f.confusion)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.RawMin)
	assert.Equal(t, 1.0, result.RawMax)
	assert.Equal(t, []int{3, 3}, result.Windows)
	assert.Equal(t, [][]int64{{2, 1}, {0, 3}}, result.Confusion)
	assert.InDelta(t, 2.5, result.Summary.WithinClassMean, 1e-12)
	assert.InDelta(t, 0.5, result.Summary.BetweenClassMean, 1e-12)
	assert.InDelta(t, 5.0, result.Summary.Ratio, 1e-12)

	// half-window is 1, so position p maps to window p-1
	doc0 := result.Rows[0]
	require.Len(t, doc0, 4)
	assert.Equal(t, []float64{0, 0}, doc0[0])
	assert.InDelta(t, 1.0, doc0[1][1], 1e-12)
	assert.InDelta(t, 0.5, doc0[2][1], 1e-12)
	assert.InDelta(t, 0.0, doc0[3][1], 1e-12)
	for _, row := range doc0 {
		assert.Equal(t, 0.0, row[0], "self-similarity is zeroed")
	}

	doc1 := result.Rows[1]
	require.Len(t, doc1, 4)
	assert.Equal(t, []float64{0, 0}, doc1[0])
	for _, row := range doc1[1:] {
		assert.InDelta(t, 0.5, row[0], 1e-12)
		assert.Equal(t, 0.0, row[1])
	}
}

func TestAggregate_ScaledRange(t *testing.T) {
	docs := randomDocuments(9, 4, 30, 3)
	f := newSolverFixture(t, 3, 4, 3, 5, docs...)
	require.NoError(t, f.pool.Solve(context.Background()))

	result, err := Aggregate(f.corpus, f.model, f.problems, f.confusion)
	require.NoError(t, err)
	require.Len(t, result.Scaled, len(f.problems))

	lo, hi := 1.0, 0.0
	for _, row := range result.Scaled {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	for d, rows := range result.Rows {
		assert.Len(t, rows, f.corpus.Phonemes(d))
	}
}

func TestAggregate_ConstantSimilaritiesScaleToZero(t *testing.T) {
	doc := singleChannel("A", "A", "A")
	f := newSolverFixture(t, 2, 1, 1, 1, doc, doc)
	require.NoError(t, f.pool.Solve(context.Background()))

	result, err := Aggregate(f.corpus, f.model, f.problems, f.confusion)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.RawMin)
	assert.Equal(t, 1.0, result.RawMax)
	for _, row := range result.Scaled {
		assert.Equal(t, []float64{0, 0}, row)
	}
}

func TestAggregate_NoProblems(t *testing.T) {
	f := newSolverFixture(t, 5, 1, 1, 1,
		singleChannel("A", "B"),
		singleChannel("C"),
	)
	require.Empty(t, f.problems)
	require.NoError(t, f.pool.Solve(context.Background()))

	result, err := Aggregate(f.corpus, f.model, f.problems, f.confusion)
	require.NoError(t, err)

	assert.Empty(t, result.Scaled)
	assert.Equal(t, []int{0, 0}, result.Windows)
	assert.Equal(t, int64(0), f.confusion.Total())
	assert.Len(t, result.Rows[0], 2)
	for _, rows := range result.Rows {
		for _, row := range rows {
			assert.Equal(t, []float64{0, 0}, row)
		}
	}
}

func TestAggregate_Incomplete(t *testing.T) {
	f := newSolverFixture(t, 2, 1, 1, 1, singleChannel("A", "B", "C"))

	_, err := Aggregate(f.corpus, f.model, f.problems, f.confusion)
	assert.ErrorIs(t, err, ErrIncomplete)
}
