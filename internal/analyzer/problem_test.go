package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowCount(t *testing.T) {
	tests := []struct {
		name                              string
		length, windowFeatures, nFeatures int
		want                              int
	}{
		{"exact fit", 6, 6, 6, 1},
		{"two windows", 12, 6, 6, 2},
		{"stride one phoneme", 4, 2, 1, 3},
		{"shorter than window", 5, 6, 6, 0},
		{"empty", 0, 6, 6, 0},
		{"invalid window", 10, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowCount(tt.length, tt.windowFeatures, tt.nFeatures))
		})
	}
}

func sealedCorpus(t *testing.T, docs ...[]Tuple) *Corpus {
	t.Helper()
	corpus := NewCorpus(len(docs[0][0].Values), 0)
	for _, doc := range docs {
		_, err := corpus.Ingest(doc)
		require.NoError(t, err)
	}
	require.NoError(t, corpus.Seal())
	return corpus
}

func TestGenerateProblems_DocumentMajorOrder(t *testing.T) {
	corpus := sealedCorpus(t,
		singleChannel("A", "B", "C"),
		singleChannel("A", "B"),
	)
	model, err := NewWeightingModel(2, 1, []int{1})
	require.NoError(t, err)

	problems := GenerateProblems(corpus, model, ProblemRange{})
	require.Len(t, problems, 3)

	assert.Equal(t, 0, problems[0].SeedDocument)
	assert.Equal(t, 0, problems[0].SeedOffset)
	assert.Equal(t, 0, problems[1].SeedDocument)
	assert.Equal(t, 1, problems[1].SeedOffset)
	assert.Equal(t, 1, problems[1].WindowIndex)
	assert.Equal(t, 1, problems[2].SeedDocument)
	assert.Equal(t, 3, problems[2].SeedOffset)

	for _, p := range problems {
		assert.Len(t, p.Similarities, 2)
		assert.Equal(t, -1, p.Winner)
		assert.False(t, p.Complete())
	}
}

func TestGenerateProblems_ShortDocumentsYieldNothing(t *testing.T) {
	corpus := sealedCorpus(t,
		singleChannel("A"),
		singleChannel("A", "B", "C"),
		singleChannel("B", "C"),
	)
	model, err := NewWeightingModel(3, 1, []int{1})
	require.NoError(t, err)

	problems := GenerateProblems(corpus, model, ProblemRange{})
	require.Len(t, problems, 1)
	assert.Equal(t, 1, problems[0].SeedDocument)
}

func TestGenerateProblems_Range(t *testing.T) {
	corpus := sealedCorpus(t,
		singleChannel("A", "B", "C", "D"),
		singleChannel("A", "B", "C", "D"),
		singleChannel("A", "B", "C", "D"),
	)
	model, err := NewWeightingModel(2, 1, []int{1})
	require.NoError(t, err)

	t.Run("start and end", func(t *testing.T) {
		problems := GenerateProblems(corpus, model, ProblemRange{StartDocument: 1, EndDocument: 2})
		require.Len(t, problems, 3)
		for _, p := range problems {
			assert.Equal(t, 1, p.SeedDocument)
		}
	})

	t.Run("end past corpus is clamped", func(t *testing.T) {
		problems := GenerateProblems(corpus, model, ProblemRange{StartDocument: 2, EndDocument: 99})
		assert.Len(t, problems, 3)
	})

	t.Run("window cap", func(t *testing.T) {
		problems := GenerateProblems(corpus, model, ProblemRange{MaxWindowsPerDocument: 2})
		require.Len(t, problems, 6)
		assert.Equal(t, 1, problems[1].WindowIndex)
		assert.Equal(t, 1, problems[2].SeedDocument)
	})

	t.Run("empty range", func(t *testing.T) {
		assert.Empty(t, GenerateProblems(corpus, model, ProblemRange{StartDocument: 3}))
	})
}
