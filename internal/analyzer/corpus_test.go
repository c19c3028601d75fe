package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleChannel builds one-channel tuples from the given values
func singleChannel(values ...string) []Tuple {
	tuples := make([]Tuple, len(values))
	for i, v := range values {
		tuples[i] = Tuple{Values: []string{v}}
	}
	return tuples
}

func TestCorpus_IngestBuildsStreamInChannelOrder(t *testing.T) {
	corpus := NewCorpus(2, 0)

	idx, err := corpus.Ingest([]Tuple{
		{Phrase: "p1", Values: []string{"NN", "H*"}},
		{Phrase: "p1", Values: []string{"VB", "H*"}},
		{Phrase: "p2", Values: []string{"NN", "L-"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	assert.Equal(t, []Symbol{0, 0, 1, 0, 0, 1}, corpus.Stream())
	assert.Equal(t, DocumentSpan{Start: 0, End: 6}, corpus.Span(0))
	assert.Equal(t, 3, corpus.Phonemes(0))
	assert.Equal(t, 2, corpus.Phrases(0))
	assert.Equal(t, []int{2, 2}, corpus.SymbolCounts())
}

func TestCorpus_SymbolsSharedAcrossDocuments(t *testing.T) {
	corpus := NewCorpus(1, 0)

	_, err := corpus.Ingest(singleChannel("A", "B"))
	require.NoError(t, err)
	idx, err := corpus.Ingest(singleChannel("B", "C", "A"))
	require.NoError(t, err)

	assert.Equal(t, 1, idx)
	assert.Equal(t, []Symbol{0, 1, 1, 2, 0}, corpus.Stream())
	assert.Equal(t, DocumentSpan{Start: 2, End: 5}, corpus.Span(1))
	assert.Equal(t, 2, corpus.NumDocuments())
	assert.Equal(t, 5, corpus.TotalPhonemes())
}

func TestCorpus_EmptyDocument(t *testing.T) {
	corpus := NewCorpus(1, 0)

	_, err := corpus.Ingest(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, corpus.Span(0).Len())
	assert.Equal(t, 0, corpus.Phonemes(0))
}

func TestCorpus_MissingChannelIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		tuples []Tuple
	}{
		{
			name:   "empty value",
			tuples: []Tuple{{Values: []string{"NN", ""}}},
		},
		{
			name:   "short tuple",
			tuples: []Tuple{{Values: []string{"NN"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := NewCorpus(2, 0)
			_, err := corpus.Ingest([]Tuple{{Values: []string{"JJ", "H*"}}})
			require.NoError(t, err)

			_, err = corpus.Ingest(tt.tuples)
			require.ErrorIs(t, err, ErrMissingChannel)

			// nothing from the failed document was interned
			assert.Equal(t, 1, corpus.NumDocuments())
			assert.Len(t, corpus.Stream(), 2)

			_, err = corpus.Ingest([]Tuple{{Values: []string{"JJ", "H*"}}})
			assert.ErrorIs(t, err, ErrCorpusFailed)
			assert.ErrorIs(t, corpus.Seal(), ErrCorpusFailed)
		})
	}
}

func TestCorpus_SealTrimsAndBlocksIngest(t *testing.T) {
	corpus := NewCorpus(1, 1024)
	_, err := corpus.Ingest(singleChannel("A", "B", "C"))
	require.NoError(t, err)

	require.NoError(t, corpus.Seal())
	assert.True(t, corpus.Sealed())
	assert.Equal(t, len(corpus.Stream()), cap(corpus.Stream()))

	_, err = corpus.Ingest(singleChannel("A"))
	assert.ErrorIs(t, err, ErrCorpusSealed)

	// sealing twice is harmless
	assert.NoError(t, corpus.Seal())
}
