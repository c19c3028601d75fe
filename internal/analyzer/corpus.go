package analyzer

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMissingChannel is returned when a tuple lacks a value for a channel
	ErrMissingChannel = errors.New("tuple is missing a channel value")

	// ErrCorpusSealed is returned when ingesting into a sealed corpus
	ErrCorpusSealed = errors.New("corpus is sealed")

	// ErrCorpusNotSealed is returned when solving before ingestion has ended
	ErrCorpusNotSealed = errors.New("corpus is not sealed")

	// ErrCorpusFailed is returned once an earlier ingestion error has poisoned the corpus
	ErrCorpusFailed = errors.New("corpus ingestion previously failed")
)

// Tuple is one phoneme: a value per feature channel, in channel order,
// plus the phrase it belongs to (used for statistics only).
type Tuple struct {
	Phrase string
	Values []string
}

// DocumentSpan is the half-open range [Start, End) of a document in the symbol stream
type DocumentSpan struct {
	Start int
	End   int
}

// Len returns the number of symbols in the span
func (s DocumentSpan) Len() int {
	return s.End - s.Start
}

// Corpus is the flat symbol stream for every ingested document.
// Every phoneme contributes exactly numFeatures consecutive symbols.
type Corpus struct {
	numFeatures int
	tables      []*SymbolTable
	stream      []Symbol
	ends        []int
	phrases     []int
	sealed      bool
	err         error
}

// NewCorpus creates a corpus for numFeatures channels.
// capacityHint preallocates the symbol stream; Seal trims the excess.
func NewCorpus(numFeatures, capacityHint int) *Corpus {
	tables := make([]*SymbolTable, numFeatures)
	for i := range tables {
		tables[i] = NewSymbolTable()
	}
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Corpus{
		numFeatures: numFeatures,
		tables:      tables,
		stream:      make([]Symbol, 0, capacityHint),
	}
}

// Ingest appends one document and returns its index.
// A document is validated in full before any of it is interned, and any
// failure poisons the corpus: symbol IDs depend on total ingestion order,
// so nothing after a failed document is usable.
func (c *Corpus) Ingest(tuples []Tuple) (int, error) {
	if c.err != nil {
		return -1, fmt.Errorf("%w: %v", ErrCorpusFailed, c.err)
	}
	if c.sealed {
		return -1, ErrCorpusSealed
	}

	for i, tuple := range tuples {
		if len(tuple.Values) < c.numFeatures {
			c.err = fmt.Errorf("tuple %d has %d values, want %d: %w",
				i, len(tuple.Values), c.numFeatures, ErrMissingChannel)
			return -1, c.err
		}
		for ch := 0; ch < c.numFeatures; ch++ {
			if tuple.Values[ch] == "" {
				c.err = fmt.Errorf("tuple %d channel %d: %w", i, ch, ErrMissingChannel)
				return -1, c.err
			}
		}
	}

	phrases := 0
	lastPhrase := ""
	for i, tuple := range tuples {
		for ch := 0; ch < c.numFeatures; ch++ {
			c.stream = append(c.stream, c.tables[ch].Intern(tuple.Values[ch]))
		}
		if tuple.Phrase != "" && (i == 0 || tuple.Phrase != lastPhrase) {
			phrases++
		}
		lastPhrase = tuple.Phrase
	}

	c.ends = append(c.ends, len(c.stream))
	c.phrases = append(c.phrases, phrases)
	return len(c.ends) - 1, nil
}

// Seal ends ingestion and trims the stream to its actual size
func (c *Corpus) Seal() error {
	if c.err != nil {
		return fmt.Errorf("%w: %v", ErrCorpusFailed, c.err)
	}
	if c.sealed {
		return nil
	}
	c.stream = slices.Clip(c.stream)
	c.sealed = true
	return nil
}

// Sealed reports whether ingestion has ended
func (c *Corpus) Sealed() bool {
	return c.sealed
}

// NumFeatures returns the number of channels per phoneme
func (c *Corpus) NumFeatures() int {
	return c.numFeatures
}

// NumDocuments returns the number of ingested documents
func (c *Corpus) NumDocuments() int {
	return len(c.ends)
}

// Span returns the symbol range of document i
func (c *Corpus) Span(i int) DocumentSpan {
	start := 0
	if i > 0 {
		start = c.ends[i-1]
	}
	return DocumentSpan{Start: start, End: c.ends[i]}
}

// Phonemes returns the number of phonemes in document i
func (c *Corpus) Phonemes(i int) int {
	return c.Span(i).Len() / c.numFeatures
}

// Phrases returns the number of phrases counted in document i
func (c *Corpus) Phrases(i int) int {
	return c.phrases[i]
}

// TotalPhonemes returns the number of phonemes across the corpus
func (c *Corpus) TotalPhonemes() int {
	return len(c.stream) / c.numFeatures
}

// Stream returns the symbol stream. Callers must not modify it.
func (c *Corpus) Stream() []Symbol {
	return c.stream
}

// SymbolCounts returns the number of distinct symbols per channel
func (c *Corpus) SymbolCounts() []int {
	counts := make([]int, len(c.tables))
	for i, t := range c.tables {
		counts[i] = t.Len()
	}
	return counts
}

// Table returns the symbol table of channel ch
func (c *Corpus) Table(ch int) *SymbolTable {
	return c.tables[ch]
}
