package analyzer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrIncomplete is returned when aggregating before every problem is solved
var ErrIncomplete = errors.New("not every problem is complete")

// AggregateResult is the normalized output of a solved run
type AggregateResult struct {
	// Scaled holds, per problem and in problem order, the similarities
	// rescaled to [0, 1] by the global min and max.
	Scaled [][]float64

	// Rows holds, per document, one row per phoneme position with the
	// scaled similarity to every document. Self-similarity, positions
	// inside the first half-window and positions without a problem are 0.
	Rows [][][]float64

	// Windows is the number of problems generated per document
	Windows []int

	Confusion [][]int64
	Summary   ConfusionSummary

	// RawMin and RawMax are the global extremes before scaling
	RawMin float64
	RawMax float64
}

// Aggregate normalizes the similarities of completed problems and assembles
// per-document rows and confusion statistics. problems must be in generator
// order (document-major, increasing offset).
func Aggregate(corpus *Corpus, model *WeightingModel, problems []*Problem, confusion *ConfusionMatrix) (*AggregateResult, error) {
	for i, p := range problems {
		if !p.Complete() {
			return nil, fmt.Errorf("%w: problem %d", ErrIncomplete, i)
		}
	}

	numDocs := corpus.NumDocuments()
	result := &AggregateResult{
		Scaled:    make([][]float64, len(problems)),
		Rows:      make([][][]float64, numDocs),
		Windows:   make([]int, numDocs),
		Confusion: confusion.Rows(),
		Summary:   confusion.Summary(),
	}

	if len(problems) > 0 && numDocs > 0 {
		lo := floats.Min(problems[0].Similarities)
		hi := floats.Max(problems[0].Similarities)
		for _, p := range problems[1:] {
			lo = min(lo, floats.Min(p.Similarities))
			hi = max(hi, floats.Max(p.Similarities))
		}
		result.RawMin, result.RawMax = lo, hi

		span := hi - lo
		for i, p := range problems {
			scaled := make([]float64, numDocs)
			if span > 0 {
				for c, v := range p.Similarities {
					scaled[c] = (v - lo) / span
				}
			}
			result.Scaled[i] = scaled
		}
	}

	// problems are grouped by document, so one pass finds each group's start
	first := make([]int, numDocs)
	for d := range first {
		first[d] = -1
	}
	for i, p := range problems {
		if first[p.SeedDocument] < 0 {
			first[p.SeedDocument] = i
		}
		result.Windows[p.SeedDocument]++
	}

	half := model.WindowSize() / 2
	for d := 0; d < numDocs; d++ {
		phonemes := corpus.Phonemes(d)
		rows := make([][]float64, phonemes)
		for pos := range rows {
			row := make([]float64, numDocs)
			w := pos - half
			if w >= 0 && w < result.Windows[d] {
				copy(row, result.Scaled[first[d]+w])
				row[d] = 0
			}
			rows[pos] = row
		}
		result.Rows[d] = rows
	}

	return result, nil
}
