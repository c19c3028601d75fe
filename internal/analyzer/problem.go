package analyzer

import "sync/atomic"

// Problem is one seed window compared against every window of every document.
// After generation it is written by exactly one worker; readers must observe
// Complete() == true before trusting Similarities.
type Problem struct {
	SeedDocument int
	SeedOffset   int
	WindowIndex  int

	// Similarities holds the mean window weight against each document
	Similarities []float64

	// Winner is the document picked as most similar (-1 until solved)
	Winner int

	complete atomic.Bool
}

// Complete reports whether the problem has been solved
func (p *Problem) Complete() bool {
	return p.complete.Load()
}

func (p *Problem) markComplete() {
	p.complete.Store(true)
}

// ProblemRange selects the documents to generate problems for
type ProblemRange struct {
	// StartDocument is the first document index (inclusive)
	StartDocument int

	// EndDocument is the last document index (exclusive); <= 0 means all
	EndDocument int

	// MaxWindowsPerDocument caps problems per document; <= 0 means unbounded
	MaxWindowsPerDocument int
}

// WindowCount returns the number of full windows in a span of length symbols
func WindowCount(length, windowFeatures, numFeatures int) int {
	if length < windowFeatures || windowFeatures <= 0 || numFeatures <= 0 {
		return 0
	}
	return (length-windowFeatures)/numFeatures + 1
}

// GenerateProblems enumerates one problem per window of every document in
// range. The result is document-major, then increasing offset.
func GenerateProblems(corpus *Corpus, model *WeightingModel, r ProblemRange) []*Problem {
	numDocs := corpus.NumDocuments()
	start, end := r.StartDocument, r.EndDocument
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > numDocs {
		end = numDocs
	}

	nf := corpus.NumFeatures()
	wf := model.WindowFeatures()

	var problems []*Problem
	for doc := start; doc < end; doc++ {
		span := corpus.Span(doc)
		windows := WindowCount(span.Len(), wf, nf)
		if r.MaxWindowsPerDocument > 0 && windows > r.MaxWindowsPerDocument {
			windows = r.MaxWindowsPerDocument
		}
		for i := 0; i < windows; i++ {
			problems = append(problems, &Problem{
				SeedDocument: doc,
				SeedOffset:   span.Start + i*nf,
				WindowIndex:  i,
				Similarities: make([]float64, numDocs),
				Winner:       -1,
			})
		}
	}
	return problems
}
