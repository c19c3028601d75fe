package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSolverStarted is returned when Solve is called twice on one pool
	ErrSolverStarted = errors.New("solver pool already started")

	// ErrWorkerFailed wraps a failure inside a single problem's solve step
	ErrWorkerFailed = errors.New("solver worker failed")
)

// SolverPool runs a fixed number of workers that pull problem indices from
// a shared atomic counter until every problem has been solved.
//
// The corpus stream, weighting model and problem identities are read-only
// while solving. Each problem's Similarities and completion flag belong to
// the worker that dequeued it; the confusion matrix is the only state shared
// for writing.
type SolverPool struct {
	corpus    *Corpus
	model     *WeightingModel
	problems  []*Problem
	confusion *ConfusionMatrix
	threads   int
	seed      uint64

	spans   []DocumentSpan
	windows []int

	started   atomic.Bool
	next      atomic.Int64
	completed atomic.Int64
}

// NewSolverPool prepares a pool over a sealed corpus.
// threads <= 0 uses runtime.NumCPU().
func NewSolverPool(corpus *Corpus, model *WeightingModel, problems []*Problem, confusion *ConfusionMatrix, threads int, seed uint64) (*SolverPool, error) {
	if !corpus.Sealed() {
		return nil, ErrCorpusNotSealed
	}
	if model.NumFeatures() != corpus.NumFeatures() {
		return nil, fmt.Errorf("%w: weighting model has %d channels, corpus has %d",
			ErrInvalidWeighting, model.NumFeatures(), corpus.NumFeatures())
	}
	if confusion.Size() != corpus.NumDocuments() {
		return nil, fmt.Errorf("confusion matrix size %d does not match %d documents",
			confusion.Size(), corpus.NumDocuments())
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	numDocs := corpus.NumDocuments()
	spans := make([]DocumentSpan, numDocs)
	windows := make([]int, numDocs)
	for d := 0; d < numDocs; d++ {
		spans[d] = corpus.Span(d)
		windows[d] = WindowCount(spans[d].Len(), model.WindowFeatures(), corpus.NumFeatures())
	}

	return &SolverPool{
		corpus:    corpus,
		model:     model,
		problems:  problems,
		confusion: confusion,
		threads:   threads,
		seed:      seed,
		spans:     spans,
		windows:   windows,
	}, nil
}

// Threads returns the number of workers
func (s *SolverPool) Threads() int {
	return s.threads
}

// Total returns the number of problems
func (s *SolverPool) Total() int {
	return len(s.problems)
}

// Completed returns how many problems have been solved so far.
// It is safe to call concurrently with Solve and is meant for progress
// reporting only.
func (s *SolverPool) Completed() int {
	return int(s.completed.Load())
}

// Solve runs the workers and blocks until every problem is solved, a worker
// fails, or ctx is cancelled. Workers check ctx between problems only, so a
// problem that starts always runs to completion.
func (s *SolverPool) Solve(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSolverStarted
	}
	if len(s.problems) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	total := int64(len(s.problems))
	for w := 0; w < s.threads; w++ {
		g.Go(func() error {
			ties := make([]int, 0, len(s.spans))
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx := s.next.Add(1) - 1
				if idx >= total {
					return nil
				}
				if err := s.solveRecovered(int(idx), &ties); err != nil {
					return err
				}
				s.completed.Add(1)
			}
		})
	}
	return g.Wait()
}

func (s *SolverPool) solveRecovered(idx int, ties *[]int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: problem %d: %v", ErrWorkerFailed, idx, r)
		}
	}()
	*ties = s.solveProblem(idx, (*ties)[:0])
	return nil
}

// solveProblem scores one seed window against every document, records the
// winner in the confusion matrix and marks the problem complete.
func (s *SolverPool) solveProblem(idx int, ties []int) []int {
	p := s.problems[idx]
	stream := s.corpus.Stream()
	nf := s.corpus.NumFeatures()

	best := -1.0
	for c, span := range s.spans {
		sum := 0.0
		count := 0
		for w := 0; w < s.windows[c]; w++ {
			diff := s.model.DifferenceSum(stream, p.SeedOffset, span.Start+w*nf)
			sum += s.model.Weight(diff)
			count++
		}

		similarity := 0.0
		if count > 0 {
			similarity = sum / float64(count)
		}
		p.Similarities[c] = similarity

		switch {
		case similarity > best:
			best = similarity
			ties = append(ties[:0], c)
		case similarity == best:
			ties = append(ties, c)
		}
	}

	winner := ties[0]
	if len(ties) > 1 {
		rng := rand.New(rand.NewPCG(s.seed, uint64(idx)))
		winner = ties[rng.IntN(len(ties))]
	}
	p.Winner = winner

	s.confusion.Increment(p.SeedDocument, winner)
	p.markComplete()
	return ties
}
