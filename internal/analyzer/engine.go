package analyzer

import (
	"context"
	"fmt"
)

// EngineConfig holds the tunables of one similarity run
type EngineConfig struct {
	// ChannelWeights has one mismatch weight per feature channel; its
	// length fixes the channel count.
	ChannelWeights []int

	// WindowSize is the window length in phonemes
	WindowSize int

	// WeightingPower controls how fast similarity decays with mismatches
	WeightingPower float64

	// Threads is the worker count; <= 0 uses runtime.NumCPU()
	Threads int

	// Range selects which documents seed problems
	Range ProblemRange

	// Seed drives the tie-break draws
	Seed uint64

	// CapacityHint preallocates the symbol stream (in symbols)
	CapacityHint int
}

// Engine enforces the run lifecycle: Ingest every document, Seal, Solve,
// then Aggregate. An engine is single-use.
type Engine struct {
	cfg       EngineConfig
	corpus    *Corpus
	model     *WeightingModel
	problems  []*Problem
	confusion *ConfusionMatrix
	pool      *SolverPool
}

// NewEngine validates cfg and prepares an empty corpus
func NewEngine(cfg EngineConfig) (*Engine, error) {
	model, err := NewWeightingModel(cfg.WindowSize, cfg.WeightingPower, cfg.ChannelWeights)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		corpus: NewCorpus(len(cfg.ChannelWeights), cfg.CapacityHint),
		model:  model,
	}, nil
}

// Ingest appends one document's tuples and returns its index
func (e *Engine) Ingest(tuples []Tuple) (int, error) {
	return e.corpus.Ingest(tuples)
}

// Seal ends ingestion and builds the problems, confusion matrix and pool.
// It returns the number of problems generated.
func (e *Engine) Seal() (int, error) {
	if e.pool != nil {
		return len(e.problems), nil
	}
	if err := e.corpus.Seal(); err != nil {
		return 0, err
	}

	e.problems = GenerateProblems(e.corpus, e.model, e.cfg.Range)
	e.confusion = NewConfusionMatrix(e.corpus.NumDocuments())

	pool, err := NewSolverPool(e.corpus, e.model, e.problems, e.confusion, e.cfg.Threads, e.cfg.Seed)
	if err != nil {
		return 0, err
	}
	e.pool = pool
	return len(e.problems), nil
}

// Solve runs the worker pool to completion
func (e *Engine) Solve(ctx context.Context) error {
	if e.pool == nil {
		return ErrCorpusNotSealed
	}
	return e.pool.Solve(ctx)
}

// Progress returns the solved and total problem counts
func (e *Engine) Progress() (completed, total int) {
	if e.pool == nil {
		return 0, 0
	}
	return e.pool.Completed(), e.pool.Total()
}

// Aggregate normalizes the results of a finished Solve
func (e *Engine) Aggregate() (*AggregateResult, error) {
	if e.pool == nil {
		return nil, ErrCorpusNotSealed
	}
	result, err := Aggregate(e.corpus, e.model, e.problems, e.confusion)
	if err != nil {
		return nil, fmt.Errorf("aggregating results: %w", err)
	}
	return result, nil
}

// Corpus returns the engine's corpus
func (e *Engine) Corpus() *Corpus {
	return e.corpus
}

// Model returns the weighting model
func (e *Engine) Model() *WeightingModel {
	return e.model
}

// Problems returns the generated problems (nil before Seal)
func (e *Engine) Problems() []*Problem {
	return e.problems
}

// Threads returns the worker count (0 before Seal)
func (e *Engine) Threads() int {
	if e.pool == nil {
		return 0
	}
	return e.pool.Threads()
}
