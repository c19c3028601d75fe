package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/analyzer"
	"github.com/ludo-technologies/prosim/internal/logger"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/internal/version"
)

// SimilarityService implements the domain.SimilarityService interface
type SimilarityService struct {
	progress domain.ProgressManager
	metrics  *metrics.Metrics
}

// NewSimilarityService creates a new similarity service.
// progress and m can be nil.
func NewSimilarityService(progress domain.ProgressManager, m *metrics.Metrics) *SimilarityService {
	return &SimilarityService{
		progress: progress,
		metrics:  m,
	}
}

// ComputeSimilarity ingests docs in order, solves every problem and returns
// the normalized similarity rows and confusion statistics.
func (s *SimilarityService) ComputeSimilarity(ctx context.Context, req *domain.SimilarityRequest, docs []*domain.DocumentInput) (*domain.SimilarityResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("similarity request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx).With("component", "similarity")

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	response, err := s.run(ctx, log, req, docs, seed)
	s.recordOutcome(err)
	if err != nil {
		log.Error("similarity run failed", "error", err)
		return nil, err
	}

	response.RunID = runID
	response.Duration = time.Since(startTime).Milliseconds()
	log.Info("similarity run finished",
		"documents", response.Statistics.Documents,
		"problems", response.Statistics.Problems,
		"duration_ms", response.Duration)
	return response, nil
}

func (s *SimilarityService) run(ctx context.Context, log *slog.Logger, req *domain.SimilarityRequest, docs []*domain.DocumentInput, seed uint64) (*domain.SimilarityResponse, error) {
	capacity := 0
	for _, doc := range docs {
		capacity += len(doc.Tuples)
	}

	engine, err := analyzer.NewEngine(analyzer.EngineConfig{
		ChannelWeights: req.ChannelWeights(),
		WindowSize:     req.WindowSize,
		WeightingPower: req.WeightingPower,
		Threads:        req.Threads,
		Range: analyzer.ProblemRange{
			StartDocument:         req.StartDocument,
			EndDocument:           req.EndDocument,
			MaxWindowsPerDocument: req.MaxWindowsPerDocument,
		},
		Seed:         seed,
		CapacityHint: capacity * len(req.Channels),
	})
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid engine configuration", err)
	}

	// Ingest
	phaseStart := time.Now()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("similarity run cancelled during ingestion: %w", err)
		}
		index, err := engine.Ingest(toTuples(doc.Tuples))
		if err != nil {
			return nil, domain.NewIngestionError(documentLabel(doc), err)
		}
		log.Debug("document ingested", "index", index, "name", doc.Descriptor.Name, "phonemes", len(doc.Tuples))
		if s.metrics != nil {
			s.metrics.DocumentsIngestedTotal.Inc()
			s.metrics.PhonemesIngestedTotal.Add(float64(len(doc.Tuples)))
		}
	}
	numProblems, err := engine.Seal()
	if err != nil {
		return nil, domain.NewIngestionError("corpus", err)
	}
	s.observePhase("ingest", phaseStart)

	corpus := engine.Corpus()
	log.Info("corpus sealed",
		"documents", corpus.NumDocuments(),
		"phonemes", corpus.TotalPhonemes(),
		"problems", numProblems,
		"threads", engine.Threads(),
		"seed", seed)

	if s.metrics != nil {
		s.metrics.ProblemsTotal.Set(float64(numProblems))
		s.metrics.WorkerThreads.Set(float64(engine.Threads()))
		for i, count := range corpus.SymbolCounts() {
			s.metrics.SymbolsPerChannel.WithLabelValues(req.Channels[i].Name).Set(float64(count))
		}
	}

	// Solve
	phaseStart = time.Now()
	if err := s.solveWithProgress(ctx, log, engine, req.ProgressInterval); err != nil {
		switch {
		case errors.Is(err, analyzer.ErrWorkerFailed):
			return nil, domain.NewSolveError("solver worker failed", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("similarity run cancelled while solving: %w", err)
		default:
			return nil, domain.NewSolveError("solve failed", err)
		}
	}
	s.observePhase("solve", phaseStart)
	log.Info("problems solved", "problems", numProblems, "elapsed", time.Since(phaseStart).Round(time.Millisecond))

	// Aggregate
	phaseStart = time.Now()
	result, err := engine.Aggregate()
	if err != nil {
		return nil, domain.NewAnalysisError("failed to aggregate results", err)
	}
	s.observePhase("aggregate", phaseStart)
	log.Info("results aggregated", "raw_min", result.RawMin, "raw_max", result.RawMax)

	return buildResponse(req, docs, corpus, result, numProblems, engine.Threads(), seed), nil
}

// solveWithProgress runs the solver while polling its completed count
func (s *SimilarityService) solveWithProgress(ctx context.Context, log *slog.Logger, engine *analyzer.Engine, interval time.Duration) error {
	if interval <= 0 {
		interval = domain.DefaultProgressInterval
	}

	_, total := engine.Progress()
	if s.progress != nil {
		s.progress.Initialize(total)
		s.progress.Start()
	}

	done := make(chan error, 1)
	go func() {
		done <- engine.Solve(ctx)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	reported := 0
	report := func() {
		completed, total := engine.Progress()
		if s.progress != nil {
			s.progress.Update(completed, total)
		}
		if s.metrics != nil && completed > reported {
			s.metrics.ProblemsSolvedTotal.Add(float64(completed - reported))
		}
		reported = completed
	}

	for {
		select {
		case err := <-done:
			report()
			if s.progress != nil {
				s.progress.Complete(err == nil)
			}
			return err
		case <-ticker.C:
			report()
			if reported > 0 && reported < total {
				elapsed := time.Since(start)
				eta := time.Duration(float64(elapsed) / float64(reported) * float64(total-reported))
				log.Debug("solving", "completed", reported, "total", total, "eta", eta.Round(time.Second))
			}
		}
	}
}

func (s *SimilarityService) observePhase(phase string, start time.Time) {
	if s.metrics != nil {
		s.metrics.PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	}
}

func (s *SimilarityService) recordOutcome(err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "cancelled"
	case err != nil:
		outcome = "failed"
	}
	s.metrics.RunsTotal.WithLabelValues(outcome).Inc()
}

func buildResponse(req *domain.SimilarityRequest, docs []*domain.DocumentInput, corpus *analyzer.Corpus, result *analyzer.AggregateResult, numProblems, threads int, seed uint64) *domain.SimilarityResponse {
	stats := &domain.SimilarityStatistics{
		Documents:         corpus.NumDocuments(),
		Phonemes:          corpus.TotalPhonemes(),
		Problems:          numProblems,
		SymbolsPerChannel: make(map[string]int, len(req.Channels)),
		RawMin:            result.RawMin,
		RawMax:            result.RawMax,
		Threads:           threads,
		Seed:              seed,
	}
	for i, count := range corpus.SymbolCounts() {
		stats.SymbolsPerChannel[req.Channels[i].Name] = count
	}

	documents := make([]domain.DocumentResult, len(docs))
	for i, doc := range docs {
		documents[i] = domain.DocumentResult{
			Index:    i,
			Name:     doc.Descriptor.Name,
			Path:     doc.Descriptor.Path,
			Phonemes: corpus.Phonemes(i),
			Phrases:  corpus.Phrases(i),
			Windows:  result.Windows[i],
			Rows:     result.Rows[i],
		}
		stats.Phrases += documents[i].Phrases
	}

	channels := make([]domain.Channel, len(req.Channels))
	copy(channels, req.Channels)

	return &domain.SimilarityResponse{
		Channels:  channels,
		Documents: documents,
		Confusion: result.Confusion,
		Summary: domain.ConfusionSummary{
			WithinClassMean:  result.Summary.WithinClassMean,
			BetweenClassMean: result.Summary.BetweenClassMean,
			Ratio:            result.Summary.Ratio,
		},
		Statistics:  stats,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Success:     true,
	}
}

func toTuples(in []domain.PhonemeTuple) []analyzer.Tuple {
	out := make([]analyzer.Tuple, len(in))
	for i, t := range in {
		out[i] = analyzer.Tuple{Phrase: t.Phrase, Values: t.Values}
	}
	return out
}

func documentLabel(doc *domain.DocumentInput) string {
	if doc.Descriptor.Path != "" {
		return doc.Descriptor.Path
	}
	return doc.Descriptor.Name
}
