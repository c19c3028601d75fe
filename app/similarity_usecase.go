package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/logger"
)

// SimilarityUseCase orchestrates a similarity run: corpus collection,
// ingestion, solving and report output
type SimilarityUseCase struct {
	service      domain.SimilarityService
	corpusLoader domain.CorpusLoader
	formatter    domain.SimilarityOutputFormatter
	reportWriter domain.ReportWriter
}

// NewSimilarityUseCase creates a new similarity use case with the given dependencies
func NewSimilarityUseCase(
	service domain.SimilarityService,
	corpusLoader domain.CorpusLoader,
	formatter domain.SimilarityOutputFormatter,
	reportWriter domain.ReportWriter,
) *SimilarityUseCase {
	return &SimilarityUseCase{
		service:      service,
		corpusLoader: corpusLoader,
		formatter:    formatter,
		reportWriter: reportWriter,
	}
}

// Execute runs the similarity analysis and writes the formatted report
func (uc *SimilarityUseCase) Execute(ctx context.Context, req domain.SimilarityRequest) error {
	response, err := uc.ExecuteAndReturn(ctx, req)
	if err != nil {
		return err
	}

	writeFunc := func(w io.Writer) error {
		return uc.formatter.Format(response, req.OutputFormat, req.ShowRows, w)
	}

	if uc.reportWriter != nil {
		return uc.reportWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, writeFunc)
	}
	if req.OutputWriter == nil {
		return domain.NewOutputError("no valid output writer specified", nil)
	}
	if err := writeFunc(req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// ExecuteAndReturn runs the similarity analysis and returns the response
// without formatting it
func (uc *SimilarityUseCase) ExecuteAndReturn(ctx context.Context, req domain.SimilarityRequest) (*domain.SimilarityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	log := logger.WithComponent("usecase")

	files, err := uc.corpusLoader.CollectFiles(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to collect corpus files: %w", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("no corpus files found in %s", strings.Join(req.Paths, ", ")), nil)
	}
	log.Info("corpus files collected", "files", len(files))

	docs, err := uc.corpusLoader.LoadDocuments(ctx, files, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	response, err := uc.service.ComputeSimilarity(ctx, &req, docs)
	if err != nil {
		return nil, fmt.Errorf("similarity analysis failed: %w", err)
	}
	return response, nil
}

// SimilarityUseCaseBuilder provides a builder pattern for creating SimilarityUseCase
type SimilarityUseCaseBuilder struct {
	service      domain.SimilarityService
	corpusLoader domain.CorpusLoader
	formatter    domain.SimilarityOutputFormatter
	reportWriter domain.ReportWriter
}

// NewSimilarityUseCaseBuilder creates a new builder
func NewSimilarityUseCaseBuilder() *SimilarityUseCaseBuilder {
	return &SimilarityUseCaseBuilder{}
}

// WithService sets the similarity service
func (b *SimilarityUseCaseBuilder) WithService(service domain.SimilarityService) *SimilarityUseCaseBuilder {
	b.service = service
	return b
}

// WithCorpusLoader sets the corpus loader
func (b *SimilarityUseCaseBuilder) WithCorpusLoader(loader domain.CorpusLoader) *SimilarityUseCaseBuilder {
	b.corpusLoader = loader
	return b
}

// WithFormatter sets the output formatter
func (b *SimilarityUseCaseBuilder) WithFormatter(formatter domain.SimilarityOutputFormatter) *SimilarityUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithReportWriter sets the report writer. Without one, reports go to the
// request's OutputWriter.
func (b *SimilarityUseCaseBuilder) WithReportWriter(writer domain.ReportWriter) *SimilarityUseCaseBuilder {
	b.reportWriter = writer
	return b
}

// Build creates the SimilarityUseCase with the configured dependencies
func (b *SimilarityUseCaseBuilder) Build() (*SimilarityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("similarity service is required")
	}
	if b.corpusLoader == nil {
		return nil, fmt.Errorf("corpus loader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	return NewSimilarityUseCase(
		b.service,
		b.corpusLoader,
		b.formatter,
		b.reportWriter,
	), nil
}
