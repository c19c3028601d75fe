package mcp

import (
	"io"

	"github.com/ludo-technologies/prosim/app"
	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	corpusLoader domain.CorpusLoader
	configLoader domain.SimilarityConfigurationLoader
	metrics      *metrics.Metrics
	configPath   string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(configPath string, m *metrics.Metrics) *Dependencies {
	if m == nil {
		m = metrics.New()
	}

	return &Dependencies{
		corpusLoader: service.NewCorpusReader(),
		configLoader: service.NewSimilarityConfigurationLoader(),
		metrics:      m,
		configPath:   configPath,
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Metrics returns the collectors shared by every tool call.
func (d *Dependencies) Metrics() *metrics.Metrics {
	return d.metrics
}

// LoadRequest loads the configuration that applies to targetPath.
func (d *Dependencies) LoadRequest(targetPath string) (*domain.SimilarityRequest, error) {
	return d.configLoader.LoadConfig(d.configPath, targetPath)
}

// BuildSimilarityUseCase assembles a fresh SimilarityUseCase. Stdout carries
// JSON-RPC, so progress bars are always off.
func (d *Dependencies) BuildSimilarityUseCase() (*app.SimilarityUseCase, error) {
	progress := service.NewProgressManager()
	progress.SetWriter(io.Discard)

	return app.NewSimilarityUseCaseBuilder().
		WithService(service.NewSimilarityService(progress, d.metrics)).
		WithCorpusLoader(d.corpusLoader).
		WithFormatter(service.NewSimilarityFormatter()).
		Build()
}
