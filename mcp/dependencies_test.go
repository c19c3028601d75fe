package mcp

import (
	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/service"
)

func NewTestDependencies(loader domain.CorpusLoader, path string, m *metrics.Metrics) *Dependencies {
	if m == nil {
		m = metrics.New()
	}
	return &Dependencies{
		corpusLoader: loader,
		configLoader: service.NewSimilarityConfigurationLoader(),
		metrics:      m,
		configPath:   path,
	}
}
