package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ProblemsSolvedTotal.Add(3)
	assert.Contains(t, scrape(t, a), "prosim_problems_solved_total 3")
	assert.Contains(t, scrape(t, b), "prosim_problems_solved_total 0")
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.DocumentsIngestedTotal.Inc()
	m.SymbolsPerChannel.WithLabelValues("tone").Set(5)
	m.RunsTotal.WithLabelValues("success").Inc()

	body := scrape(t, m)
	assert.Contains(t, body, "prosim_documents_ingested_total 1")
	assert.Contains(t, body, `prosim_channel_symbols{channel="tone"} 5`)
	assert.Contains(t, body, `prosim_runs_total{outcome="success"} 1`)
}

func TestStartServer(t *testing.T) {
	m := New()
	shutdown, err := m.StartServer("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestStartServer_BadAddress(t *testing.T) {
	_, err := New().StartServer("not-an-address")
	assert.Error(t, err)
}

