package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/mcp"
	"github.com/ludo-technologies/prosim/service"
)

func setupCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.csv":        "phrase,pos\np1,A\np1,A\np1,B\np1,B\n",
		"b.csv":        "phrase,pos\np1,A\np1,A\np1,A\np1,A\n",
		".prosim.toml": "[engine]\nwindow_size = 2\nweighting_power = 1.0\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runToolTest(t *testing.T, m *metrics.Metrics, arguments interface{}) *mcplib.CallToolResult {
	t.Helper()
	deps := mcp.NewTestDependencies(service.NewCorpusReader(), "", m)
	h := mcp.NewHandlerSet(deps)

	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      "compute_similarity",
			Arguments: arguments,
		},
	}

	res, err := h.HandleComputeSimilarity(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleComputeSimilarity_Summary(t *testing.T) {
	m := metrics.New()
	res := runToolTest(t, m, map[string]interface{}{
		"path":     setupCorpus(t),
		"channels": []interface{}{"pos"},
		"seed":     float64(7),
		"threads":  float64(1),
	})
	require.False(t, res.IsError, resultText(t, res))

	var summary struct {
		RunID     string    `json:"run_id"`
		Confusion [][]int64 `json:"confusion"`
		Documents []struct {
			Name    string `json:"name"`
			Windows int    `json:"windows"`
		} `json:"documents"`
		Statistics domain.SimilarityStatistics `json:"statistics"`
		Rows       interface{}                 `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, [][]int64{{2, 1}, {0, 3}}, summary.Confusion)
	require.Len(t, summary.Documents, 2)
	assert.Equal(t, "a", summary.Documents[0].Name)
	assert.Equal(t, 3, summary.Documents[0].Windows)
	assert.Equal(t, 6, summary.Statistics.Problems)
	assert.Equal(t, uint64(7), summary.Statistics.Seed)
	assert.Nil(t, summary.Rows)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `prosim_runs_total{outcome="success"} 1`)
}

func TestHandleComputeSimilarity_Full(t *testing.T) {
	res := runToolTest(t, nil, map[string]interface{}{
		"path":            setupCorpus(t),
		"channels":        []interface{}{"pos:2"},
		"window_size":     float64(3),
		"weighting_power": float64(2),
		"seed":            float64(1),
		"output_mode":     "full",
	})
	require.False(t, res.IsError, resultText(t, res))

	var resp domain.SimilarityResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, []domain.Channel{{Name: "pos", Weight: 2}}, resp.Channels)
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, 2, resp.Documents[0].Windows)
	assert.Len(t, resp.Documents[0].Rows, 4)
}

func TestHandleComputeSimilarity_Errors(t *testing.T) {
	corpus := setupCorpus(t)

	tests := []struct {
		name      string
		arguments interface{}
		want      string
	}{
		{"invalid arguments", "not-a-map", "invalid arguments format"},
		{"missing path", map[string]interface{}{}, "path parameter is required"},
		{"missing directory", map[string]interface{}{"path": filepath.Join(corpus, "nope")}, "path does not exist"},
		{"bad output mode", map[string]interface{}{"path": corpus, "output_mode": "detailed"}, "unsupported output_mode"},
		{"bad channel", map[string]interface{}{"path": corpus, "channels": []interface{}{"pos:x"}}, "weight must be an integer"},
		{"negative seed", map[string]interface{}{"path": corpus, "seed": float64(-1)}, "seed must be >= 0"},
		{"bad window", map[string]interface{}{"path": corpus, "channels": []interface{}{"pos"}, "window_size": float64(0)}, "window_size must be >= 1"},
		{"missing channel column", map[string]interface{}{"path": corpus, "channels": []interface{}{"tone"}}, "similarity analysis failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runToolTest(t, nil, tt.arguments)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestComputeSimilarityTool_Schema(t *testing.T) {
	tool := mcp.ComputeSimilarityTool()

	assert.Equal(t, "compute_similarity", tool.Name)
	assert.Equal(t, []string{"path"}, tool.InputSchema.Required)
	for _, prop := range []string{"path", "window_size", "weighting_power", "threads", "seed", "channels", "output_mode"} {
		assert.Contains(t, tool.InputSchema.Properties, prop)
	}
}
