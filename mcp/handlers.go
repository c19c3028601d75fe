package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/logger"
	"github.com/ludo-technologies/prosim/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleComputeSimilarity handles the compute_similarity tool
func (h *HandlerSet) HandleComputeSimilarity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok && om != "" {
		outputMode = om
	}
	if outputMode != "summary" && outputMode != "full" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported output_mode: %s (supported: summary, full)", outputMode)), nil
	}

	// Configuration for the corpus, then tool arguments on top
	req, err := h.deps.LoadRequest(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load configuration: %v", err)), nil
	}
	if err := applyArguments(req, args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.OutputPath = ""
	req.ShowRows = outputMode == "full"

	useCase, err := h.deps.BuildSimilarityUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create similarity use case: %v", err)), nil
	}

	result, err := useCase.ExecuteAndReturn(ctx, *req)
	if err != nil {
		logger.WithComponent("mcp").Warn("compute_similarity failed", "path", path, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("similarity analysis failed: %v", err)), nil
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = result
	default:
		responseData = formatSimilaritySummary(result)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyArguments overrides request fields with the optional tool arguments.
// JSON numbers arrive as float64.
func applyArguments(req *domain.SimilarityRequest, args map[string]interface{}) error {
	if v, ok := args["window_size"].(float64); ok {
		req.WindowSize = int(v)
	}
	if v, ok := args["weighting_power"].(float64); ok {
		req.WeightingPower = v
	}
	if v, ok := args["threads"].(float64); ok {
		req.Threads = int(v)
	}
	if v, ok := args["seed"].(float64); ok {
		if v < 0 {
			return fmt.Errorf("seed must be >= 0")
		}
		req.Seed = uint64(v)
	}
	if raw, ok := args["channels"].([]interface{}); ok && len(raw) > 0 {
		specs := make([]string, 0, len(raw))
		for _, item := range raw {
			spec, ok := item.(string)
			if !ok {
				return fmt.Errorf("channels must be an array of strings")
			}
			specs = append(specs, spec)
		}
		channels, err := service.ParseChannels(specs)
		if err != nil {
			return err
		}
		req.Channels = channels
	}
	return nil
}

// formatSimilaritySummary keeps statistics, the confusion matrix and
// per-document counts, and leaves out the rows
func formatSimilaritySummary(result *domain.SimilarityResponse) map[string]interface{} {
	documents := make([]map[string]interface{}, 0, len(result.Documents))
	for _, doc := range result.Documents {
		documents = append(documents, map[string]interface{}{
			"index":    doc.Index,
			"name":     doc.Name,
			"phonemes": doc.Phonemes,
			"phrases":  doc.Phrases,
			"windows":  doc.Windows,
		})
	}

	return map[string]interface{}{
		"run_id":      result.RunID,
		"channels":    result.Channels,
		"documents":   documents,
		"confusion":   result.Confusion,
		"summary":     result.Summary,
		"statistics":  result.Statistics,
		"duration_ms": result.Duration,
		"version":     result.Version,
	}
}
