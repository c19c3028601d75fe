package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ComputeSimilarityTool describes the compute_similarity tool
func ComputeSimilarityTool() mcp.Tool {
	return mcp.NewTool("compute_similarity",
		mcp.WithDescription("Compute window-level prosodic similarity between every pair of documents in a corpus, with a confusion matrix of best-matching documents"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Corpus file or directory (.csv, .tsv, .json, .yaml documents)")),
		mcp.WithNumber("window_size",
			mcp.Description("Window size in phonemes (default: from config, 8)")),
		mcp.WithNumber("weighting_power",
			mcp.Description("Exponent applied to the normalized window score (default: from config, 4.0)")),
		mcp.WithNumber("threads",
			mcp.Description("Solver worker threads, 0 = one per CPU (default: 0)")),
		mcp.WithNumber("seed",
			mcp.Description("Tie-break seed for reproducible results, 0 = random (default: 0)")),
		mcp.WithArray("channels",
			mcp.WithStringItems(),
			mcp.Description("Feature channels as name or name:weight, in tuple order (default: from config)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary: statistics and confusion matrix; full: the whole response including per-position rows (default: summary)")),
	)
}

// RegisterTools registers all prosim MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(ComputeSimilarityTool(), h.HandleComputeSimilarity)
}
