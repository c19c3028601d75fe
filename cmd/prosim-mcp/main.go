package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/prosim/internal/logger"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/internal/version"
	"github.com/ludo-technologies/prosim/mcp"
)

const serverName = "prosim"

func main() {
	configPath := pflag.StringP("config", "c", "", "Configuration file applied to every tool call (default: discover .prosim.toml)")
	metricsAddr := pflag.String("metrics-addr", "", "Serve Prometheus metrics on host:port")
	logLevel := pflag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := pflag.String("log-format", "text", "Log format: text, json")
	pflag.Parse()

	// stdout carries JSON-RPC, so logs go to stderr
	logger.Setup(*logLevel, *logFormat)

	m := metrics.New()
	if *metricsAddr != "" {
		shutdown, err := m.StartServer(*metricsAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies(*configPath, m))
	mcp.RegisterTools(server, handlers)

	slog.Info("starting MCP server", "name", serverName, "version", version.Short(), "tools", []string{"compute_similarity"})

	// Blocks until stdin closes
	if err := mcpserver.ServeStdio(server); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
