package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/framework-progress/internal/adapters/mcp"
	"github.com/kirillkom/framework-progress/internal/bootstrap"
	"github.com/kirillkom/framework-progress/internal/config"
	"github.com/kirillkom/framework-progress/internal/observability/logging"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "framework-progress mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	// stdout carries the MCP protocol.
	logger := logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	return server.ServeStdio(mcpadapter.NewServer(version, app.Dashboards))
}
