package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/oraculum/internal/app"
	"github.com/ternarybob/oraculum/internal/common"
)

func main() {
	configPath := os.Getenv("ORACULUM_CONFIG")
	if configPath == "" {
		configPath = "oraculum.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Close(ctx)
	}()

	mcpServer := server.NewMCPServer(
		"oraculum",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAskTool(), handleAsk(application.AgentService, logger))
	mcpServer.AddTool(createSearchDocumentsTool(), handleSearchDocuments(application.EmbeddingService, application.DocumentService, logger))
	mcpServer.AddTool(createGetDocumentTool(), handleGetDocument(application.DocumentService, logger))
	mcpServer.AddTool(createKnowledgeStatsTool(), handleKnowledgeStats(application.DocumentService, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
