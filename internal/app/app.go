package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/handlers"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/services/agent"
	"github.com/ternarybob/oraculum/internal/services/documents"
	"github.com/ternarybob/oraculum/internal/services/embeddings"
	"github.com/ternarybob/oraculum/internal/services/events"
	"github.com/ternarybob/oraculum/internal/services/ingest"
	"github.com/ternarybob/oraculum/internal/services/llm"
	"github.com/ternarybob/oraculum/internal/services/websearch"
	"github.com/ternarybob/oraculum/internal/services/weather"
	badgerstore "github.com/ternarybob/oraculum/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event bus
	EventService interfaces.EventService

	// LLM and embeddings
	LLMService         interfaces.LLMService
	EmbeddingService   interfaces.EmbeddingService
	CoordinatorService *embeddings.CoordinatorService

	// Knowledge base
	DocumentService interfaces.DocumentService
	IngestService   interfaces.IngestService

	// External adapters
	WebSearchService interfaces.WebSearchService
	WeatherService   interfaces.WeatherService

	// Workflow
	AgentService interfaces.AgentService

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	AskHandler      *handlers.AskHandler
	DocumentHandler *handlers.DocumentHandler
	WSHandler       *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Storage first; everything else hangs off it
	storageManager, err := badgerstore.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	// Event bus before anything that publishes
	app.EventService = events.NewService(logger)

	// LLM provider factory and embeddings
	app.LLMService = llm.NewService(cfg, logger)
	app.EmbeddingService = embeddings.NewEmbeddingService(app.LLMService, &cfg.Gemini, logger)

	// Knowledge base services
	app.DocumentService = documents.NewDocumentService(storageManager.DocumentStorage(), app.EventService, logger)
	app.IngestService = ingest.NewService(app.DocumentService, logger)

	// Embedding coordinator picks up pending chunks on schedule
	app.CoordinatorService = embeddings.NewCoordinatorService(
		app.DocumentService,
		app.EmbeddingService,
		app.EventService,
		&cfg.Processing,
		logger,
	)

	// External adapters
	app.WebSearchService = websearch.NewService(&cfg.WebSearch, logger)
	app.WeatherService = weather.NewService(&cfg.Weather, logger)

	// The routed question-answering workflow
	retriever := agent.NewRetriever(app.EmbeddingService, app.DocumentService, &cfg.Retrieval, logger)
	assessor := agent.NewSufficiencyAssessor(app.LLMService, logger)
	synthesizer := agent.NewSynthesizer(app.LLMService, logger)
	app.AgentService = agent.NewService(
		retriever,
		assessor,
		synthesizer,
		app.WebSearchService,
		app.WeatherService,
		app.EventService,
		cfg,
		logger,
	)

	// HTTP handlers
	app.APIHandler = handlers.NewAPIHandler()
	app.AskHandler = handlers.NewAskHandler(app.AgentService, logger)
	app.DocumentHandler = handlers.NewDocumentHandler(app.DocumentService, app.IngestService, logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, &cfg.WebSocket, logger)

	logger.Info().Msg("Application initialized")
	return app, nil
}

// Start launches background services
func (a *App) Start() error {
	if err := a.CoordinatorService.Start(); err != nil {
		return fmt.Errorf("failed to start embedding coordinator: %w", err)
	}

	// Freshly ingested documents get embedded without waiting for the
	// next scheduled run
	err := a.EventService.Subscribe(interfaces.EventDocumentIngested, func(ctx context.Context, event interfaces.Event) error {
		a.CoordinatorService.RunNow()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe embedding coordinator: %w", err)
	}

	return nil
}

// Close shuts down all services in reverse initialization order
func (a *App) Close(ctx context.Context) error {
	a.CoordinatorService.Stop()

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
