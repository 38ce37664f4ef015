package embeddings

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

// CoordinatorService embeds pending chunks on a cron schedule. Chunks
// are saved with EmbeddingPending set at ingest time; the coordinator
// picks them up in batches so ingestion never blocks on the embedding
// API.
type CoordinatorService struct {
	documents interfaces.DocumentService
	embedder  interfaces.EmbeddingService
	events    interfaces.EventService
	config    *common.ProcessingConfig
	cron      *cron.Cron
	logger    arbor.ILogger
	mu        sync.Mutex
	running   bool
}

// NewCoordinatorService creates an embedding coordinator
func NewCoordinatorService(
	documents interfaces.DocumentService,
	embedder interfaces.EmbeddingService,
	events interfaces.EventService,
	config *common.ProcessingConfig,
	logger arbor.ILogger,
) *CoordinatorService {
	return &CoordinatorService{
		documents: documents,
		embedder:  embedder,
		events:    events,
		config:    config,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins scheduled embedding runs
func (s *CoordinatorService) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Embedding coordinator disabled")
		return nil
	}

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "*/5 * * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runBatch()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Embedding coordinator started")

	return nil
}

// Stop stops the scheduler
func (s *CoordinatorService) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Embedding coordinator stopped")
}

// RunNow triggers an immediate embedding run
func (s *CoordinatorService) RunNow() {
	go s.runBatch()
}

func (s *CoordinatorService) runBatch() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug().Msg("Embedding run already in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	limit := s.config.Limit
	if limit <= 0 {
		limit = 50
	}

	pending, err := s.documents.PendingChunks(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list pending chunks")
		return
	}
	if len(pending) == 0 {
		return
	}

	s.logger.Info().
		Int("pending", len(pending)).
		Msg("Starting embedding run")

	embedded := 0
	failed := 0

	for _, chunk := range pending {
		select {
		case <-ctx.Done():
			s.logger.Warn().
				Int("embedded", embedded).
				Int("remaining", len(pending)-embedded-failed).
				Msg("Embedding run timed out")
			return
		default:
		}

		if err := s.embedder.EmbedChunk(ctx, chunk); err != nil {
			s.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Failed to embed chunk")
			failed++
			continue
		}

		if err := s.documents.UpdateChunk(ctx, chunk); err != nil {
			s.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Failed to save embedded chunk")
			failed++
			continue
		}

		embedded++
	}

	s.logger.Info().
		Int("embedded", embedded).
		Int("failed", failed).
		Msg("Embedding run completed")

	if embedded > 0 && s.events != nil {
		_ = s.events.Publish(ctx, interfaces.Event{
			Type: interfaces.EventEmbeddingComplete,
			Payload: map[string]interface{}{
				"embedded": embedded,
				"failed":   failed,
			},
		})
	}
}
