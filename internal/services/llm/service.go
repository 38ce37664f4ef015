package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

// Service provides content generation and embeddings through the
// configured provider factory.
type Service struct {
	factory *ProviderFactory
	config  *common.Config
	logger  arbor.ILogger
}

// NewService creates an LLM service backed by the provider factory.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	factory := NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)
	return &Service{
		factory: factory,
		config:  config,
		logger:  logger,
	}
}

// Complete generates a completion for the given request using the
// default provider and model from configuration.
func (s *Service) Complete(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
	if req == nil || req.Prompt == "" {
		return "", fmt.Errorf("completion request requires a prompt")
	}

	contentReq := &ContentRequest{
		Prompt:            req.Prompt,
		SystemInstruction: req.System,
		MaxTokens:         req.MaxTokens,
		Temperature:       req.Temperature,
	}

	resp, err := s.factory.GenerateContent(ctx, contentReq)
	if err != nil {
		return "", err
	}

	s.logger.Debug().
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Int("response_chars", len(resp.Text)).
		Msg("Completion generated")

	return resp.Text, nil
}

// Embed generates an embedding vector for the given text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	return s.factory.Embed(ctx, text)
}

// HealthCheck verifies at least one provider is configured.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.config.Gemini.APIKey == "" && s.config.Claude.APIKey == "" {
		return fmt.Errorf("no LLM provider configured")
	}
	return nil
}

// Close releases provider clients.
func (s *Service) Close() error {
	return s.factory.Close()
}
