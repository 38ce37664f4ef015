package agent

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// Synthesizer produces the final natural-language answer from whatever
// context the chosen route assembled.
type Synthesizer struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewSynthesizer creates an answer synthesizer
func NewSynthesizer(llm interfaces.LLMService, logger arbor.ILogger) *Synthesizer {
	return &Synthesizer{llm: llm, logger: logger}
}

// Synthesize always returns an answer string. Empty context produces an
// explicit insufficient-information answer instead of a model call; an
// LLM failure degrades to the same answer rather than aborting the run.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, state *models.WorkflowState) (string, error) {
	if !hasContext(state) {
		return insufficientInfoAnswer, nil
	}

	answer, err := s.llm.Complete(ctx, &interfaces.CompletionRequest{
		Prompt: buildSynthesisPrompt(query, state),
		System: synthesisSystemPrompt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Answer synthesis LLM call failed")
		return insufficientInfoAnswer, fmt.Errorf("%w: %v", interfaces.ErrLLMUnavailable, err)
	}

	if answer == "" {
		return insufficientInfoAnswer, nil
	}

	return answer, nil
}
