package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// SufficiencyAssessor asks the LLM whether retrieved passages can
// answer the query. An unparseable or failed judgment defaults to
// insufficient so the workflow degrades toward the fallback path.
type SufficiencyAssessor struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewSufficiencyAssessor creates a sufficiency assessor
func NewSufficiencyAssessor(llm interfaces.LLMService, logger arbor.ILogger) *SufficiencyAssessor {
	return &SufficiencyAssessor{llm: llm, logger: logger}
}

// Assess judges whether the passages suffice to answer the query.
// Returns ErrLLMUnavailable or ErrParseAmbiguous alongside a verdict
// the caller can still use; the verdict is never sufficient on error.
func (a *SufficiencyAssessor) Assess(ctx context.Context, query string, passages []models.RetrievedPassage) (*models.SufficiencyVerdict, error) {
	if len(passages) == 0 {
		return &models.SufficiencyVerdict{
			IsSufficient: false,
			Rationale:    "no passages were retrieved",
		}, nil
	}

	reply, err := a.llm.Complete(ctx, &interfaces.CompletionRequest{
		Prompt:    buildSufficiencyPrompt(query, passages),
		System:    sufficiencySystemPrompt,
		MaxTokens: 200,
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("Sufficiency check LLM call failed")
		return &models.SufficiencyVerdict{
			IsSufficient: false,
			Rationale:    "sufficiency check unavailable",
		}, fmt.Errorf("%w: %v", interfaces.ErrLLMUnavailable, err)
	}

	verdict, err := parseVerdict(reply)
	if err != nil {
		a.logger.Warn().Str("reply", truncate(reply, 200)).Msg("Ambiguous sufficiency reply, treating as insufficient")
		return verdict, err
	}

	return verdict, nil
}

// parseVerdict reads the model's free-text reply into a boolean,
// tolerating formatting variance. Ambiguous replies produce an
// insufficient verdict plus ErrParseAmbiguous; ambiguity is never
// treated as sufficient.
func parseVerdict(reply string) (*models.SufficiencyVerdict, error) {
	normalized := strings.ToLower(strings.TrimSpace(reply))

	rationale := ""
	if idx := strings.IndexByte(reply, '\n'); idx >= 0 {
		rationale = strings.TrimSpace(reply[idx+1:])
	}

	firstLine := normalized
	if idx := strings.IndexByte(normalized, '\n'); idx >= 0 {
		firstLine = strings.TrimSpace(normalized[:idx])
	}

	// Negative phrasings first: "insufficient" contains "sufficient".
	switch {
	case strings.Contains(firstLine, "insufficient"),
		strings.Contains(firstLine, "not sufficient"),
		strings.HasPrefix(firstLine, "no"):
		return &models.SufficiencyVerdict{IsSufficient: false, Rationale: rationale}, nil
	case strings.Contains(firstLine, "sufficient"),
		strings.HasPrefix(firstLine, "yes"):
		return &models.SufficiencyVerdict{IsSufficient: true, Rationale: rationale}, nil
	}

	// Fall back to scanning the whole reply
	switch {
	case strings.Contains(normalized, "insufficient"), strings.Contains(normalized, "not sufficient"):
		return &models.SufficiencyVerdict{IsSufficient: false, Rationale: rationale}, nil
	case strings.Contains(normalized, "sufficient"):
		return &models.SufficiencyVerdict{IsSufficient: true, Rationale: rationale}, nil
	}

	return &models.SufficiencyVerdict{
		IsSufficient: false,
		Rationale:    "verdict could not be parsed",
	}, interfaces.ErrParseAmbiguous
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
