package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantSufficient bool
		wantErr        error
	}{
		{"plain sufficient", "SUFFICIENT", true, nil},
		{"sufficient with rationale", "SUFFICIENT\nThe passages cover the question directly.", true, nil},
		{"plain insufficient", "INSUFFICIENT", false, nil},
		{"insufficient with rationale", "INSUFFICIENT\nNo passage mentions the topic.", false, nil},
		{"lowercase sufficient", "sufficient", true, nil},
		{"yes prefix", "Yes, the context answers the question.", true, nil},
		{"no prefix", "No, the context does not cover this.", false, nil},
		{"not sufficient phrasing", "The context is not sufficient to answer.", false, nil},
		{"verdict buried in prose", "Based on my review, the passages are sufficient to answer.", true, nil},
		{"ambiguous reply", "I cannot determine this.", false, interfaces.ErrParseAmbiguous},
		{"empty reply", "", false, interfaces.ErrParseAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseVerdict(tt.reply)
			if verdict == nil {
				t.Fatal("parseVerdict returned nil verdict")
			}
			if verdict.IsSufficient != tt.wantSufficient {
				t.Errorf("IsSufficient = %v, want %v", verdict.IsSufficient, tt.wantSufficient)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseVerdict_AmbiguityNeverSufficient(t *testing.T) {
	replies := []string{
		"Maybe.",
		"It depends on the question.",
		"###",
	}
	for _, reply := range replies {
		verdict, err := parseVerdict(reply)
		if verdict.IsSufficient {
			t.Errorf("parseVerdict(%q) judged sufficient, ambiguity must degrade to insufficient", reply)
		}
		if !errors.Is(err, interfaces.ErrParseAmbiguous) {
			t.Errorf("parseVerdict(%q) error = %v, want ErrParseAmbiguous", reply, err)
		}
	}
}

func TestAssess_NoPassages(t *testing.T) {
	llm := &stubLLM{
		completeFn: func(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
			t.Fatal("LLM must not be called when no passages were retrieved")
			return "", nil
		},
	}
	assessor := NewSufficiencyAssessor(llm, common.GetLogger())

	verdict, err := assessor.Assess(context.Background(), "any question", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsSufficient {
		t.Error("zero passages must be judged insufficient")
	}
}

func TestAssess_LLMFailure(t *testing.T) {
	llm := &stubLLM{
		completeFn: func(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
			return "", errors.New("rate limited")
		},
	}
	assessor := NewSufficiencyAssessor(llm, common.GetLogger())

	passages := []models.RetrievedPassage{{Content: "some passage", SimilarityScore: 0.8}}
	verdict, err := assessor.Assess(context.Background(), "question", passages)
	if !errors.Is(err, interfaces.ErrLLMUnavailable) {
		t.Errorf("error = %v, want ErrLLMUnavailable", err)
	}
	if verdict == nil || verdict.IsSufficient {
		t.Error("LLM failure must degrade to an insufficient verdict")
	}
}
