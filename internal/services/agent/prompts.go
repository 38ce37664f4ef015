package agent

import (
	"fmt"
	"strings"

	"github.com/ternarybob/oraculum/internal/models"
)

const sufficiencySystemPrompt = `You judge whether retrieved document passages contain enough information to answer a question. Reply on the first line with exactly SUFFICIENT or INSUFFICIENT, then give a one-sentence rationale on the next line.`

const synthesisSystemPrompt = `You answer questions using only the provided context. If the context does not contain the answer, say so plainly instead of guessing.`

const insufficientInfoAnswer = "I don't have enough information to answer that question. The knowledge base did not contain relevant material, and no other sources were available."

// buildSufficiencyPrompt embeds the query and concatenated passages for
// the binary sufficiency judgment.
func buildSufficiencyPrompt(query string, passages []models.RetrievedPassage) string {
	var b strings.Builder

	b.WriteString("Question:\n")
	b.WriteString(query)
	b.WriteString("\n\nRetrieved passages:\n")

	if len(passages) == 0 {
		b.WriteString("(none)\n")
	}
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d] (similarity %.2f)\n%s\n", i+1, p.SimilarityScore, p.Content)
	}

	b.WriteString("\nDo these passages contain enough information to answer the question?")
	return b.String()
}

// buildSynthesisPrompt assembles the final-answer prompt from whatever
// context the chosen route produced.
func buildSynthesisPrompt(query string, state *models.WorkflowState) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	wrote := false

	if len(state.Passages) > 0 {
		b.WriteString("\n## Knowledge base passages\n")
		for i, p := range state.Passages {
			fmt.Fprintf(&b, "\n[%d] %s\n", i+1, p.Content)
		}
		wrote = true
	}

	if len(state.SearchSnippets) > 0 {
		b.WriteString("\n## Web search results\n")
		for i, snippet := range state.SearchSnippets {
			fmt.Fprintf(&b, "\n[%d] %s\n", i+1, snippet)
		}
		wrote = true
	}

	if state.Weather != nil {
		fmt.Fprintf(&b, "\n## Current weather\nThe weather in %s is %s with %.1f°C.\n",
			state.Weather.Location, state.Weather.Condition, state.Weather.TemperatureCelsius)
		wrote = true
	}

	if !wrote {
		b.WriteString("(no context available)\n")
	}

	b.WriteString("\nQuestion:\n")
	b.WriteString(query)
	b.WriteString("\n\nAnswer the question using the context above.")
	return b.String()
}

// hasContext reports whether any source produced usable context.
func hasContext(state *models.WorkflowState) bool {
	return len(state.Passages) > 0 || len(state.SearchSnippets) > 0 || state.Weather != nil
}
