package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// formatAskResult formats an answer plus its decision trace as markdown
func formatAskResult(result *interfaces.AskResult) string {
	var sb strings.Builder
	sb.WriteString(result.Response)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(fmt.Sprintf("**Route:** %s\n\n", result.Route))
	sb.WriteString("**Decision trace:**\n")
	for _, event := range result.TraceEvents {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", event.Step, event.NodeName, event.Description))
	}
	return sb.String()
}

// formatSearchResults formats scored passages as markdown
func formatSearchResults(query string, chunks []*models.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\" (%d passages)\n\n", query, len(chunks)))

	if len(chunks) == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}

	for i, scored := range chunks {
		sb.WriteString(fmt.Sprintf("### %d. Similarity %.3f\n", i+1, scored.Score))
		sb.WriteString(fmt.Sprintf("**Document:** %s (chunk %d)\n\n", scored.Chunk.DocumentID, scored.Chunk.Index))

		content := scored.Chunk.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		sb.WriteString(content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// formatDocument formats a single document record as markdown
func formatDocument(doc *models.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("**Source:** %s (%s)\n", doc.SourceType, doc.Filename))
	sb.WriteString(fmt.Sprintf("**Chunks:** %d\n", doc.ChunkCount))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n", doc.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Updated:** %s\n", doc.UpdatedAt.Format(time.RFC3339)))
	return sb.String()
}

// formatStats formats knowledge base statistics as markdown
func formatStats(stats *models.DocumentStats) string {
	var sb strings.Builder
	sb.WriteString("## Knowledge Base Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Documents:** %d\n", stats.TotalDocuments))
	sb.WriteString(fmt.Sprintf("- **Chunks:** %d\n", stats.TotalChunks))
	sb.WriteString(fmt.Sprintf("- **Embedded chunks:** %d\n", stats.EmbeddedChunks))
	sb.WriteString(fmt.Sprintf("- **Pending chunks:** %d\n", stats.PendingChunks))
	for sourceType, count := range stats.DocumentsBySource {
		sb.WriteString(fmt.Sprintf("- **%s documents:** %d\n", sourceType, count))
	}
	if !stats.LastUpdated.IsZero() {
		sb.WriteString(fmt.Sprintf("\nLast updated: %s\n", stats.LastUpdated.Format(time.RFC3339)))
	}
	return sb.String()
}
