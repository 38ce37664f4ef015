package ingest

import (
	"strings"
	"testing"
)

func TestChunkMarkdown_Headings(t *testing.T) {
	markdown := `# Vacation Policy

Employees receive twenty days of paid vacation per year, accrued monthly from the start date.

# Sick Leave

Sick leave is unlimited but requires a doctor's note after three consecutive days of absence.
`

	chunker := NewChunker(0)
	chunks := chunker.ChunkMarkdown(markdown)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}

	if !strings.HasPrefix(chunks[0], "Vacation Policy") {
		t.Errorf("first chunk missing its heading: %q", chunks[0])
	}
	if !strings.Contains(chunks[0], "twenty days") {
		t.Errorf("first chunk missing its body: %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "Sick Leave") {
		t.Errorf("second chunk missing its heading: %q", chunks[1])
	}
	if strings.Contains(chunks[0], "doctor's note") {
		t.Errorf("chunk straddles two sections: %q", chunks[0])
	}
}

func TestChunkMarkdown_Preamble(t *testing.T) {
	markdown := `This document describes company policies in force from January 2026.

# Scope

All full-time employees are covered by the policies in this handbook.
`

	chunker := NewChunker(0)
	chunks := chunker.ChunkMarkdown(markdown)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "January 2026") {
		t.Errorf("preamble chunk missing: %q", chunks[0])
	}
	if strings.HasPrefix(chunks[0], "Scope") {
		t.Errorf("preamble chunk carries a heading it does not belong to")
	}
}

func TestChunkMarkdown_OversizedSection(t *testing.T) {
	paragraph := strings.Repeat("Remote work requires manager approval and a secure connection. ", 5)
	markdown := "# Remote Work\n\n" + paragraph + "\n\n" + paragraph + "\n\n" + paragraph

	chunker := NewChunker(400)
	chunks := chunker.ChunkMarkdown(markdown)

	if len(chunks) < 2 {
		t.Fatalf("oversized section not split: got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk, "Remote Work") {
			t.Errorf("chunk %d missing the section heading: %q", i, chunk)
		}
	}
}

func TestChunkMarkdown_Empty(t *testing.T) {
	chunker := NewChunker(0)
	if chunks := chunker.ChunkMarkdown(""); len(chunks) != 0 {
		t.Errorf("empty input produced %d chunks", len(chunks))
	}
	if chunks := chunker.ChunkMarkdown("   \n\n  "); len(chunks) != 0 {
		t.Errorf("whitespace input produced %d chunks", len(chunks))
	}
}

func TestChunkText_Paragraphs(t *testing.T) {
	para1 := strings.Repeat("First paragraph sentence. ", 10)
	para2 := strings.Repeat("Second paragraph sentence. ", 10)
	content := para1 + "\n\n" + para2

	chunker := NewChunker(300)
	chunks := chunker.ChunkText(content)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if !strings.Contains(chunks[0], "First paragraph") {
		t.Errorf("unexpected first chunk: %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "Second paragraph") {
		t.Errorf("unexpected second chunk: %q", chunks[1])
	}
}

func TestChunkText_PacksSmallParagraphs(t *testing.T) {
	content := "Alpha paragraph with enough words to matter here.\n\nBeta paragraph also with several words in it.\n\nGamma closes the document with one more line."

	chunker := NewChunker(1500)
	chunks := chunker.ChunkText(content)

	if len(chunks) != 1 {
		t.Fatalf("small paragraphs were not packed together: %d chunks", len(chunks))
	}
	for _, want := range []string{"Alpha", "Beta", "Gamma"} {
		if !strings.Contains(chunks[0], want) {
			t.Errorf("packed chunk missing %s: %q", want, chunks[0])
		}
	}
}

func TestHardSplit(t *testing.T) {
	content := strings.Repeat("word ", 100)
	pieces := hardSplit(strings.TrimSpace(content), 120)

	if len(pieces) < 2 {
		t.Fatalf("hardSplit did not split: %d pieces", len(pieces))
	}
	for i, piece := range pieces {
		if len(piece) > 120 {
			t.Errorf("piece %d exceeds the cap: %d chars", i, len(piece))
		}
		if strings.HasPrefix(piece, " ") || strings.HasSuffix(piece, " ") {
			t.Errorf("piece %d has ragged whitespace: %q", i, piece)
		}
	}
}
