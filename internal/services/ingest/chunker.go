package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	defaultMaxChunkChars = 1500
	minChunkChars        = 40
)

// Section is one heading-delimited span of a markdown document.
type Section struct {
	Heading string
	Content string
}

// Chunker splits document text into retrieval-sized passages. Markdown
// is split on headings first so a chunk never straddles two sections;
// oversized sections are split again on paragraph boundaries.
type Chunker struct {
	maxChars int
	md       goldmark.Markdown
}

// NewChunker creates a chunker with the given chunk size cap
func NewChunker(maxChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = defaultMaxChunkChars
	}
	return &Chunker{
		maxChars: maxChars,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// ChunkMarkdown splits markdown into passages, keeping each passage
// inside one heading section. The section heading is prepended to its
// chunks so retrieval keeps the context.
func (c *Chunker) ChunkMarkdown(markdown string) []string {
	sections := c.splitSections(markdown)

	var chunks []string
	for _, section := range sections {
		for _, piece := range c.splitByParagraphs(section.Content) {
			chunk := piece
			if section.Heading != "" {
				chunk = section.Heading + "\n\n" + piece
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// ChunkText splits plain text (PDF extraction output) on paragraph
// boundaries only.
func (c *Chunker) ChunkText(content string) []string {
	return c.splitByParagraphs(content)
}

// splitSections walks the goldmark AST and cuts the source at each
// heading.
func (c *Chunker) splitSections(markdown string) []Section {
	source := []byte(markdown)
	doc := c.md.Parser().Parse(text.NewReader(source))

	type headingMark struct {
		offset  int
		heading string
	}

	var marks []headingMark
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if h.Lines().Len() > 0 {
				seg := h.Lines().At(0)
				marks = append(marks, headingMark{
					offset:  seg.Start,
					heading: strings.TrimSpace(string(h.Text(source))),
				})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if len(marks) == 0 {
		content := strings.TrimSpace(markdown)
		if content == "" {
			return nil
		}
		return []Section{{Content: content}}
	}

	var sections []Section

	// Preamble before the first heading
	if pre := strings.TrimSpace(markdown[:lineStart(markdown, marks[0].offset)]); pre != "" {
		sections = append(sections, Section{Content: pre})
	}

	for i, mark := range marks {
		start := mark.offset
		end := len(markdown)
		if i+1 < len(marks) {
			end = lineStart(markdown, marks[i+1].offset)
		}

		body := markdown[start:end]
		// Drop the heading line itself; it is carried separately
		if idx := strings.Index(body, "\n"); idx >= 0 {
			body = body[idx+1:]
		} else {
			body = ""
		}

		body = strings.TrimSpace(body)
		if body == "" && mark.heading == "" {
			continue
		}
		sections = append(sections, Section{Heading: mark.heading, Content: body})
	}

	return sections
}

// splitByParagraphs packs paragraphs into chunks up to maxChars,
// hard-splitting any single paragraph that exceeds the cap.
func (c *Chunker) splitByParagraphs(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	paragraphs := strings.Split(content, "\n\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if len(chunk) >= minChunkChars {
			chunks = append(chunks, chunk)
		} else if chunk != "" && len(chunks) > 0 {
			chunks[len(chunks)-1] += "\n\n" + chunk
		} else if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > c.maxChars {
			flush()
			for _, piece := range hardSplit(para, c.maxChars) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > c.maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

// hardSplit cuts text at word boundaries near maxChars.
func hardSplit(content string, maxChars int) []string {
	var pieces []string
	words := strings.Fields(content)

	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+len(word)+1 > maxChars {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// lineStart returns the offset of the start of the line containing pos.
func lineStart(s string, pos int) int {
	if pos > len(s) {
		pos = len(s)
	}
	idx := strings.LastIndex(s[:pos], "\n")
	return idx + 1
}
