// Package ingest turns a narrative source file into an ordered collection of
// overlapping paragraph-based passages with stable ids and character offsets.
// Ingestion is idempotent: the same source and options always produce the
// same passage set.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/fabula/internal/model"
	"golang.org/x/net/html"
)

// Options configures ingestion
type Options struct {
	// OverlapParagraphs is how many preceding paragraphs each passage
	// carries in addition to its own.
	OverlapParagraphs int
}

// DefaultOptions returns the default ingestion options
func DefaultOptions() Options {
	return Options{OverlapParagraphs: 1}
}

// File reads a narrative source and chunks it into passages. HTML sources
// (.html, .htm) are reduced to visible text first. Fails only when the
// source is unreadable.
func File(path string, opts Options) ([]model.Passage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read narrative: %w", err)
	}

	text := string(raw)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = visibleText(text)
		if err != nil {
			return nil, fmt.Errorf("parse narrative html: %w", err)
		}
	}

	return Text(text, opts), nil
}

// Text chunks narrative text into overlapping passages
func Text(text string, opts Options) []model.Passage {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	offsets := paragraphOffsets(text, paragraphs)

	overlap := opts.OverlapParagraphs
	if overlap < 0 {
		overlap = 0
	}

	passages := make([]model.Passage, len(paragraphs))
	for i := range paragraphs {
		start := i - overlap
		if start < 0 {
			start = 0
		}

		chunkText := strings.Join(paragraphs[start:i+1], "\n\n")
		passages[i] = model.Passage{
			ChunkID:   chunkID(chunkText, i),
			Position:  i,
			Text:      chunkText,
			CharStart: offsets[start][0],
			CharEnd:   offsets[i][1],
		}
	}

	return passages
}

// splitParagraphs splits on blank lines and drops empty paragraphs
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// paragraphOffsets locates each paragraph's character span in the source.
// Search resumes past the previous paragraph so repeated paragraphs map to
// distinct spans.
func paragraphOffsets(text string, paragraphs []string) [][2]int {
	offsets := make([][2]int, len(paragraphs))
	searchStart := 0

	for i, p := range paragraphs {
		start := strings.Index(text[searchStart:], p)
		if start < 0 {
			start = searchStart
		} else {
			start += searchStart
		}
		end := start + len(p)
		offsets[i] = [2]int{start, end}
		searchStart = end
	}

	return offsets
}

// chunkID derives a stable identifier from the chunk text and its position
func chunkID(text string, position int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", text, position)))
	return "chunk_" + hex.EncodeToString(sum[:])[:16]
}

// visibleText extracts text nodes from HTML, skipping scripts and styles,
// and keeps paragraph breaks so chunking still sees blank lines
func visibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li":
				buf.WriteString("\n\n")
			}
		}
	}

	walk(doc)
	return buf.String(), nil
}
