package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const threeParagraphs = "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

func TestTextEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n\n"} {
		if got := Text(input, DefaultOptions()); len(got) != 0 {
			t.Errorf("Text(%q) = %d passages, want 0", input, len(got))
		}
	}
}

func TestTextOverlapChunking(t *testing.T) {
	passages := Text(threeParagraphs, Options{OverlapParagraphs: 1})
	if len(passages) != 3 {
		t.Fatalf("expected 3 passages, got %d", len(passages))
	}

	wantTexts := []string{
		"First paragraph.",
		"First paragraph.\n\nSecond paragraph.",
		"Second paragraph.\n\nThird paragraph.",
	}
	for i, want := range wantTexts {
		if passages[i].Text != want {
			t.Errorf("passage %d text = %q, want %q", i, passages[i].Text, want)
		}
		if passages[i].Position != i {
			t.Errorf("passage %d position = %d", i, passages[i].Position)
		}
	}
}

func TestTextNoOverlap(t *testing.T) {
	passages := Text(threeParagraphs, Options{OverlapParagraphs: 0})
	for i, want := range []string{"First paragraph.", "Second paragraph.", "Third paragraph."} {
		if passages[i].Text != want {
			t.Errorf("passage %d text = %q, want %q", i, passages[i].Text, want)
		}
	}
}

func TestTextCharOffsets(t *testing.T) {
	passages := Text(threeParagraphs, Options{OverlapParagraphs: 1})

	// The span covers the overlap window in the original source.
	if got := threeParagraphs[passages[1].CharStart:passages[1].CharEnd]; got != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("passage 1 span = %q", got)
	}
	if got := threeParagraphs[passages[2].CharStart:passages[2].CharEnd]; got != "Second paragraph.\n\nThird paragraph." {
		t.Errorf("passage 2 span = %q", got)
	}
}

func TestTextRepeatedParagraphOffsets(t *testing.T) {
	source := "Same line.\n\nSame line."
	passages := Text(source, Options{OverlapParagraphs: 0})
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].CharStart == passages[1].CharStart {
		t.Errorf("repeated paragraphs mapped to the same span: %d", passages[0].CharStart)
	}
}

func TestTextIdempotent(t *testing.T) {
	first := Text(threeParagraphs, DefaultOptions())
	second := Text(threeParagraphs, DefaultOptions())

	if !reflect.DeepEqual(first, second) {
		t.Error("ingestion of identical input produced different passage sets")
	}

	seen := make(map[string]bool)
	for _, p := range first {
		if !strings.HasPrefix(p.ChunkID, "chunk_") || len(p.ChunkID) != len("chunk_")+16 {
			t.Errorf("unexpected chunk id format: %q", p.ChunkID)
		}
		if seen[p.ChunkID] {
			t.Errorf("duplicate chunk id %q", p.ChunkID)
		}
		seen[p.ChunkID] = true
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "absent.txt"), DefaultOptions()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFilePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novel.txt")
	if err := os.WriteFile(path, []byte(threeParagraphs), 0o644); err != nil {
		t.Fatal(err)
	}

	passages, err := File(path, DefaultOptions())
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if len(passages) != 3 {
		t.Errorf("expected 3 passages, got %d", len(passages))
	}
}

func TestFileHTML(t *testing.T) {
	source := `<html><body>
<p>First paragraph.</p>
<script>var tracking = true;</script>
<p>Second paragraph.</p>
</body></html>`

	path := filepath.Join(t.TempDir(), "novel.html")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	passages, err := File(path, DefaultOptions())
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d: %+v", len(passages), passages)
	}

	joined := passages[len(passages)-1].Text
	if !strings.Contains(joined, "First paragraph.") || !strings.Contains(joined, "Second paragraph.") {
		t.Errorf("visible text missing: %q", joined)
	}
	for _, p := range passages {
		if strings.Contains(p.Text, "tracking") {
			t.Errorf("script content leaked into passage: %q", p.Text)
		}
	}
}
