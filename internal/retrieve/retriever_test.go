package retrieve

import (
	"reflect"
	"testing"

	"github.com/ppiankov/fabula/internal/model"
)

func passage(id string, position int, text string) model.Passage {
	return model.Passage{ChunkID: id, Position: position, Text: text}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"snake_case stays; punctuation-goes", []string{"snake_case", "stays", "punctuation", "goes"}},
	}

	for _, tt := range tests {
		if got := Tokenize(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	for _, empty := range []string{"", "...", "  \t "} {
		if got := Tokenize(empty); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", empty, got)
		}
	}
}

func TestRetrieveEmptyNarrative(t *testing.T) {
	r := NewRetriever(5)
	if got := r.Retrieve("he crossed the desert", nil); got != nil {
		t.Errorf("expected nil for empty narrative, got %v", got)
	}
}

func TestRetrieveEmptyClaim(t *testing.T) {
	r := NewRetriever(5)
	passages := []model.Passage{
		passage("chunk_a", 0, "The caravan moved at dawn."),
		passage("chunk_b", 1, "Water was scarce in the dunes."),
	}

	evidence := r.Retrieve("", passages)
	if len(evidence) != 2 {
		t.Fatalf("expected 2 evidence items, got %d", len(evidence))
	}
	for _, ev := range evidence {
		if ev.RelevanceScore != 0 {
			t.Errorf("empty claim scored %g against %s, want 0", ev.RelevanceScore, ev.ChunkID)
		}
	}
}

func TestRetrieveRanksByRelevance(t *testing.T) {
	r := NewRetriever(5)
	passages := []model.Passage{
		passage("chunk_off", 0, "The fleet anchored in the harbor before the storm."),
		passage("chunk_on", 1, "He crossed the burning desert alone on foot."),
	}

	evidence := r.Retrieve("he crossed the desert", passages)
	if len(evidence) != 2 {
		t.Fatalf("expected 2 evidence items, got %d", len(evidence))
	}
	if evidence[0].ChunkID != "chunk_on" {
		t.Errorf("top evidence = %s, want chunk_on", evidence[0].ChunkID)
	}
	if evidence[0].RelevanceScore <= evidence[1].RelevanceScore {
		t.Errorf("scores not descending: %g then %g", evidence[0].RelevanceScore, evidence[1].RelevanceScore)
	}
}

func TestRetrieveOverlapMonotonicity(t *testing.T) {
	r := NewRetriever(5)
	passages := []model.Passage{
		passage("chunk_two", 0, "desert crossing stories"),
		passage("chunk_one", 1, "desert winds howled"),
	}

	evidence := r.Retrieve("desert crossing", passages)
	if evidence[0].ChunkID != "chunk_two" {
		t.Errorf("passage with more shared terms ranked %s first, want chunk_two", evidence[0].ChunkID)
	}
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	r := NewRetriever(2)
	passages := []model.Passage{
		passage("chunk_a", 0, "the desert wind"),
		passage("chunk_b", 1, "the desert sun"),
		passage("chunk_c", 2, "the desert night"),
	}

	evidence := r.Retrieve("desert", passages)
	if len(evidence) != 2 {
		t.Errorf("expected topK=2 evidence items, got %d", len(evidence))
	}
}

func TestRetrieveStableTieBreak(t *testing.T) {
	r := NewRetriever(5)
	passages := []model.Passage{
		passage("chunk_first", 0, "the desert wind rose"),
		passage("chunk_second", 1, "the desert wind rose"),
	}

	evidence := r.Retrieve("desert wind", passages)
	if evidence[0].ChunkID != "chunk_first" || evidence[1].ChunkID != "chunk_second" {
		t.Errorf("tie between identical passages broke out of order: %s, %s",
			evidence[0].ChunkID, evidence[1].ChunkID)
	}
}

func TestNewRetrieverDefaultTopK(t *testing.T) {
	if r := NewRetriever(0); r.topK != DefaultTopK {
		t.Errorf("topK = %d, want %d", r.topK, DefaultTopK)
	}
	if r := NewRetriever(-3); r.topK != DefaultTopK {
		t.Errorf("topK = %d, want %d", r.topK, DefaultTopK)
	}
}

func TestCosineDegenerate(t *testing.T) {
	if got := cosine(nil, map[string]float64{"a": 1}); got != 0 {
		t.Errorf("cosine(nil, vec) = %g, want 0", got)
	}
	if got := cosine(map[string]float64{"a": 0}, map[string]float64{"a": 0}); got != 0 {
		t.Errorf("cosine of zero-magnitude vectors = %g, want 0", got)
	}
}
