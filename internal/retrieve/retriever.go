// Package retrieve ranks narrative passages against a claim by TF-IDF cosine
// similarity. Scores are unbounded below and comparable only within one
// retrieval call.
package retrieve

import (
	"sort"

	"github.com/ppiankov/fabula/internal/model"
)

// DefaultTopK is the default number of passages returned per claim
const DefaultTopK = 6

// Retriever returns the top-K passages by lexical relevance to a claim
type Retriever struct {
	topK int
}

// NewRetriever creates a new retriever
func NewRetriever(topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{topK: topK}
}

// Retrieve scores every passage against the claim text and returns the top-K
// as evidence items, descending by similarity with a stable tie-break on
// passage order. Empty narratives yield an empty result; an empty claim
// scores zero against everything.
func (r *Retriever) Retrieve(claimText string, passages []model.Passage) []model.EvidenceItem {
	if len(passages) == 0 {
		return nil
	}

	claimTokens := Tokenize(claimText)
	passageTokens := make([][]string, len(passages))
	for i, p := range passages {
		passageTokens[i] = Tokenize(p.Text)
	}

	// The claim counts as a document so idf stays well-defined even for
	// singleton corpora.
	corpus := append(append([][]string{}, passageTokens...), claimTokens)
	idf := inverseDocFrequencies(corpus)

	claimVec := tfidfVector(claimTokens, idf)

	evidence := make([]model.EvidenceItem, len(passages))
	for i, p := range passages {
		evidence[i] = model.EvidenceItem{
			ChunkID:        p.ChunkID,
			Text:           p.Text,
			Position:       p.Position,
			RelevanceScore: cosine(claimVec, tfidfVector(passageTokens[i], idf)),
		}
	}

	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].RelevanceScore > evidence[j].RelevanceScore
	})

	if len(evidence) > r.topK {
		evidence = evidence[:r.topK]
	}
	return evidence
}
