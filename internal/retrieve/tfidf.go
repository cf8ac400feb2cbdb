package retrieve

import (
	"math"
	"strings"
	"unicode"
)

// Tokenize lowercases text, replaces punctuation with spaces, and splits on
// whitespace
func Tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(mapped)
}

// termFrequencies returns term count / document length per term
func termFrequencies(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	total := float64(len(tokens))
	for t, c := range counts {
		counts[t] = c / total
	}
	return counts
}

// inverseDocFrequencies returns ln(total docs / docs containing term) per
// term across the corpus
func inverseDocFrequencies(documents [][]string) map[string]float64 {
	if len(documents) == 0 {
		return nil
	}

	docFreq := make(map[string]float64)
	for _, doc := range documents {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	total := float64(len(documents))
	idf := make(map[string]float64, len(docFreq))
	for t, freq := range docFreq {
		idf[t] = math.Log(total / freq)
	}
	return idf
}

// tfidfVector builds the sparse tf×idf weight vector for one document
func tfidfVector(tokens []string, idf map[string]float64) map[string]float64 {
	tf := termFrequencies(tokens)
	vec := make(map[string]float64, len(tf))
	for t, score := range tf {
		vec[t] = score * idf[t]
	}
	return vec
}

// cosine returns the cosine similarity of two sparse vectors, 0 when either
// is empty or has zero magnitude
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	for t, av := range a {
		if bv, ok := b[t]; ok {
			dot += av * bv
		}
	}

	var magA, magB float64
	for _, v := range a {
		magA += v * v
	}
	for _, v := range b {
		magB += v * v
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
