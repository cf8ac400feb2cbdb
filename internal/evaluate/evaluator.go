// Package evaluate classifies retrieved evidence as supporting or
// contradicting a claim and produces per-claim verdicts.
package evaluate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/fabula/internal/model"
)

// Thresholds controls the pattern-matching evaluator. Zero values fall back
// to the documented defaults.
type Thresholds struct {
	SupportOverlap       float64 // Min overlap ratio for support (default 0.25)
	ContradictionOverlap float64 // Min overlap ratio for negation-based contradiction (default 0.2)
	ContrastOverlap      float64 // Min overlap ratio for contrast-keyword contradiction (default 0.15)
	NegationWindow       int     // Chars around an overlapping token (default 50)
	MinSupport           int     // Supporting items required for PASS (default 2)
}

func (t Thresholds) withDefaults() Thresholds {
	if t.SupportOverlap == 0 {
		t.SupportOverlap = 0.25
	}
	if t.ContradictionOverlap == 0 {
		t.ContradictionOverlap = 0.2
	}
	if t.ContrastOverlap == 0 {
		t.ContrastOverlap = 0.15
	}
	if t.NegationWindow == 0 {
		t.NegationWindow = 50
	}
	if t.MinSupport == 0 {
		t.MinSupport = 2
	}
	return t
}

// Evaluator decides whether evidence supports or contradicts a claim
type Evaluator struct {
	thresholds Thresholds
	negation   []*regexp.Regexp
	contrast   []string
}

// NewEvaluator creates a new evaluator
func NewEvaluator(thresholds Thresholds) *Evaluator {
	negationPatterns := []string{
		`\bnot\b`, `\bnever\b`, `\bno\b`, `\bnone\b`,
		`\bneither\b`, `\bnor\b`, `\bwithout\b`,
		`\brefuse[sd]?\b`, `\bdenie[sd]?\b`, `\breject[sed]?\b`,
		`\boppose[sd]?\b`, `\bagainst\b`, `\bcontra\w*\b`,
	}
	negation := make([]*regexp.Regexp, len(negationPatterns))
	for i, p := range negationPatterns {
		negation[i] = regexp.MustCompile(p)
	}

	return &Evaluator{
		thresholds: thresholds.withDefaults(),
		negation:   negation,
		contrast: []string{
			"contrary", "opposite", "however", "but", "although",
			"despite", "instead", "rather", "unlike", "whereas",
		},
	}
}

// Evaluate classifies each evidence item as contradicting, supporting, or
// irrelevant, then derives the verdict: FAIL on any contradiction, PASS on
// enough support, UNKNOWN otherwise. No evidence or an empty claim
// short-circuits to UNKNOWN.
func (e *Evaluator) Evaluate(claim model.Claim, evidence []model.EvidenceItem) model.Verdict {
	verdict := model.Verdict{
		ClaimID:          claim.ID,
		Status:           model.StatusUnknown,
		CoreTrait:        claim.CoreTrait,
		ImportanceWeight: claim.ImportanceWeight,
	}

	if strings.TrimSpace(claim.Text) == "" || len(evidence) == 0 {
		return verdict
	}

	claimTokens := matchTokens(claim.Text)
	for _, ev := range evidence {
		if ev.Text == "" {
			continue
		}
		switch {
		case e.contradicts(claimTokens, ev.Text):
			verdict.Contradicting = append(verdict.Contradicting, ev)
		case e.supports(claimTokens, ev.Text):
			verdict.Supporting = append(verdict.Supporting, ev)
		}
	}

	switch {
	case len(verdict.Contradicting) > 0:
		verdict.Status = model.StatusFail
	case len(verdict.Supporting) >= e.thresholds.MinSupport:
		verdict.Status = model.StatusPass
	}

	return verdict
}

// matchTokens extracts the claim tokens used for overlap: lowercased words
// longer than 2 characters
func matchTokens(text string) map[string]bool {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	tokens := make(map[string]bool)
	for _, t := range strings.Fields(mapped) {
		if len(t) > 2 {
			tokens[t] = true
		}
	}
	return tokens
}

// overlap returns the shared tokens and the ratio of shared tokens to claim
// tokens
func overlap(claimTokens map[string]bool, evidenceText string) (map[string]bool, float64) {
	if len(claimTokens) == 0 {
		return nil, 0
	}

	evidenceTokens := matchTokens(evidenceText)
	shared := make(map[string]bool)
	for t := range claimTokens {
		if evidenceTokens[t] {
			shared[t] = true
		}
	}
	return shared, float64(len(shared)) / float64(len(claimTokens))
}

// contradicts reports whether the evidence contradicts the claim: enough
// overlap with a negation marker near an overlapping token, or moderate
// overlap with a contrast keyword anywhere in the evidence
func (e *Evaluator) contradicts(claimTokens map[string]bool, evidenceText string) bool {
	shared, ratio := overlap(claimTokens, evidenceText)
	lower := strings.ToLower(evidenceText)

	if ratio > e.thresholds.ContradictionOverlap && e.negationNearOverlap(lower, shared) {
		return true
	}

	if ratio > e.thresholds.ContrastOverlap {
		for _, keyword := range e.contrast {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}

	return false
}

// supports reports whether the evidence supports the claim: enough overlap
// and no negation marker in scope of an overlapping token. Evidence that
// negates elsewhere still supports when the window check rules the negation
// out of scope.
func (e *Evaluator) supports(claimTokens map[string]bool, evidenceText string) bool {
	shared, ratio := overlap(claimTokens, evidenceText)
	if ratio <= e.thresholds.SupportOverlap {
		return false
	}

	lower := strings.ToLower(evidenceText)
	if e.hasNegation(lower) && e.negationNearOverlap(lower, shared) {
		return false
	}
	return true
}

// negationNearOverlap looks for a negation marker within the configured
// window around the first occurrence of any overlapping token
func (e *Evaluator) negationNearOverlap(evidenceLower string, shared map[string]bool) bool {
	window := e.thresholds.NegationWindow
	for token := range shared {
		pos := strings.Index(evidenceLower, token)
		if pos < 0 {
			continue
		}
		start := pos - window
		if start < 0 {
			start = 0
		}
		end := pos + window
		if end > len(evidenceLower) {
			end = len(evidenceLower)
		}
		if e.hasNegation(evidenceLower[start:end]) {
			return true
		}
	}
	return false
}

func (e *Evaluator) hasNegation(textLower string) bool {
	for _, p := range e.negation {
		if p.MatchString(textLower) {
			return true
		}
	}
	return false
}
