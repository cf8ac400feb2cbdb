package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/fabula/internal/model"
)

// Error reports a claim that failed validation. Index is the position of the
// offending claim in the set (-1 for set-level failures); Field names the
// offending attribute when one can be singled out.
type Error struct {
	Index   int
	Field   string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("claim %d validation failed on field %q: %s", e.Index, e.Field, e.Message)
	case e.Index >= 0:
		return fmt.Sprintf("claim %d validation failed: %s", e.Index, e.Message)
	default:
		return e.Message
	}
}

func newError(index int, field, format string, args ...interface{}) *Error {
	return &Error{Index: index, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validator enforces the claim schema and atomicity invariants. It is the
// gate that guarantees every claim reaching retrieval is a single assertion.
type Validator struct {
	strongCompound     []*regexp.Regexp
	compoundIndicators []*regexp.Regexp
	sentenceBoundary   *regexp.Regexp
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		// Two verb phrases joined by "and" or comma-and: a compound claim
		// no matter how few separators it contains.
		strongCompound: []*regexp.Regexp{
			regexp.MustCompile(`\w+\s+and\s+\w+\s+(is|was|are|were|has|have|had|does|did|will|would|can|could)\b`),
			regexp.MustCompile(`\b(is|was|are|were|has|have|had)\s+\w+.*,\s+and\s+(is|was|are|were|has|have|had)\b`),
		},
		// Weaker signals; two or more together fail atomicity.
		compoundIndicators: []*regexp.Regexp{
			regexp.MustCompile(`\band\s+(?:also|then|later)\b`),
			regexp.MustCompile(`\bbut\s+(?:also|then|later)\b`),
			regexp.MustCompile(`\bwhile\s+(?:also|simultaneously)\b`),
			regexp.MustCompile(`,\s+and\s+`),
			regexp.MustCompile(`,\s+but\s+`),
			regexp.MustCompile(`;\s*\w+`),
			regexp.MustCompile(`\.\s+\w+`),
		},
		sentenceBoundary: regexp.MustCompile(`[.!?]\s+[A-Z]`),
	}
}

// ValidateClaim checks a single claim against the schema invariants
func (v *Validator) ValidateClaim(c model.Claim, index int) error {
	if strings.TrimSpace(c.ID) == "" {
		return newError(index, "claim_id", "claim_id cannot be empty or whitespace")
	}
	if strings.TrimSpace(string(c.Type)) == "" {
		return newError(index, "claim_type", "claim_type cannot be empty")
	}
	if !c.Type.Valid() {
		return newError(index, "claim_type", "claim_type %q not in allowed categories", c.Type)
	}
	if strings.TrimSpace(c.Text) == "" {
		return newError(index, "claim_text", "claim_text cannot be empty or whitespace")
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return newError(index, "confidence", "confidence must be in range [0.0, 1.0], got %g", c.Confidence)
	}
	return v.checkAtomicity(c.Text, index)
}

// checkAtomicity rejects claim text that still reads as multiple assertions
func (v *Validator) checkAtomicity(text string, index int) error {
	lower := strings.ToLower(text)

	for _, p := range v.strongCompound {
		if p.MatchString(lower) {
			return newError(index, "claim_text",
				"claim_text appears to be compound (contains multiple independent clauses): %q", truncate(text, 100))
		}
	}

	indicators := 0
	for _, p := range v.compoundIndicators {
		if p.MatchString(lower) {
			indicators++
		}
	}
	if indicators >= 2 {
		return newError(index, "claim_text",
			"claim_text appears to be compound (multiple conjunctions/separators detected): %q", truncate(text, 100))
	}

	// Case-sensitive on purpose: a capital letter after terminal punctuation
	// marks a second sentence.
	if v.sentenceBoundary.MatchString(text) {
		return newError(index, "claim_text",
			"claim_text contains multiple sentences (not atomic): %q", truncate(text, 100))
	}

	return nil
}

// ValidateSet checks every claim plus the set-level invariants: the set must
// be non-empty and claim ids must be unique
func (v *Validator) ValidateSet(claims []model.Claim) error {
	if len(claims) == 0 {
		return newError(-1, "", "claims list cannot be empty")
	}

	for i, c := range claims {
		if err := v.ValidateClaim(c, i); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(claims))
	for i, c := range claims {
		if seen[c.ID] {
			return newError(i, "claim_id", "duplicate claim_id %q found", c.ID)
		}
		seen[c.ID] = true
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
