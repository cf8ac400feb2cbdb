package decompose

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/fabula/internal/model"
)

// Decomposer splits backstory text into atomic claims
type Decomposer struct {
	categories    []categoryPatterns
	highCertainty []*regexp.Regexp
	hedging       []*regexp.Regexp
	coreTrait     []*regexp.Regexp
	segmentSplits []*regexp.Regexp
}

// categoryPatterns pairs a claim category with its keyword patterns.
// Categories are scored in slice order; ties resolve to the earliest entry.
type categoryPatterns struct {
	claimType model.ClaimType
	patterns  []*regexp.Regexp
}

// NewDecomposer creates a new decomposer
func NewDecomposer() *Decomposer {
	return &Decomposer{
		categories: []categoryPatterns{
			{model.ClaimEarlyLifeEvent, compileAll(
				`\bborn\b`, `\bchildhood\b`, `\byoung\b`, `\bgrowing\s+up\b`,
				`\bas\s+a\s+child\b`, `\bearly\s+years\b`, `\bfamily\b`,
				`\bparents?\b`, `\borphan\b`, `\bupbringing\b`,
			)},
			{model.ClaimFormativeExperience, compileAll(
				`\bexperienced\b`, `\bwitnessed\b`, `\bsurvived\b`, `\bendured\b`,
				`\bshaped\b`, `\bchanged\b`, `\blearned\b`, `\bdiscovered\b`,
				`\brealized\b`, `\btrauma\b`, `\bevent\b`, `\bmoment\b`,
			)},
			{model.ClaimBeliefAboutWorld, compileAll(
				`\bbelieves?\b`, `\bthinks?\b`, `\bviews?\b`, `\bsees?\s+the\s+world\b`,
				`\bconvinced\b`, `\bphilosophy\b`, `\bworldview\b`, `\bperspective\b`,
				`\btruth\b`, `\bprinciple\b`,
			)},
			{model.ClaimFearOrConstraint, compileAll(
				`\bfears?\b`, `\bafraid\b`, `\bterrified\b`, `\banxious\b`,
				`\bphobia\b`, `\bdreads?\b`, `\bhaunted\b`, `\btraumatized\b`,
				`\bcannot\b`, `\bunable\s+to\b`, `\bstruggles?\s+to\b`,
			)},
			{model.ClaimMotivationOrAmbition, compileAll(
				`\bwants?\b`, `\bdesires?\b`, `\bseeks?\b`, `\bstrives?\b`,
				`\bgoal\b`, `\bambition\b`, `\bdream\b`, `\bhopes?\b`,
				`\baspires?\b`, `\bmotivated\b`, `\bdriven\s+to\b`,
			)},
			{model.ClaimBehavioralTendency, compileAll(
				`\btends?\s+to\b`, `\boften\b`, `\busually\b`, `\bhabit\b`,
				`\broutinely\b`, `\btypically\b`, `\bcharacteristically\b`,
				`\bprone\s+to\b`, `\binclined\s+to\b`, `\bbehavior\b`,
			)},
			{model.ClaimSkillOrCapability, compileAll(
				`\bskilled\b`, `\btalented\b`, `\bexpert\b`, `\bproficient\b`,
				`\bability\b`, `\bcapable\b`, `\bcan\b`, `\bable\s+to\b`,
				`\bmastered\b`, `\btrained\b`, `\bknows?\s+how\b`,
			)},
			{model.ClaimMoralConstraint, compileAll(
				`\bmust\b`, `\bshould\b`, `\bought\b`, `\bobligation\b`,
				`\bduty\b`, `\bresponsibility\b`, `\bcode\b`, `\bethics?\b`,
				`\bmorals?\b`, `\bvalues?\b`, `\bprinciples?\b`, `\bvow\b`,
			)},
		},
		highCertainty: compileAll(
			`\balways\b`, `\bnever\b`, `\bcertainly\b`, `\bdefinitely\b`,
			`\babsolutely\b`, `\bwithout\s+doubt\b`, `\bundoubtedly\b`,
			`\binevitably\b`, `\binvariably\b`, `\bconstantly\b`,
			`\bwill\s+always\b`, `\bwill\s+never\b`, `\bcompletely\b`,
			`\bentirely\b`, `\btotally\b`, `\bpermanently\b`,
		),
		hedging: compileAll(
			`\bmaybe\b`, `\bperhaps\b`, `\bpossibly\b`, `\bprobably\b`,
			`\bmight\b`, `\bcould\b`, `\bseems?\b`, `\bappears?\b`,
			`\bsomewhat\b`, `\boccasionally\b`, `\bsometimes\b`,
			`\btends?\s+to\b`, `\blikely\b`, `\bsuggests?\b`,
			`\bimplies?\b`, `\bpotentially\b`, `\bpresumably\b`,
		),
		coreTrait: compileAll(
			`\bdefining\b`, `\bcore\b`, `\bfundamental\b`, `\bessential\b`,
			`\bcentral\s+to\b`, `\bshaped\s+by\b`, `\bdriven\s+by\b`,
			`\bforever\s+changed\b`, `\bwho\s+they\s+are\b`, `\bidentity\b`,
			`\btrauma`, `\bdefining\s+moment\b`, `\blife-changing\b`,
			`\bprofound\b`, `\bdeep-seated\b`, `\bingrained\b`,
		),
		segmentSplits: compileAll(
			`,\s+and\s+`,
			`,\s+but\s+`,
			`;\s+`,
			`\.\s+`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// Decompose splits a backstory into atomic claims in order of appearance.
// It is total: any input yields a (possibly empty) claim slice and no error.
func (d *Decomposer) Decompose(backstory string) []model.Claim {
	backstory = strings.TrimSpace(backstory)
	if backstory == "" {
		return nil
	}

	var claims []model.Claim
	index := 0

	for _, sentence := range splitSentences(backstory) {
		for _, segment := range d.splitCompound(sentence) {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}

			claims = append(claims, model.Claim{
				ID:         claimID(segment, index),
				Type:       d.categorize(segment),
				Text:       segment,
				Confidence: d.confidence(segment),
				CoreTrait:  d.isCoreTrait(segment),
			})
			index++
		}
	}

	return claims
}

// claimID derives a stable identifier from the segment text and its
// sequential index, so identical text at different positions never collides
func claimID(text string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", text, index)))
	return "claim_" + hex.EncodeToString(sum[:])[:12]
}

// splitSentences splits text on terminal punctuation followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// splitCompound splits a sentence into candidate atomic segments on
// coordinating conjunctions, semicolons, and internal sentence boundaries.
// Segments of 10 characters or fewer, or ending in a dangling comma, are
// discarded; if nothing survives, the original sentence stands.
func (d *Decomposer) splitCompound(sentence string) []string {
	segments := []string{sentence}
	for _, sep := range d.segmentSplits {
		var next []string
		for _, segment := range segments {
			next = append(next, sep.Split(segment, -1)...)
		}
		segments = next
	}

	var kept []string
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if len(segment) > 10 && !strings.HasSuffix(segment, ",") {
			kept = append(kept, segment)
		}
	}

	if len(kept) == 0 {
		return []string{sentence}
	}
	return kept
}

// categorize picks the category with the highest keyword match count.
// Ties resolve in declaration order. When nothing scores, a narrow keyword
// fallback applies, defaulting to formative_experience.
func (d *Decomposer) categorize(text string) model.ClaimType {
	lower := strings.ToLower(text)

	best := model.ClaimType("")
	bestScore := 0
	for _, cat := range d.categories {
		score := 0
		for _, p := range cat.patterns {
			if p.MatchString(lower) {
				score++
			}
		}
		if score > bestScore {
			best = cat.claimType
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best
	}

	switch {
	case containsAny(lower, "born", "child", "young"):
		return model.ClaimEarlyLifeEvent
	case containsAny(lower, "fear", "afraid", "cannot"):
		return model.ClaimFearOrConstraint
	case containsAny(lower, "want", "goal", "seek"):
		return model.ClaimMotivationOrAmbition
	default:
		return model.ClaimFormativeExperience
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// confidence starts at 0.7, gains 0.1 per high-certainty marker, loses 0.15
// per hedging marker, clamped to [0,1]
func (d *Decomposer) confidence(text string) float64 {
	lower := strings.ToLower(text)

	confidence := 0.7
	for _, p := range d.highCertainty {
		if p.MatchString(lower) {
			confidence += 0.1
		}
	}
	for _, p := range d.hedging {
		if p.MatchString(lower) {
			confidence -= 0.15
		}
	}

	return clamp01(confidence)
}

// isCoreTrait reports whether the segment uses identity-defining language
func (d *Decomposer) isCoreTrait(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range d.coreTrait {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
