package validate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ppiankov/fabula/internal/model"
)

// RepairSet mechanically re-splits claims whose text still contains a
// conjunction or comma, deriving a unique id for each fragment. It is a
// heuristic retry, not a proof of atomicity: the caller must re-validate the
// result and treat a second failure as fatal. Callers run it at most once
// per claim set so repair can never loop.
func RepairSet(claims []model.Claim) []model.Claim {
	repaired := make([]model.Claim, 0, len(claims))

	for _, c := range claims {
		if !strings.Contains(c.Text, " and ") && !strings.Contains(c.Text, ",") {
			repaired = append(repaired, c)
			continue
		}

		normalized := strings.ReplaceAll(c.Text, ",", " and ")
		idx := 0
		for _, part := range strings.Split(normalized, " and ") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			split := c
			split.Text = part
			split.ID = fmt.Sprintf("%s_split_%d_%s", c.ID, idx, randomSuffix())
			repaired = append(repaired, split)
			idx++
		}
	}

	return repaired
}

// randomSuffix keeps split ids unique even when the same source claim is
// split at the same index across repair calls
func randomSuffix() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "000000"
	}
	return hex.EncodeToString(b[:])
}
