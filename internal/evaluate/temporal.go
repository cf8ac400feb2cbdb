package evaluate

import "github.com/ppiankov/fabula/internal/model"

// TimelineGroups buckets evidence by where it falls in the narrative
type TimelineGroups struct {
	Early []model.EvidenceItem `json:"early"`
	Mid   []model.EvidenceItem `json:"mid"`
	Late  []model.EvidenceItem `json:"late"`
}

// GroupByTimeline partitions evidence into three equal-width ordinal ranges
// between the minimum and maximum observed position. When all evidence sits
// at a single position, everything lands in Early. Not consulted by the
// decision pipeline; offered for post-processing of verdict evidence.
func GroupByTimeline(evidence []model.EvidenceItem) TimelineGroups {
	var groups TimelineGroups
	if len(evidence) == 0 {
		return groups
	}

	minPos, maxPos := evidence[0].Position, evidence[0].Position
	for _, e := range evidence[1:] {
		if e.Position < minPos {
			minPos = e.Position
		}
		if e.Position > maxPos {
			maxPos = e.Position
		}
	}

	if minPos == maxPos {
		groups.Early = append(groups.Early, evidence...)
		return groups
	}

	segment := float64(maxPos-minPos) / 3.0
	earlyEnd := float64(minPos) + segment
	midEnd := float64(minPos) + 2*segment

	for _, e := range evidence {
		pos := float64(e.Position)
		switch {
		case pos < earlyEnd:
			groups.Early = append(groups.Early, e)
		case pos < midEnd:
			groups.Mid = append(groups.Mid, e)
		default:
			groups.Late = append(groups.Late, e)
		}
	}

	return groups
}
