package analysis

import (
	"unicode"

	"keyrhythm/internal/model"
)

// ShiftCost summarizes how much slower uppercase characters arrive than
// lowercase ones.
type ShiftCost struct {
	UppercaseMeanMs float64 `json:"uppercaseMeanMs"`
	LowercaseMeanMs float64 `json:"lowercaseMeanMs"`
	PenaltyMs       float64 `json:"penaltyMs"`
	PercentSlower   float64 `json:"percentSlower"`
	UppercaseCount  int     `json:"uppercaseCount"`
	LowercaseCount  int     `json:"lowercaseCount"`
}

// ShiftCostOf measures inter-press intervals between cased alphabetic
// presses, bucketed by the case of the arriving character. Correctness is
// irrelevant here; the interval is a motor cost either way. Characters
// without a case distinction are excluded entirely, including as interval
// anchors. Returns nil when no interval landed in either bucket.
func ShiftCostOf(rec *model.SessionRecord) *ShiftCost {
	var upper, lower meanAcc
	var prevAt int64
	havePrev := false
	for _, ev := range rec.Events {
		if ev.Kind != model.KindPress {
			continue
		}
		r, ok := singleRune(ev.Key)
		if !ok || !unicode.IsLetter(r) {
			continue
		}
		isUpper := unicode.IsUpper(r)
		if !isUpper && !unicode.IsLower(r) {
			continue
		}
		if havePrev {
			interval := ev.AbsoluteTime - prevAt
			if isUpper {
				upper.add(interval)
			} else {
				lower.add(interval)
			}
		}
		prevAt = ev.AbsoluteTime
		havePrev = true
	}
	if upper.count == 0 && lower.count == 0 {
		return nil
	}

	cost := &ShiftCost{
		UppercaseMeanMs: upper.mean(),
		LowercaseMeanMs: lower.mean(),
		UppercaseCount:  upper.count,
		LowercaseCount:  lower.count,
	}
	cost.PenaltyMs = cost.UppercaseMeanMs - cost.LowercaseMeanMs
	if lower.count > 0 {
		cost.PercentSlower = cost.PenaltyMs / cost.LowercaseMeanMs * 100
	}
	return cost
}
