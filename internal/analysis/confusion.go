package analysis

import (
	"sort"

	"keyrhythm/internal/model"
)

// ConfusionCount is one typed alternative for an expected character.
type ConfusionCount struct {
	Typed string `json:"typed"`
	Count int    `json:"count"`
}

// ConfusionGroup collects every wrong character typed for one expected
// character, alternatives sorted by descending count.
type ConfusionGroup struct {
	Expected     string           `json:"expected"`
	TotalErrors  int              `json:"totalErrors"`
	Alternatives []ConfusionCount `json:"alternatives"`
}

// Confusion builds the error-confusion matrix from final ledger outcomes.
// Only positions that ended Incorrect contribute; a position that was
// mistyped and later corrected is not an error here. Groups are sorted by
// descending total error count.
func Confusion(rec *model.SessionRecord) []ConfusionGroup {
	counts := map[string]map[string]int{}
	for _, cs := range rec.CharStates {
		if cs.Status != model.StatusIncorrect {
			continue
		}
		if cs.Expected == "" || cs.Typed == "" || cs.Expected == cs.Typed {
			continue
		}
		byTyped, ok := counts[cs.Expected]
		if !ok {
			byTyped = map[string]int{}
			counts[cs.Expected] = byTyped
		}
		byTyped[cs.Typed]++
	}

	out := make([]ConfusionGroup, 0, len(counts))
	for expected, byTyped := range counts {
		group := ConfusionGroup{Expected: expected}
		for typed, count := range byTyped {
			group.Alternatives = append(group.Alternatives, ConfusionCount{Typed: typed, Count: count})
			group.TotalErrors += count
		}
		sort.Slice(group.Alternatives, func(i, j int) bool {
			if group.Alternatives[i].Count != group.Alternatives[j].Count {
				return group.Alternatives[i].Count > group.Alternatives[j].Count
			}
			return group.Alternatives[i].Typed < group.Alternatives[j].Typed
		})
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalErrors != out[j].TotalErrors {
			return out[i].TotalErrors > out[j].TotalErrors
		}
		return out[i].Expected < out[j].Expected
	})
	return out
}
