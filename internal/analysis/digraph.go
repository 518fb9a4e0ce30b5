package analysis

import (
	"sort"

	"keyrhythm/internal/capture"
	"keyrhythm/internal/model"
)

// DigraphStat is the aggregated latency for one ordered character pair.
type DigraphStat struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	MeanMs     float64 `json:"meanMs"`
	Count      int     `json:"count"`
	FromFinger Finger  `json:"fromFinger"`
	ToFinger   Finger  `json:"toFinger"`
	SameFinger bool    `json:"sameFinger"`
}

// Digraphs computes release-to-press latency for consecutive character
// pairs. A press is valid when its key is a single character at a known
// ledger position; the latency for a pair is measured from the release of
// the first character to the press of the second. Backspace breaks the
// chain, so corrections never produce a pair across the erased character.
// The result is sorted slowest-first, which is what top-N consumers rely on.
func Digraphs(rec *model.SessionRecord) []DigraphStat {
	type pair struct{ from, to string }
	acc := map[pair]*meanAcc{}

	lastChar := ""
	var lastCharRelease int64
	haveRelease := false

	for _, ev := range rec.Events {
		switch ev.Kind {
		case model.KindPress:
			if ev.Key == capture.KeyBackspace {
				lastChar = ""
				haveRelease = false
				continue
			}
			if _, ok := singleRune(ev.Key); !ok {
				continue
			}
			if ev.CursorPosition < 0 || ev.CursorPosition >= len(rec.CharStates) {
				continue
			}
			if lastChar != "" && haveRelease {
				p := pair{from: lastChar, to: ev.Key}
				a, ok := acc[p]
				if !ok {
					a = &meanAcc{}
					acc[p] = a
				}
				a.add(ev.AbsoluteTime - lastCharRelease)
			}
			lastChar = ev.Key
			haveRelease = false
		case model.KindRelease:
			if ev.Key == lastChar && !haveRelease {
				lastCharRelease = ev.AbsoluteTime
				haveRelease = true
			}
		}
	}

	out := make([]DigraphStat, 0, len(acc))
	for p, a := range acc {
		from := FingerFor(p.from)
		to := FingerFor(p.to)
		out = append(out, DigraphStat{
			From:       p.from,
			To:         p.to,
			MeanMs:     a.mean(),
			Count:      a.count,
			FromFinger: from,
			ToFinger:   to,
			SameFinger: from == to && from != FingerUnknown,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanMs != out[j].MeanMs {
			return out[i].MeanMs > out[j].MeanMs
		}
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
