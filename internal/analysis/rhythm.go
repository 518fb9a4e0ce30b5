package analysis

import "keyrhythm/internal/model"

// RhythmSample is one inter-keystroke interval between clean presses.
// ElapsedMs is measured from the first clean press, not from session start.
type RhythmSample struct {
	ElapsedMs  int64  `json:"elapsedMs"`
	IntervalMs int64  `json:"intervalMs"`
	Char       string `json:"char"`
}

// Rhythm builds the typing-cadence timeseries. Only clean presses count: a
// single-character key whose ledger position ended Correct. Intervals that
// span an error or a correction are excluded, so the series reflects
// steady-state cadence rather than recovery churn. Fewer than two clean
// presses yield an empty series.
func Rhythm(rec *model.SessionRecord) []RhythmSample {
	var out []RhythmSample
	var firstAt, prevAt int64
	haveFirst := false
	for _, ev := range rec.Events {
		if ev.Kind != model.KindPress {
			continue
		}
		if _, ok := singleRune(ev.Key); !ok {
			continue
		}
		if ev.CursorPosition < 0 || ev.CursorPosition >= len(rec.CharStates) {
			continue
		}
		if rec.CharStates[ev.CursorPosition].Status != model.StatusCorrect {
			continue
		}
		if !haveFirst {
			firstAt = ev.AbsoluteTime
			prevAt = ev.AbsoluteTime
			haveFirst = true
			continue
		}
		out = append(out, RhythmSample{
			ElapsedMs:  ev.AbsoluteTime - firstAt,
			IntervalMs: ev.AbsoluteTime - prevAt,
			Char:       ev.Key,
		})
		prevAt = ev.AbsoluteTime
	}
	return out
}
