package analysis

import "keyrhythm/internal/model"

// FlightByKey computes mean release-to-press gaps, attributed to the
// arriving key. The reference point only moves on release events, so a
// burst of presses against one release all measure from the same release.
func FlightByKey(rec *model.SessionRecord) []KeyStat {
	acc := map[string]*meanAcc{}
	var lastRelease int64
	haveRelease := false
	for _, ev := range rec.Events {
		switch ev.Kind {
		case model.KindRelease:
			lastRelease = ev.AbsoluteTime
			haveRelease = true
		case model.KindPress:
			if !haveRelease {
				continue
			}
			a, ok := acc[ev.Key]
			if !ok {
				a = &meanAcc{}
				acc[ev.Key] = a
			}
			a.add(ev.AbsoluteTime - lastRelease)
		}
	}
	return keyStats(acc)
}

// FlightByFinger aggregates the per-key flight means into finger buckets.
func FlightByFinger(rec *model.SessionRecord) []FingerStat {
	return fingerStats(FlightByKey(rec))
}
