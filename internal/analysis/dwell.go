package analysis

import "keyrhythm/internal/model"

// DwellByKey computes mean hold time per key. Each press opens a pending
// hold for its key; the next release of the same key closes it. A release
// with no pending press is dropped, and a repeated press overwrites the
// pending timestamp (last press wins), which keeps the pairing honest when
// the input source loses a release.
func DwellByKey(rec *model.SessionRecord) []KeyStat {
	pending := map[string]int64{}
	acc := map[string]*meanAcc{}
	for _, ev := range rec.Events {
		switch ev.Kind {
		case model.KindPress:
			pending[ev.Key] = ev.AbsoluteTime
		case model.KindRelease:
			pressAt, ok := pending[ev.Key]
			if !ok {
				continue
			}
			delete(pending, ev.Key)
			a, ok := acc[ev.Key]
			if !ok {
				a = &meanAcc{}
				acc[ev.Key] = a
			}
			a.add(ev.AbsoluteTime - pressAt)
		}
	}
	return keyStats(acc)
}

// DwellByFinger aggregates the per-key dwell means into finger buckets.
func DwellByFinger(rec *model.SessionRecord) []FingerStat {
	return fingerStats(DwellByKey(rec))
}
