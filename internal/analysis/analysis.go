// Package analysis derives biomechanical and performance views from a
// finalized session record.
//
// Every view is a pure function over an immutable *model.SessionRecord: the
// input is never mutated, no state is kept between calls, and the views can
// be computed independently and concurrently. Records with missing optional
// fields degrade to empty results; only a missing events sequence is a
// contract violation, rejected up front by Validate.
package analysis

import (
	"errors"
	"sort"
	"unicode/utf8"

	"keyrhythm/internal/model"
)

// ErrNoEvents reports a record whose events sequence is missing; such a
// record cannot be analyzed at all.
var ErrNoEvents = errors.New("session record has no events sequence")

// KeyStat is the mean of a per-key timing series.
type KeyStat struct {
	Key    string  `json:"key"`
	MeanMs float64 `json:"meanMs"`
	Count  int     `json:"count"`
}

// FingerStat is the mean of the per-key means that map to one finger.
type FingerStat struct {
	Finger Finger  `json:"finger"`
	MeanMs float64 `json:"meanMs"`
	Keys   int     `json:"keys"`
}

// Report bundles all analysis views for one session.
type Report struct {
	DwellByKey     []KeyStat        `json:"dwellByKey"`
	DwellByFinger  []FingerStat     `json:"dwellByFinger"`
	FlightByKey    []KeyStat        `json:"flightByKey"`
	FlightByFinger []FingerStat     `json:"flightByFinger"`
	Digraphs       []DigraphStat    `json:"digraphs"`
	Confusion      []ConfusionGroup `json:"confusion"`
	Rhythm         []RhythmSample   `json:"rhythm"`
	ShiftCost      *ShiftCost       `json:"shiftCost,omitempty"`
}

// Validate checks the analysis precondition: the record must carry a
// well-formed events sequence. An empty sequence is valid; a missing one is
// not.
func Validate(rec *model.SessionRecord) error {
	if rec == nil || rec.Events == nil {
		return ErrNoEvents
	}
	return nil
}

// Run validates the record and computes all views.
func Run(rec *model.SessionRecord) (Report, error) {
	if err := Validate(rec); err != nil {
		return Report{}, err
	}
	return Report{
		DwellByKey:     DwellByKey(rec),
		DwellByFinger:  DwellByFinger(rec),
		FlightByKey:    FlightByKey(rec),
		FlightByFinger: FlightByFinger(rec),
		Digraphs:       Digraphs(rec),
		Confusion:      Confusion(rec),
		Rhythm:         Rhythm(rec),
		ShiftCost:      ShiftCostOf(rec),
	}, nil
}

type meanAcc struct {
	sum   int64
	count int
}

func (a *meanAcc) add(v int64) {
	a.sum += v
	a.count++
}

func (a meanAcc) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return float64(a.sum) / float64(a.count)
}

func keyStats(acc map[string]*meanAcc) []KeyStat {
	out := make([]KeyStat, 0, len(acc))
	for key, a := range acc {
		out = append(out, KeyStat{Key: key, MeanMs: a.mean(), Count: a.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// fingerStats folds per-key means into per-finger means. The finger value
// is the mean of the per-key means, not a sample-weighted mean; that
// matches the established behavior of this tool and stays comparable with
// previously exported numbers.
func fingerStats(keys []KeyStat) []FingerStat {
	type fold struct {
		sum  float64
		keys int
	}
	byFinger := map[Finger]*fold{}
	for _, ks := range keys {
		finger := FingerFor(ks.Key)
		if finger == FingerUnknown {
			continue
		}
		f, ok := byFinger[finger]
		if !ok {
			f = &fold{}
			byFinger[finger] = f
		}
		f.sum += ks.MeanMs
		f.keys++
	}
	out := make([]FingerStat, 0, len(byFinger))
	for finger, f := range byFinger {
		out = append(out, FingerStat{
			Finger: finger,
			MeanMs: f.sum / float64(f.keys),
			Keys:   f.keys,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Finger < out[j].Finger })
	return out
}

func singleRune(key string) (rune, bool) {
	if key == "" {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) {
		return 0, false
	}
	return r, true
}
