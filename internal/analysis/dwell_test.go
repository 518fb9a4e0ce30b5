package analysis

import (
	"testing"

	"keyrhythm/internal/model"
)

func TestDwellByKeyBasicPair(t *testing.T) {
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		press("a", 1000, 0),
		release("a", 1150, 0),
	}}
	stats := DwellByKey(rec)
	if len(stats) != 1 {
		t.Fatalf("expected 1 key, got %d", len(stats))
	}
	if stats[0].Key != "a" || stats[0].MeanMs != 150 || stats[0].Count != 1 {
		t.Fatalf("unexpected stat: %+v", stats[0])
	}
}

func TestDwellLastPressWins(t *testing.T) {
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		press("a", 1000, 0),
		press("a", 1200, 1), // lost release; overwrite the pending press
		release("a", 1300, 1),
	}}
	stats := DwellByKey(rec)
	if len(stats) != 1 || stats[0].MeanMs != 100 || stats[0].Count != 1 {
		t.Fatalf("last press must win: %+v", stats)
	}
}

func TestDwellOrphanReleaseDropped(t *testing.T) {
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		release("a", 900, 0),
		press("b", 1000, 0),
		release("b", 1050, 0),
	}}
	stats := DwellByKey(rec)
	if len(stats) != 1 || stats[0].Key != "b" {
		t.Fatalf("orphan release must be dropped: %+v", stats)
	}
}

func TestDwellByFingerMeanOfKeyMeans(t *testing.T) {
	// "q" and "a" are both left pinky: q mean 100, a mean 200 -> finger 150.
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		press("q", 0, 0), release("q", 100, 0),
		press("a", 500, 1), release("a", 650, 1),
		press("a", 1000, 2), release("a", 1250, 2),
	}}
	fingers := DwellByFinger(rec)
	if len(fingers) != 1 {
		t.Fatalf("expected 1 finger, got %+v", fingers)
	}
	fs := fingers[0]
	if fs.Finger != FingerLeftPinky || fs.Keys != 2 {
		t.Fatalf("unexpected finger stat: %+v", fs)
	}
	// a samples: 150, 250 -> key mean 200; (100 + 200) / 2 = 150.
	if fs.MeanMs != 150 {
		t.Fatalf("finger mean = %f, want mean of per-key means 150", fs.MeanMs)
	}
}

func TestDwellUnknownKeysExcludedFromFingers(t *testing.T) {
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		press("é", 0, 0), release("é", 80, 0),
	}}
	if got := DwellByFinger(rec); len(got) != 0 {
		t.Fatalf("unknown keys must not produce finger buckets: %+v", got)
	}
	if got := DwellByKey(rec); len(got) != 1 {
		t.Fatalf("unknown keys still have per-key dwell: %+v", got)
	}
}
