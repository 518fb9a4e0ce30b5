package analysis

import (
	"testing"

	"keyrhythm/internal/model"
)

func TestRhythmIntervalsFromFirstCleanPress(t *testing.T) {
	rec := &model.SessionRecord{
		CharStates: correctStates("abc"),
		Events: []model.KeyEvent{
			press("a", 1000, 0),
			press("b", 1150, 1),
			press("c", 1400, 2),
		},
	}
	samples := Rhythm(rec)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %+v", samples)
	}
	if samples[0].ElapsedMs != 150 || samples[0].IntervalMs != 150 || samples[0].Char != "b" {
		t.Fatalf("first sample = %+v", samples[0])
	}
	if samples[1].ElapsedMs != 400 || samples[1].IntervalMs != 250 || samples[1].Char != "c" {
		t.Fatalf("second sample = %+v", samples[1])
	}
}

func TestRhythmExcludesDirtyPresses(t *testing.T) {
	rec := &model.SessionRecord{
		CharStates: []model.CharState{
			{Expected: "a", Typed: "a", Status: model.StatusCorrect},
			{Expected: "b", Typed: "x", Status: model.StatusIncorrect},
			{Expected: "c", Typed: "c", Status: model.StatusCorrect},
		},
		Events: []model.KeyEvent{
			press("a", 0, 0),
			press("x", 100, 1), // position ended incorrect, not clean
			press("c", 300, 2),
		},
	}
	samples := Rhythm(rec)
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %+v", samples)
	}
	// The interval spans the dirty press: clean a at 0 to clean c at 300.
	if samples[0].IntervalMs != 300 || samples[0].Char != "c" {
		t.Fatalf("sample = %+v", samples[0])
	}
}

func TestRhythmEmptyBelowTwoCleanPresses(t *testing.T) {
	rec := &model.SessionRecord{
		CharStates: correctStates("a"),
		Events:     []model.KeyEvent{press("a", 0, 0)},
	}
	if samples := Rhythm(rec); len(samples) != 0 {
		t.Fatalf("fewer than 2 clean presses must yield an empty series: %+v", samples)
	}
}
