package analysis

import (
	"reflect"
	"testing"

	"keyrhythm/internal/model"
)

func press(key string, at int64, pos int) model.KeyEvent {
	return model.KeyEvent{Kind: model.KindPress, Key: key, AbsoluteTime: at, CursorPosition: pos}
}

func release(key string, at int64, pos int) model.KeyEvent {
	return model.KeyEvent{Kind: model.KindRelease, Key: key, AbsoluteTime: at, CursorPosition: pos}
}

func correctStates(chars string) []model.CharState {
	out := make([]model.CharState, 0, len(chars))
	for _, r := range chars {
		out = append(out, model.CharState{Expected: string(r), Typed: string(r), Status: model.StatusCorrect})
	}
	return out
}

func TestValidateRejectsMissingEvents(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("nil record must be rejected")
	}
	if err := Validate(&model.SessionRecord{}); err == nil {
		t.Fatalf("record without events must be rejected")
	}
	if err := Validate(&model.SessionRecord{Events: []model.KeyEvent{}}); err != nil {
		t.Fatalf("empty events sequence is valid: %v", err)
	}
}

func TestMissingCharStatesDegradesToEmpty(t *testing.T) {
	rec := &model.SessionRecord{Events: []model.KeyEvent{
		press("a", 0, 0), release("a", 50, 0),
		press("b", 100, 1), release("b", 160, 1),
	}}
	report, err := Run(rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Confusion) != 0 {
		t.Fatalf("confusion should be empty without charStates")
	}
	if len(report.Rhythm) != 0 {
		t.Fatalf("rhythm should be empty without charStates")
	}
	if len(report.Digraphs) != 0 {
		t.Fatalf("digraphs should be empty without charStates")
	}
	// Dwell and flight only need events.
	if len(report.DwellByKey) != 2 {
		t.Fatalf("dwell should still compute: %v", report.DwellByKey)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	rec := &model.SessionRecord{
		CharStates: correctStates("abab"),
		Events: []model.KeyEvent{
			press("a", 0, 0), release("a", 60, 0),
			press("b", 150, 1), release("b", 200, 1),
			press("a", 300, 2), release("a", 380, 2),
			press("b", 500, 3), release("b", 540, 3),
		},
	}
	first, err := Run(rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := Run(rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated analysis diverged:\n%+v\n%+v", first, second)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	rec := &model.SessionRecord{
		CharStates: correctStates("ab"),
		Events: []model.KeyEvent{
			press("a", 0, 0), release("a", 60, 0),
			press("b", 150, 1), release("b", 200, 1),
		},
	}
	eventsBefore := make([]model.KeyEvent, len(rec.Events))
	copy(eventsBefore, rec.Events)
	statesBefore := make([]model.CharState, len(rec.CharStates))
	copy(statesBefore, rec.CharStates)

	if _, err := Run(rec); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(rec.Events, eventsBefore) {
		t.Fatalf("events mutated")
	}
	if !reflect.DeepEqual(rec.CharStates, statesBefore) {
		t.Fatalf("charStates mutated")
	}
}
