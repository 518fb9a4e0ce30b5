package capture

import (
	"testing"
	"time"

	"keyrhythm/internal/model"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func typeKeys(m *Machine, startMs int64, keys ...string) int64 {
	t := startMs
	for _, key := range keys {
		m.HandlePress(key, at(t), Modifiers{})
		m.HandleRelease(key, at(t+40))
		t += 100
	}
	return t
}

func TestStartRequiresExpectedFirstCharacter(t *testing.T) {
	m := New(model.ModeWords, 3, "cat", nil)

	m.HandlePress("x", at(1000), Modifiers{})
	m.HandlePress(KeyBackspace, at(1100), Modifiers{})
	if m.State() != NotStarted {
		t.Fatalf("expected NotStarted after out-of-policy input, got %v", m.State())
	}
	if len(m.Events()) != 0 || m.TotalKeystrokes() != 0 {
		t.Fatalf("pre-start input must not be recorded: %d events, %d keystrokes", len(m.Events()), m.TotalKeystrokes())
	}

	m.HandlePress("c", at(1200), Modifiers{})
	if m.State() != Active {
		t.Fatalf("expected Active after pressing the expected character, got %v", m.State())
	}
	if !m.StartedAt().Equal(at(1200)) {
		t.Fatalf("startedAt = %v, want %v", m.StartedAt(), at(1200))
	}
}

func TestEndToEndCatScenario(t *testing.T) {
	m := New(model.ModeWords, 3, "cat", nil)

	m.HandlePress("c", at(1000), Modifiers{})
	m.HandlePress("a", at(1100), Modifiers{})
	m.HandlePress("x", at(1200), Modifiers{})
	m.HandlePress(KeyBackspace, at(1300), Modifiers{})
	m.HandlePress("t", at(1400), Modifiers{})

	ledger := m.Ledger()
	wantStatuses := []model.CharStatus{model.StatusCorrect, model.StatusCorrect, model.StatusCorrected}
	for i, want := range wantStatuses {
		if ledger[i].Status != want {
			t.Fatalf("position %d: status = %s, want %s", i, ledger[i].Status, want)
		}
	}
	if m.MaxIndexReached() != 3 {
		t.Fatalf("maxIndexReached = %d, want 3", m.MaxIndexReached())
	}
	errs := m.FirstTimeErrorPositions()
	if len(errs) != 1 || errs[0] != 2 {
		t.Fatalf("firstTimeErrorPositions = %v, want [2]", errs)
	}
	acc := m.Accuracy()
	if acc < 66.6 || acc > 66.7 {
		t.Fatalf("accuracy = %f, want ~66.67", acc)
	}
	if m.TotalKeystrokes() != 5 {
		t.Fatalf("totalKeystrokes = %d, want 5", m.TotalKeystrokes())
	}
	if m.State() != Ended {
		t.Fatalf("word-count session should end at end of text, got state %v", m.State())
	}
}

func TestBackspaceKeepsOutcomeHistory(t *testing.T) {
	m := New(model.ModeWords, 3, "cat", nil)
	m.HandlePress("c", at(0), Modifiers{})
	m.HandlePress("x", at(100), Modifiers{})
	m.HandlePress(KeyBackspace, at(200), Modifiers{})

	slot := m.Ledger()[1]
	if slot.Typed != "x" || slot.Status != model.StatusIncorrect {
		t.Fatalf("vacated slot must keep its history, got typed=%q status=%s", slot.Typed, slot.Status)
	}
	if m.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor())
	}
}

func TestBackspaceAtZeroStillLogged(t *testing.T) {
	m := New(model.ModeWords, 2, "go", nil)
	m.HandlePress("g", at(0), Modifiers{})
	m.HandlePress(KeyBackspace, at(100), Modifiers{})
	m.HandlePress(KeyBackspace, at(200), Modifiers{})
	if m.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor())
	}
	if m.TotalKeystrokes() != 3 {
		t.Fatalf("totalKeystrokes = %d, want 3", m.TotalKeystrokes())
	}
}

func TestMaxIndexNeverDecreases(t *testing.T) {
	m := New(model.ModeWords, 5, "abcde", nil)
	prev := 0
	steps := []string{"a", "b", KeyBackspace, KeyBackspace, "b", "c", KeyBackspace, "c", "d"}
	tt := int64(0)
	for _, key := range steps {
		m.HandlePress(key, at(tt), Modifiers{})
		tt += 50
		if m.MaxIndexReached() < prev {
			t.Fatalf("maxIndexReached decreased from %d to %d after %q", prev, m.MaxIndexReached(), key)
		}
		prev = m.MaxIndexReached()
	}
}

func TestFirstTimeErrorRecordedOnce(t *testing.T) {
	m := New(model.ModeWords, 2, "ab", nil)
	m.HandlePress("a", at(0), Modifiers{})
	m.HandlePress("x", at(100), Modifiers{})
	m.HandlePress(KeyBackspace, at(200), Modifiers{})
	m.HandlePress("y", at(300), Modifiers{}) // still wrong, but a retype
	m.HandlePress(KeyBackspace, at(400), Modifiers{})
	m.HandlePress("b", at(500), Modifiers{})

	errs := m.FirstTimeErrorPositions()
	if len(errs) != 1 || errs[0] != 1 {
		t.Fatalf("firstTimeErrorPositions = %v, want [1]", errs)
	}
	if got := m.Ledger()[1].Status; got != model.StatusCorrected {
		t.Fatalf("status = %s, want corrected", got)
	}
}

func TestAccuracyBounds(t *testing.T) {
	m := New(model.ModeWords, 3, "abc", nil)
	if m.Accuracy() != 100 {
		t.Fatalf("accuracy before progress = %f, want 100", m.Accuracy())
	}
	m.HandlePress("a", at(0), Modifiers{})
	m.HandlePress("x", at(100), Modifiers{})
	m.HandlePress("x", at(200), Modifiers{})
	acc := m.Accuracy()
	if acc < 0 || acc > 100 {
		t.Fatalf("accuracy out of range: %f", acc)
	}
}

func TestModifierAndComposedInputIgnored(t *testing.T) {
	m := New(model.ModeWords, 3, "cat", nil)
	m.HandlePress("c", at(0), Modifiers{})
	before := len(m.Events())

	m.HandlePress("a", at(100), Modifiers{Ctrl: true})
	m.HandlePress("ae", at(200), Modifiers{})
	m.HandlePress("", at(300), Modifiers{})
	if len(m.Events()) != before {
		t.Fatalf("out-of-policy input must not be logged")
	}
	if m.Cursor() != 1 {
		t.Fatalf("cursor moved on ignored input: %d", m.Cursor())
	}

	// Shift is transparent: the shifted character applies as-is.
	m.HandlePress("A", at(400), Modifiers{Shift: true})
	if m.Cursor() != 2 {
		t.Fatalf("shifted character should apply, cursor = %d", m.Cursor())
	}
}

func TestEndIsTerminalAndIdempotent(t *testing.T) {
	m := New(model.ModeDuration, 60, "hello world", nil)
	m.HandlePress("h", at(0), Modifiers{})
	m.End()
	m.End()
	if m.State() != Ended {
		t.Fatalf("state = %v, want Ended", m.State())
	}
	events := len(m.Events())
	m.HandlePress("e", at(100), Modifiers{})
	m.HandleRelease("e", at(140))
	if len(m.Events()) != events {
		t.Fatalf("signals applied after End")
	}
}

type staticSource struct {
	words []string
}

func (s staticSource) Words(int) []string { return s.words }

func TestDurationModeExtendsText(t *testing.T) {
	m := New(model.ModeDuration, 60, "ab cd", staticSource{words: []string{"word", "list"}})
	initial := len(m.Target())

	typeKeys(m, 0, "a", "b")
	if len(m.Target()) <= initial {
		t.Fatalf("target not extended: %d -> %d", initial, len(m.Target()))
	}
	ledger := m.Ledger()
	if len(ledger) != len(m.Target()) {
		t.Fatalf("ledger (%d) and target (%d) out of sync", len(ledger), len(m.Target()))
	}
	// Existing positions keep their identity and outcome.
	if ledger[0].Typed != "a" || ledger[0].Status != model.StatusCorrect {
		t.Fatalf("existing position renumbered or reset: %+v", ledger[0])
	}
	for _, cs := range ledger[initial:] {
		if cs.Status != model.StatusPending || cs.Typed != "" {
			t.Fatalf("extended entry not pending: %+v", cs)
		}
	}
}

func TestEventLogTimesAndContext(t *testing.T) {
	m := New(model.ModeWords, 3, "cat", nil)
	m.HandlePress("c", at(5000), Modifiers{})
	m.HandleRelease("c", at(5050))
	m.HandlePress("a", at(5200), Modifiers{})

	events := m.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	first := events[0]
	if first.AbsoluteTime != 5000 || first.RelativeTime != 0 {
		t.Fatalf("starting press times: abs=%d rel=%d", first.AbsoluteTime, first.RelativeTime)
	}
	if first.CursorPosition != 0 || first.ExpectedCharacter != "c" {
		t.Fatalf("starting press context: pos=%d expected=%q", first.CursorPosition, first.ExpectedCharacter)
	}
	release := events[1]
	if release.Kind != model.KindRelease || release.CursorPosition != 0 || release.ExpectedCharacter != "c" {
		t.Fatalf("release must reuse its press context: %+v", release)
	}
	press := events[2]
	if press.RelativeTime != 200 {
		t.Fatalf("relative time = %d, want 200", press.RelativeTime)
	}
	if !m.LastEventAt().Equal(at(5200)) {
		t.Fatalf("lastEventAt = %v", m.LastEventAt())
	}
}
