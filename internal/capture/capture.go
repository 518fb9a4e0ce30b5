// Package capture turns a raw stream of key press/release signals into a
// per-position outcome ledger, cursor movement, and an append-only event log.
//
// One Machine serves exactly one in-progress session. Every handler is
// synchronous, performs no I/O, and does O(1) work per signal: ledger slots
// are mutated in place and the event log only ever appends. Out-of-policy
// input (modifier chords, composed multi-rune keys, anything before the
// deliberate start) is discarded silently; the machine cannot fail.
package capture

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"keyrhythm/internal/model"
)

// State is the session lifecycle state.
type State int

// Lifecycle: NotStarted until the first expected character is pressed,
// Active while typing, Ended once a terminal transition fired.
const (
	NotStarted State = iota
	Active
	Ended
)

// KeyBackspace is the logical key string for backspace signals.
const KeyBackspace = "Backspace"

// DefaultLookahead is how close the cursor may get to the end of the
// generated text before a duration-mode session requests more words.
const DefaultLookahead = 50

const extendBatchWords = 20

// Modifiers carries the modifier state of an input signal. Shift is
// transparent (the shifted character arrives as-is); any of the others
// blocks the signal.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

func (m Modifiers) blocking() bool {
	return m.Ctrl || m.Alt || m.Meta
}

// WordSource supplies batches of words for duration-mode text extension.
type WordSource interface {
	Words(n int) []string
}

// Machine is the capture state machine for one session.
type Machine struct {
	mode      model.Mode
	modeValue int
	lookahead int
	source    WordSource

	state  State
	target []rune
	ledger []model.CharState
	cursor int

	events          []model.KeyEvent
	totalKeystrokes int
	maxIndex        int
	firstErrs       map[int]struct{}
	pressCtx        map[string]eventCtx

	startedAt   time.Time
	lastEventAt time.Time
}

// New builds a machine over the initial target text. source may be nil; it
// is only consulted in duration mode.
func New(mode model.Mode, modeValue int, text string, source WordSource) *Machine {
	m := &Machine{
		mode:      mode,
		modeValue: modeValue,
		lookahead: DefaultLookahead,
		source:    source,
		firstErrs: map[int]struct{}{},
		pressCtx:  map[string]eventCtx{},
	}
	m.extendTarget(text)
	return m
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// Cursor returns the current cursor position.
func (m *Machine) Cursor() int { return m.cursor }

// StartedAt returns the session start time (zero until Active).
func (m *Machine) StartedAt() time.Time { return m.startedAt }

// LastEventAt returns the arrival time of the last recorded event.
func (m *Machine) LastEventAt() time.Time { return m.lastEventAt }

// TotalKeystrokes returns the recorded press count.
func (m *Machine) TotalKeystrokes() int { return m.totalKeystrokes }

// MaxIndexReached returns the furthest position reached via first attempts.
func (m *Machine) MaxIndexReached() int { return m.maxIndex }

// Target returns the current target runes. The returned slice is the live
// grow-only arena; callers must not mutate it.
func (m *Machine) Target() []rune { return m.target }

// Ledger returns the live outcome ledger; callers must not mutate it.
func (m *Machine) Ledger() []model.CharState { return m.ledger }

// Events returns the live event log; callers must not mutate it.
func (m *Machine) Events() []model.KeyEvent { return m.events }

// FirstTimeErrorPositions returns the sorted first-attempt error positions.
func (m *Machine) FirstTimeErrorPositions() []int {
	out := make([]int, 0, len(m.firstErrs))
	for pos := range m.firstErrs {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// Accuracy returns the first-attempt accuracy in percent. Defined as 100
// before any forward progress.
func (m *Machine) Accuracy() float64 {
	if m.maxIndex == 0 {
		return 100
	}
	return 100 * float64(m.maxIndex-len(m.firstErrs)) / float64(m.maxIndex)
}

// HandlePress applies one key-press signal. Signals that are out of policy
// (blocking modifiers, composed multi-rune keys, any key before the
// deliberate start) are discarded without a state change or log entry.
func (m *Machine) HandlePress(key string, at time.Time, mods Modifiers) {
	if m.state == Ended || mods.blocking() {
		return
	}

	isBackspace := key == KeyBackspace
	r, ok := singleRune(key)
	if !ok && !isBackspace {
		return
	}

	if m.state == NotStarted {
		// Deliberate start: only the expected first character counts.
		if isBackspace || len(m.target) == 0 || r != m.target[0] {
			return
		}
		m.state = Active
		m.startedAt = at
	}

	if isBackspace {
		if m.cursor > 0 {
			m.cursor--
		}
		m.appendEvent(model.KindPress, key, at)
		m.totalKeystrokes++
		return
	}

	if m.cursor >= len(m.ledger) {
		return
	}
	m.appendEvent(model.KindPress, key, at)
	m.totalKeystrokes++

	slot := &m.ledger[m.cursor]
	firstAttempt := slot.Typed == ""
	slot.Typed = string(r)
	switch {
	case firstAttempt && string(r) == slot.Expected:
		slot.Status = model.StatusCorrect
	case firstAttempt:
		slot.Status = model.StatusIncorrect
		m.firstErrs[m.cursor] = struct{}{}
	case string(r) == slot.Expected:
		slot.Status = model.StatusCorrected
	default:
		slot.Status = model.StatusIncorrect
	}
	if firstAttempt && m.cursor+1 > m.maxIndex {
		m.maxIndex = m.cursor + 1
	}
	m.cursor++

	switch m.mode {
	case model.ModeDuration:
		m.maybeExtend()
	case model.ModeWords:
		if m.cursor >= len(m.target) {
			m.state = Ended
		}
	}
}

// HandleRelease records one key-release signal. Releases are logged
// unconditionally while Active, carrying the cursor context of the matching
// press; pairing them up (and tolerating orphans) is the analysis engine's
// job.
func (m *Machine) HandleRelease(key string, at time.Time) {
	if m.state != Active {
		return
	}
	if _, ok := singleRune(key); !ok && key != KeyBackspace {
		return
	}
	ctx, ok := m.pressCtx[key]
	if !ok {
		ctx = m.currentCtx()
	}
	m.appendEventCtx(model.KindRelease, key, at, ctx)
}

// End applies the external end transition (timer expiry, user abort).
// Atomic with respect to key handling and idempotent; no signal is applied
// afterwards.
func (m *Machine) End() {
	m.state = Ended
}

type eventCtx struct {
	pos      int
	expected string
}

func (m *Machine) currentCtx() eventCtx {
	ctx := eventCtx{pos: m.cursor}
	if m.cursor < len(m.ledger) {
		ctx.expected = m.ledger[m.cursor].Expected
	}
	return ctx
}

// appendEvent logs an event at the current cursor and remembers that
// context for the key, so the eventual release can reuse it.
func (m *Machine) appendEvent(kind model.EventKind, key string, at time.Time) {
	ctx := m.currentCtx()
	m.pressCtx[key] = ctx
	m.appendEventCtx(kind, key, at, ctx)
}

func (m *Machine) appendEventCtx(kind model.EventKind, key string, at time.Time, ctx eventCtx) {
	rel := int64(0)
	if !m.startedAt.IsZero() && at.After(m.startedAt) {
		rel = at.Sub(m.startedAt).Milliseconds()
	}
	m.events = append(m.events, model.KeyEvent{
		Kind:              kind,
		Key:               key,
		AbsoluteTime:      at.UnixMilli(),
		RelativeTime:      rel,
		CursorPosition:    ctx.pos,
		ExpectedCharacter: ctx.expected,
	})
	m.lastEventAt = at
}

func (m *Machine) maybeExtend() {
	if m.source == nil || len(m.target)-m.cursor >= m.lookahead {
		return
	}
	words := m.source.Words(extendBatchWords)
	if len(words) == 0 {
		return
	}
	m.extendTarget(" " + strings.Join(words, " "))
}

// extendTarget appends text to the arena. Existing positions are never
// truncated or renumbered.
func (m *Machine) extendTarget(text string) {
	for _, r := range text {
		m.target = append(m.target, r)
		m.ledger = append(m.ledger, model.CharState{
			Expected: string(r),
			Status:   model.StatusPending,
		})
	}
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
