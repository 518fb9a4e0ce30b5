// Package model defines shared data structures.
package model

import "time"

// CharStatus tracks the outcome of one position in the target text.
type CharStatus string

// A position starts Pending, becomes Correct or Incorrect on its first
// attempt, and can only become Corrected by retyping the expected character
// after a backspace.
const (
	StatusPending   CharStatus = "pending"
	StatusCorrect   CharStatus = "correct"
	StatusIncorrect CharStatus = "incorrect"
	StatusCorrected CharStatus = "corrected"
)

// CharState is one ledger entry: the expected character at a position, the
// last character typed there ("" until the first attempt), and the outcome.
type CharState struct {
	Expected string     `json:"expected"`
	Typed    string     `json:"typed,omitempty"`
	Status   CharStatus `json:"status"`
}

// EventKind distinguishes physical key presses from releases.
type EventKind string

// Event kinds.
const (
	KindPress   EventKind = "press"
	KindRelease EventKind = "release"
)

// KeyEvent is one raw press or release as it arrived. Events are append-only
// and immutable. AbsoluteTime is Unix milliseconds from the capture clock;
// RelativeTime is milliseconds from session start (0 for events at or before
// the starting press).
type KeyEvent struct {
	Kind              EventKind `json:"kind"`
	Key               string    `json:"key"`
	AbsoluteTime      int64     `json:"absoluteTime"`
	RelativeTime      int64     `json:"relativeTime"`
	CursorPosition    int       `json:"cursorPosition"`
	ExpectedCharacter string    `json:"expectedCharacter,omitempty"`
}

// Mode selects how a session ends.
type Mode string

// Session modes: ModeDuration ends on timer expiry, ModeWords when the
// target text has been typed through.
const (
	ModeDuration Mode = "duration"
	ModeWords    Mode = "words"
)

// SessionRecord is the finalized, persisted unit of analysis. The JSON field
// names are the wire contract: the analysis replay path and the
// export/import boundary consume exactly this shape.
type SessionRecord struct {
	SessionID string    `json:"sessionId"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`

	Mode      Mode `json:"mode"`
	ModeValue int  `json:"modeValue"`

	TargetText string `json:"targetText"`
	TypedText  string `json:"typedText"`

	CharStates []CharState `json:"charStates"`
	Events     []KeyEvent  `json:"events"`

	SessionDurationMs       int64   `json:"sessionDurationMs"`
	AccuracyPercent         float64 `json:"accuracyPercent"`
	MechanicalCPM           float64 `json:"mechanicalCPM"`
	ProductiveCPM           float64 `json:"productiveCPM"`
	TotalKeystrokes         int     `json:"totalKeystrokes"`
	MaxIndexReached         int     `json:"maxIndexReached"`
	FirstTimeErrorPositions []int   `json:"firstTimeErrorPositions"`
}

// SessionSummary is the listing view of a stored session, without the
// per-event ledgers.
type SessionSummary struct {
	SessionID       string
	OwnerID         string
	CreatedAt       time.Time
	Mode            Mode
	ModeValue       int
	DurationMs      int64
	AccuracyPercent float64
	MechanicalCPM   float64
	ProductiveCPM   float64
	TotalKeystrokes int
	MaxIndexReached int
}

// Config defines practice settings.
type Config struct {
	Owner    string
	Lang     string
	Mode     Mode
	Duration int // seconds, duration mode
	Words    int // words per generated text
	CapsPct  float64
	PunctPct float64
	PunctSet string
}
