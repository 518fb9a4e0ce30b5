// Package session assembles the immutable session record from a finished
// capture machine.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"keyrhythm/internal/capture"
	"keyrhythm/internal/model"
)

// Finalize computes the summary metrics and builds the canonical record
// from the machine's terminal state. The ledgers are copied, so the record
// stays valid after the machine is reset or discarded.
func Finalize(m *capture.Machine, cfg model.Config, endedAt time.Time) model.SessionRecord {
	durationMs := int64(0)
	if !m.StartedAt().IsZero() && !m.LastEventAt().IsZero() {
		durationMs = m.LastEventAt().Sub(m.StartedAt()).Milliseconds()
	}

	ledger := make([]model.CharState, len(m.Ledger()))
	copy(ledger, m.Ledger())
	events := make([]model.KeyEvent, len(m.Events()))
	copy(events, m.Events())

	modeValue := cfg.Duration
	if cfg.Mode == model.ModeWords {
		modeValue = cfg.Words
	}

	return model.SessionRecord{
		SessionID: uuid.NewString(),
		OwnerID:   cfg.Owner,
		CreatedAt: endedAt,

		Mode:      cfg.Mode,
		ModeValue: modeValue,

		TargetText: string(m.Target()),
		TypedText:  typedText(ledger, m.MaxIndexReached()),

		CharStates: ledger,
		Events:     events,

		SessionDurationMs:       durationMs,
		AccuracyPercent:         m.Accuracy(),
		MechanicalCPM:           perMinute(m.TotalKeystrokes(), durationMs),
		ProductiveCPM:           perMinute(m.MaxIndexReached(), durationMs),
		TotalKeystrokes:         m.TotalKeystrokes(),
		MaxIndexReached:         m.MaxIndexReached(),
		FirstTimeErrorPositions: m.FirstTimeErrorPositions(),
	}
}

// typedText is the forward-progress view: typed characters over
// [0, maxIndex), ignoring churn beyond the furthest first-attempt position.
func typedText(ledger []model.CharState, maxIndex int) string {
	if maxIndex > len(ledger) {
		maxIndex = len(ledger)
	}
	var b strings.Builder
	for i := 0; i < maxIndex; i++ {
		b.WriteString(ledger[i].Typed)
	}
	return b.String()
}

func perMinute(count int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(count) / (float64(durationMs) / 60000.0)
}
