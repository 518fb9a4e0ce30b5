// Package store handles SQLite persistence of session records.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"keyrhythm/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports a missing session id.
var ErrNotFound = fmt.Errorf("session not found")

// Store wraps SQLite access for session records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			mode_value INTEGER NOT NULL,
			target_text TEXT NOT NULL,
			typed_text TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			accuracy_percent REAL NOT NULL,
			mechanical_cpm REAL NOT NULL,
			productive_cpm REAL NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			max_index_reached INTEGER NOT NULL,
			first_error_positions TEXT NOT NULL,
			char_states TEXT NOT NULL,
			events TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession stores a finalized session record.
func (s *Store) CreateSession(ctx context.Context, rec model.SessionRecord) error {
	charStates, err := json.Marshal(rec.CharStates)
	if err != nil {
		return fmt.Errorf("failed to encode char states: %w", err)
	}
	events, err := json.Marshal(rec.Events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	firstErrs, err := json.Marshal(rec.FirstTimeErrorPositions)
	if err != nil {
		return fmt.Errorf("failed to encode error positions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, owner_id, created_at, mode, mode_value, target_text, typed_text,
			duration_ms, accuracy_percent, mechanical_cpm, productive_cpm, total_keystrokes,
			max_index_reached, first_error_positions, char_states, events)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.OwnerID,
		rec.CreatedAt.Format(time.RFC3339Nano),
		string(rec.Mode),
		rec.ModeValue,
		rec.TargetText,
		rec.TypedText,
		rec.SessionDurationMs,
		rec.AccuracyPercent,
		rec.MechanicalCPM,
		rec.ProductiveCPM,
		rec.TotalKeystrokes,
		rec.MaxIndexReached,
		string(firstErrs),
		string(charStates),
		string(events),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession fetches one full session record by id.
func (s *Store) GetSession(ctx context.Context, id string) (model.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, created_at, mode, mode_value, target_text, typed_text,
			duration_ms, accuracy_percent, mechanical_cpm, productive_cpm, total_keystrokes,
			max_index_reached, first_error_positions, char_states, events
		 FROM sessions WHERE id = ?`, id)

	var rec model.SessionRecord
	var createdAt, mode, firstErrs, charStates, events string
	err := row.Scan(
		&rec.SessionID,
		&rec.OwnerID,
		&createdAt,
		&mode,
		&rec.ModeValue,
		&rec.TargetText,
		&rec.TypedText,
		&rec.SessionDurationMs,
		&rec.AccuracyPercent,
		&rec.MechanicalCPM,
		&rec.ProductiveCPM,
		&rec.TotalKeystrokes,
		&rec.MaxIndexReached,
		&firstErrs,
		&charStates,
		&events,
	)
	if err == sql.ErrNoRows {
		return model.SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return model.SessionRecord{}, err
	}

	rec.Mode = model.Mode(mode)
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = parsed
	if err := json.Unmarshal([]byte(firstErrs), &rec.FirstTimeErrorPositions); err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to decode error positions: %w", err)
	}
	if err := json.Unmarshal([]byte(charStates), &rec.CharStates); err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to decode char states: %w", err)
	}
	if err := json.Unmarshal([]byte(events), &rec.Events); err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to decode events: %w", err)
	}
	return rec, nil
}

// ListSessions returns summaries for one owner, oldest first. An empty
// owner lists every session.
func (s *Store) ListSessions(ctx context.Context, ownerID string) ([]model.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, created_at, mode, mode_value, duration_ms, accuracy_percent,
			mechanical_cpm, productive_cpm, total_keystrokes, max_index_reached
		 FROM sessions
		 WHERE (? = '' OR owner_id = ?)
		 ORDER BY created_at ASC`, ownerID, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var createdAt, mode string
		if err := rows.Scan(
			&sum.SessionID,
			&sum.OwnerID,
			&createdAt,
			&mode,
			&sum.ModeValue,
			&sum.DurationMs,
			&sum.AccuracyPercent,
			&sum.MechanicalCPM,
			&sum.ProductiveCPM,
			&sum.TotalKeystrokes,
			&sum.MaxIndexReached,
		); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		sum.CreatedAt = parsed
		sum.Mode = model.Mode(mode)
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession removes one session by id.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
