// Package export writes session records to JSON files and reads them back.
// The file shape is exactly the persisted record shape, so a record can
// round-trip between the store, an export file, and the analysis engine.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"keyrhythm/internal/model"
)

// WriteRecord serializes the record as indented JSON to path, atomically
// via a temp file in the same directory.
func WriteRecord(path string, rec model.SessionRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ReadRecord loads a session record from a JSON file. The events sequence
// is required; its absence makes the file unusable for analysis.
func ReadRecord(path string) (model.SessionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to read record: %w", err)
	}
	var rec model.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to decode record: %w", err)
	}
	if rec.Events == nil {
		return model.SessionRecord{}, fmt.Errorf("record %s has no events sequence", path)
	}
	return rec, nil
}
