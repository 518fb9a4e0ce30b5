package analysisui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"keyrhythm/internal/analysis"
	"keyrhythm/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Key", "Mean", "Samples"}
	rows := [][]string{
		{"a", "97.5", "12"},
		{"␣", "8.0", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Key Mean Samples" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a   97.5      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "␣    8.0       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestSparkline(t *testing.T) {
	got := Sparkline([]float64{0, 100})
	if len(got) != 2 {
		t.Fatalf("expected 2 characters, got %q", got)
	}
	if got[0] != sparkChars[0] {
		t.Fatalf("expected lowest glyph first, got %q", got)
	}
	if got[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected highest glyph last, got %q", got)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 || flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("expected uniform glyphs for flat series, got %q", flat)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline for no values")
	}
}

func TestRenderReportSections(t *testing.T) {
	rec := &model.SessionRecord{
		SessionID:       "r1",
		OwnerID:         "local",
		CreatedAt:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Mode:            model.ModeWords,
		AccuracyPercent: 100,
		Events:          []model.KeyEvent{},
	}
	report := analysis.Report{
		DwellByKey: []analysis.KeyStat{{Key: "a", MeanMs: 120, Count: 4}},
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, rec, report, 80); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Session r1",
		"Dwell Time",
		"Flight Time",
		"Slowest Digraphs",
		"Error Confusion",
		"Rhythm",
		"Shift Cost",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if !strings.Contains(out, "No alphabetic samples.") {
		t.Fatalf("expected shift cost placeholder in output")
	}
}
