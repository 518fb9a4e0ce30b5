// Package analysisui renders analysis reports, as plain text or as a
// tabbed Bubble Tea browser.
package analysisui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"keyrhythm/internal/analysis"
	"keyrhythm/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	maxDigraphRows      = 15
	maxConfusionRows    = 10
)

// TerminalWidth returns the stdout terminal width, or a backup value when
// stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderReport prints every analysis view as plain text.
func RenderReport(w io.Writer, rec *model.SessionRecord, report analysis.Report, width int) error {
	if err := renderSummary(w, rec); err != nil {
		return err
	}
	if err := renderKeyTable(w, "Dwell Time (ms, press→release)", report.DwellByKey, report.DwellByFinger); err != nil {
		return err
	}
	if err := renderKeyTable(w, "Flight Time (ms, release→press)", report.FlightByKey, report.FlightByFinger); err != nil {
		return err
	}
	if err := renderDigraphs(w, report.Digraphs); err != nil {
		return err
	}
	if err := renderConfusion(w, report.Confusion); err != nil {
		return err
	}
	if err := renderRhythm(w, report.Rhythm, width); err != nil {
		return err
	}
	return renderShiftCost(w, report.ShiftCost)
}

func renderSummary(w io.Writer, rec *model.SessionRecord) error {
	lines := []string{
		fmt.Sprintf("Session %s (%s)", rec.SessionID, rec.CreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Duration: %.1fs  Accuracy: %.1f%%  Mechanical: %.0f CPM  Productive: %.0f CPM",
			float64(rec.SessionDurationMs)/1000, rec.AccuracyPercent, rec.MechanicalCPM, rec.ProductiveCPM),
		fmt.Sprintf("Keystrokes: %d  Reached: %d  First-attempt errors: %d",
			rec.TotalKeystrokes, rec.MaxIndexReached, len(rec.FirstTimeErrorPositions)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderKeyTable(w io.Writer, title string, keys []analysis.KeyStat, fingers []analysis.FingerStat) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(keys) == 0 {
		if _, err := fmt.Fprintln(w, "No samples."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	rows := make([][]string, 0, len(keys))
	for _, ks := range keys {
		rows = append(rows, []string{keyLabel(ks.Key), fmt.Sprintf("%.1f", ks.MeanMs), fmt.Sprintf("%d", ks.Count)})
	}
	if err := writeTable(w, []string{"Key", "Mean", "Samples"}, rows, map[int]bool{1: true, 2: true}); err != nil {
		return err
	}
	if len(fingers) > 0 {
		rows = rows[:0]
		for _, fs := range fingers {
			rows = append(rows, []string{string(fs.Finger), fmt.Sprintf("%.1f", fs.MeanMs), fmt.Sprintf("%d", fs.Keys)})
		}
		if err := writeTable(w, []string{"Finger", "Mean", "Keys"}, rows, map[int]bool{1: true, 2: true}); err != nil {
			return err
		}
	}
	return writeBlank(w)
}

func renderDigraphs(w io.Writer, digraphs []analysis.DigraphStat) error {
	if _, err := fmt.Fprintln(w, "Slowest Digraphs"); err != nil {
		return err
	}
	if len(digraphs) == 0 {
		if _, err := fmt.Fprintln(w, "No samples."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	if len(digraphs) > maxDigraphRows {
		digraphs = digraphs[:maxDigraphRows]
	}
	rows := make([][]string, 0, len(digraphs))
	for _, d := range digraphs {
		same := ""
		if d.SameFinger {
			same = "same finger"
		}
		rows = append(rows, []string{
			keyLabel(d.From) + keyLabel(d.To),
			fmt.Sprintf("%.1f", d.MeanMs),
			fmt.Sprintf("%d", d.Count),
			same,
		})
	}
	if err := writeTable(w, []string{"Pair", "Mean", "Samples", ""}, rows, map[int]bool{1: true, 2: true}); err != nil {
		return err
	}
	return writeBlank(w)
}

func renderConfusion(w io.Writer, groups []analysis.ConfusionGroup) error {
	if _, err := fmt.Fprintln(w, "Error Confusion"); err != nil {
		return err
	}
	if len(groups) == 0 {
		if _, err := fmt.Fprintln(w, "No uncorrected errors."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	if len(groups) > maxConfusionRows {
		groups = groups[:maxConfusionRows]
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		alts := make([]string, 0, len(g.Alternatives))
		for _, alt := range g.Alternatives {
			alts = append(alts, fmt.Sprintf("%s×%d", keyLabel(alt.Typed), alt.Count))
		}
		rows = append(rows, []string{keyLabel(g.Expected), fmt.Sprintf("%d", g.TotalErrors), strings.Join(alts, " ")})
	}
	if err := writeTable(w, []string{"Expected", "Errors", "Typed"}, rows, map[int]bool{1: true}); err != nil {
		return err
	}
	return writeBlank(w)
}

func renderRhythm(w io.Writer, samples []analysis.RhythmSample, width int) error {
	if _, err := fmt.Fprintln(w, "Rhythm"); err != nil {
		return err
	}
	if len(samples) == 0 {
		if _, err := fmt.Fprintln(w, "Not enough clean keystrokes."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	intervals := make([]float64, len(samples))
	var sum float64
	for i, s := range samples {
		intervals[i] = float64(s.IntervalMs)
		sum += intervals[i]
	}
	if width > 4 && len(intervals) > width-4 {
		intervals = intervals[len(intervals)-(width-4):]
	}
	if _, err := fmt.Fprintf(w, "Mean interval: %.1f ms over %d clean keystrokes\n", sum/float64(len(samples)), len(samples)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(intervals)); err != nil {
		return err
	}
	return writeBlank(w)
}

func renderShiftCost(w io.Writer, cost *analysis.ShiftCost) error {
	if _, err := fmt.Fprintln(w, "Shift Cost"); err != nil {
		return err
	}
	if cost == nil {
		_, err := fmt.Fprintln(w, "No alphabetic samples.")
		return err
	}
	_, err := fmt.Fprintf(w, "Uppercase %.1f ms (%d)  Lowercase %.1f ms (%d)  Penalty %.1f ms (%.1f%% slower)\n",
		cost.UppercaseMeanMs, cost.UppercaseCount,
		cost.LowercaseMeanMs, cost.LowercaseCount,
		cost.PenaltyMs, cost.PercentSlower)
	return err
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func keyLabel(key string) string {
	if key == " " {
		return "␣"
	}
	return key
}

func writeBlank(w io.Writer) error {
	_, err := fmt.Fprintln(w, "")
	return err
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(cell string, width int, rightAlign bool) string {
	pad := width - displayWidth(cell)
	if pad <= 0 {
		return cell
	}
	if rightAlign {
		return strings.Repeat(" ", pad) + cell
	}
	return cell + strings.Repeat(" ", pad)
}

func displayWidth(s string) int {
	return utf8.RuneCountInString(s)
}
