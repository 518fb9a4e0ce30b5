package analysisui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keyrhythm/internal/analysis"
	"keyrhythm/internal/model"
)

const (
	tabOverview = iota
	tabDwell
	tabFlight
	tabDigraphs
	tabConfusion
	tabRhythm
	tabCount
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea analysis browser.
type Model struct {
	rec    *model.SessionRecord
	report analysis.Report

	tabs      []string
	activeTab int

	viewport  viewport.Model
	dwell     table.Model
	flight    table.Model
	digraphs  table.Model
	confusion table.Model

	width  int
	height int
	ready  bool
}

// NewModel builds the browser for one analyzed session.
func NewModel(rec *model.SessionRecord, report analysis.Report) *Model {
	m := &Model{
		rec:    rec,
		report: report,
		tabs:   []string{"Overview", "Dwell", "Flight", "Digraphs", "Confusion", "Rhythm"},
	}
	m.dwell = keyStatTable(report.DwellByKey, report.DwellByFinger)
	m.flight = keyStatTable(report.FlightByKey, report.FlightByFinger)
	m.digraphs = digraphTable(report.Digraphs)
	m.confusion = confusionTable(report.Confusion)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % tabCount
			m.refreshViewport()
			return m, nil
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			m.refreshViewport()
			return m, nil
		}
	}
	var cmd tea.Cmd
	switch m.activeTab {
	case tabDwell:
		m.dwell, cmd = m.dwell.Update(msg)
	case tabFlight:
		m.flight, cmd = m.flight.Update(msg)
	case tabDigraphs:
		m.digraphs, cmd = m.digraphs.Update(msg)
	case tabConfusion:
		m.confusion, cmd = m.confusion.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	nav := m.renderNav()
	var body string
	switch m.activeTab {
	case tabDwell:
		body = m.dwell.View()
	case tabFlight:
		body = m.flight.View()
	case tabDigraphs:
		body = m.digraphs.View()
	case tabConfusion:
		body = m.confusion.View()
	default:
		body = m.viewport.View()
	}
	help := headerStyle.Render("tab/←→ switch · ↑↓ scroll · q quit")
	return nav + "\n" + body + "\n" + help
}

func (m *Model) layout() {
	bodyHeight := m.height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.viewport = viewport.New(m.width, bodyHeight)
	for _, t := range []*table.Model{&m.dwell, &m.flight, &m.digraphs, &m.confusion} {
		t.SetHeight(bodyHeight)
	}
	m.ready = true
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	switch m.activeTab {
	case tabOverview:
		var buf bytes.Buffer
		_ = renderSummary(&buf, m.rec)
		_ = renderShiftCost(&buf, m.report.ShiftCost)
		m.viewport.SetContent(buf.String())
	case tabRhythm:
		var buf bytes.Buffer
		_ = renderRhythm(&buf, m.report.Rhythm, m.width)
		m.viewport.SetContent(buf.String())
	}
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return strings.Join(parts, " ")
}

func keyStatTable(keys []analysis.KeyStat, fingers []analysis.FingerStat) table.Model {
	columns := []table.Column{
		{Title: "Key", Width: 12},
		{Title: "Mean (ms)", Width: 10},
		{Title: "Samples", Width: 8},
	}
	rows := make([]table.Row, 0, len(keys)+len(fingers))
	for _, ks := range keys {
		rows = append(rows, table.Row{keyLabel(ks.Key), fmt.Sprintf("%.1f", ks.MeanMs), fmt.Sprintf("%d", ks.Count)})
	}
	for _, fs := range fingers {
		rows = append(rows, table.Row{string(fs.Finger), fmt.Sprintf("%.1f", fs.MeanMs), fmt.Sprintf("%d", fs.Keys)})
	}
	return newTable(columns, rows)
}

func digraphTable(digraphs []analysis.DigraphStat) table.Model {
	columns := []table.Column{
		{Title: "Pair", Width: 6},
		{Title: "Mean (ms)", Width: 10},
		{Title: "Samples", Width: 8},
		{Title: "Fingers", Width: 26},
	}
	rows := make([]table.Row, 0, len(digraphs))
	for _, d := range digraphs {
		fingers := fmt.Sprintf("%s→%s", d.FromFinger, d.ToFinger)
		if d.SameFinger {
			fingers += " (same)"
		}
		rows = append(rows, table.Row{
			keyLabel(d.From) + keyLabel(d.To),
			fmt.Sprintf("%.1f", d.MeanMs),
			fmt.Sprintf("%d", d.Count),
			fingers,
		})
	}
	return newTable(columns, rows)
}

func confusionTable(groups []analysis.ConfusionGroup) table.Model {
	columns := []table.Column{
		{Title: "Expected", Width: 9},
		{Title: "Errors", Width: 7},
		{Title: "Typed", Width: 30},
	}
	rows := make([]table.Row, 0, len(groups))
	for _, g := range groups {
		alts := make([]string, 0, len(g.Alternatives))
		for _, alt := range g.Alternatives {
			alts = append(alts, fmt.Sprintf("%s×%d", keyLabel(alt.Typed), alt.Count))
		}
		rows = append(rows, table.Row{keyLabel(g.Expected), fmt.Sprintf("%d", g.TotalErrors), strings.Join(alts, " ")})
	}
	return newTable(columns, rows)
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(false)
	t.SetStyles(styles)
	return t
}
