// Package tui provides the Bubble Tea typing interface.
//
// The TUI is one input source for the capture machine. Terminals do not
// report key release, so every press is paired with a synthetic release at
// the same timestamp; hold-time views read as zero for TUI sessions while
// inter-key views stay meaningful.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keyrhythm/internal/capture"
	"keyrhythm/internal/generator"
	"keyrhythm/internal/model"
	"keyrhythm/internal/session"
	"keyrhythm/internal/store"
)

const tickInterval = 250 * time.Millisecond

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type tickMsg time.Time

type savedMsg struct {
	id  string
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	words  []string

	machine *capture.Machine

	width  int
	height int

	lastID    string
	lastAcc   float64
	lastCPM   float64
	hasLast   bool
	saveError string
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, words []string) *Model {
	m := &Model{
		config: cfg,
		store:  st,
		gen:    gen,
		words:  words,
	}
	m.resetSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.durationExpired() {
			m.machine.End()
			cmd := m.finishSession()
			m.resetSession()
			return m, tea.Batch(cmd, tick())
		}
		return m, tick()
	case savedMsg:
		if msg.err != nil {
			m.saveError = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.lastID = msg.id
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		var cmd tea.Cmd
		if m.machine.State() == capture.Active {
			m.machine.End()
			cmd = m.finishSession()
		}
		return m, tea.Batch(cmd, tea.Quit)
	case tea.KeyBackspace, tea.KeyDelete:
		m.press(capture.KeyBackspace, now, msg.Alt)
		return m, nil
	case tea.KeySpace:
		m.press(" ", now, msg.Alt)
		return m.afterInput()
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.press(string(r), now, msg.Alt)
		}
		return m.afterInput()
	default:
		return m, nil
	}
}

// press feeds one signal pair into the machine. The synthetic release
// carries the same timestamp as the press.
func (m *Model) press(key string, at time.Time, alt bool) {
	mods := capture.Modifiers{Alt: alt}
	m.machine.HandlePress(key, at, mods)
	m.machine.HandleRelease(key, at)
}

func (m *Model) afterInput() (tea.Model, tea.Cmd) {
	if m.machine.State() == capture.Ended {
		cmd := m.finishSession()
		m.resetSession()
		return m, cmd
	}
	return m, nil
}

func (m *Model) durationExpired() bool {
	if m.config.Mode != model.ModeDuration || m.machine.State() != capture.Active {
		return false
	}
	return time.Since(m.machine.StartedAt()) >= time.Duration(m.config.Duration)*time.Second
}

// finishSession finalizes the record and hands it to the store from a
// command, so persistence never blocks the input loop.
func (m *Model) finishSession() tea.Cmd {
	if m.machine.StartedAt().IsZero() {
		return nil
	}
	rec := session.Finalize(m.machine, m.config, time.Now())
	m.lastAcc = rec.AccuracyPercent
	m.lastCPM = rec.ProductiveCPM
	m.hasLast = true
	st := m.store
	return func() tea.Msg {
		if st == nil {
			return savedMsg{id: rec.SessionID}
		}
		if err := st.CreateSession(context.Background(), rec); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{id: rec.SessionID}
	}
}

func (m *Model) resetSession() {
	source := generator.NewSource(m.gen, m.words, m.config.CapsPct, m.config.PunctPct, []rune(m.config.PunctSet))
	text := strings.Join(source.Words(m.config.Words), " ")
	m.machine = capture.New(m.config.Mode, m.modeValue(), text, source)
}

func (m *Model) modeValue() int {
	if m.config.Mode == model.ModeWords {
		return m.config.Words
	}
	return m.config.Duration
}

// View implements tea.Model.
func (m *Model) View() string {
	ledger := m.machine.Ledger()
	if len(ledger) == 0 {
		return ""
	}
	styledRunes := buildStyledRunes(ledger, m.machine.Cursor())
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	segments := []string{}
	switch m.config.Mode {
	case model.ModeDuration:
		remaining := time.Duration(m.config.Duration) * time.Second
		if m.machine.State() == capture.Active {
			remaining -= time.Since(m.machine.StartedAt())
			if remaining < 0 {
				remaining = 0
			}
		}
		segments = append(segments, fmt.Sprintf("Time %ds", int(remaining.Seconds())))
	case model.ModeWords:
		progress := 0
		if target := len(m.machine.Target()); target > 0 {
			progress = m.machine.Cursor() * 100 / target
		}
		segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	}
	segments = append(segments, fmt.Sprintf("Accuracy %.1f%%", m.machine.Accuracy()))
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.0f CPM · %.1f%%", m.lastCPM, m.lastAcc))
	}
	if m.saveError != "" {
		segments = append(segments, m.saveError)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// LastSessionID returns the id of the most recently saved session.
func (m *Model) LastSessionID() string {
	return m.lastID
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
