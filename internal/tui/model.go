package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textools/internal/processor"
)

const recentLines = 6

// Model renders a running batch from its event stream. It quits when the
// stream is closed or the user presses ctrl+c / q; in the latter case the
// caller must cancel the batch and keep draining the stream.
type Model struct {
	events      <-chan processor.Event
	title       string
	started     time.Time
	width       int
	bar         progress.Model
	total       int
	done        int
	errors      int
	recent      []string
	quitting    bool
	interrupted bool
}

type doneMsg struct{}

type eventMsg processor.Event

func NewModel(title string, events <-chan processor.Event) Model {
	bar := progress.New(progress.WithGradient(string(ColorAccent), string(ColorAccentAlt)), progress.WithWidth(40))
	bar.ShowPercentage = false
	return Model{events: events, title: title, started: time.Now(), bar: bar}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(processor.Event(msg))
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(60, max(20, msg.Width-10))
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(ev processor.Event) {
	if ev.Total > m.total {
		m.total = ev.Total
	}
	switch ev.Level {
	case processor.LevelProgress:
		m.done = ev.Done
		return
	case processor.LevelError:
		m.errors++
	}
	if ev.Name == "" {
		return
	}
	m.recent = append(m.recent, formatEvent(ev))
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
}

// Interrupted reports whether the user asked to stop.
func (m Model) Interrupted() bool {
	return m.interrupted
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = min(1, float64(m.done)/float64(m.total))
	}
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("textools · " + m.title),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.done, m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(ratio),
	}
	for _, line := range m.recent {
		lines = append(lines, dimStyle.Render(line))
	}
	lines = append(lines, dimStyle.Render("q to stop"))

	return strings.Join(lines, "\n")
}

func formatEvent(ev processor.Event) string {
	if ev.Level == processor.LevelError && ev.Err != nil {
		return errorStyle.Render(fmt.Sprintf("%s: %v", ev.Name, ev.Err))
	}
	return fmt.Sprintf("%s: %s", ev.Name, ev.Message)
}

func listenForEvents(events <-chan processor.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError)
)
