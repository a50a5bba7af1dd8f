package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"textools/internal/processor"
	"textools/internal/texture"
)

func feed(t *testing.T, m Model, events ...processor.Event) Model {
	t.Helper()
	for _, ev := range events {
		next, cmd := m.Update(eventMsg(ev))
		require.NotNil(t, cmd)
		m = next.(Model)
	}
	return m
}

func TestModelTracksEvents(t *testing.T) {
	m := NewModel("flip", nil)
	m = feed(t, m,
		processor.Event{Level: processor.LevelInfo, Message: "found 3 files", Total: 3},
		processor.Event{Level: processor.LevelInfo, Name: "a.png", Message: "flipped"},
		processor.Event{Level: processor.LevelProgress, Done: 1, Total: 3},
		processor.Event{Level: processor.LevelError, Name: "b.png", Message: "failed", Err: errors.New("boom")},
		processor.Event{Level: processor.LevelProgress, Done: 2, Total: 3},
	)

	require.Equal(t, 3, m.total)
	require.Equal(t, 2, m.done)
	require.Equal(t, 1, m.errors)
	require.Len(t, m.recent, 2)

	view := m.View()
	require.Contains(t, view, "Files: 2/3")
	require.Contains(t, view, "errors:1")
	require.Contains(t, view, "a.png: flipped")
	require.Contains(t, view, "b.png: boom")
}

func TestModelKeepsRecentLinesBounded(t *testing.T) {
	m := NewModel("sync", nil)
	for i := 0; i < 20; i++ {
		m = feed(t, m, processor.Event{Level: processor.LevelInfo, Name: "x.png", Message: "copied"})
	}
	require.Len(t, m.recent, recentLines)
}

func TestModelQuits(t *testing.T) {
	m := NewModel("flip", nil)

	next, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	require.False(t, next.(Model).Interrupted())
	require.Empty(t, next.View())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, next.(Model).Interrupted())
}

func TestListenForEvents(t *testing.T) {
	ch := make(chan processor.Event, 1)
	ch <- processor.Event{Message: "hello"}
	close(ch)

	cmd := listenForEvents(ch)
	require.Equal(t, eventMsg(processor.Event{Message: "hello"}), cmd())
	require.Equal(t, doneMsg{}, cmd())
}

func TestConfirm(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = "tex.png"
	}
	m := NewConfirm("/textures", names)

	view := m.View()
	require.Contains(t, view, "Delete 12 files from /textures?")
	require.Contains(t, view, "and 2 more")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Nil(t, cmd)
	require.False(t, next.(Confirm).Yes())

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	require.True(t, next.(Confirm).Yes())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, next.(Confirm).Yes())
}

func TestRenderSummary(t *testing.T) {
	s := processor.Summary{Total: 3, Succeeded: 1, Skipped: 1, Errored: 1}
	out := RenderSummary(SummaryRows("fill", s, 1500*time.Millisecond))

	require.Contains(t, out, "Tool")
	require.Contains(t, out, "fill")
	require.Contains(t, out, "1.5s")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	require.Equal(t, lines[0], lines[len(lines)-1])
}

func TestSummaryRowsHighlightCounts(t *testing.T) {
	rows := SummaryRows("flip", processor.Summary{Total: 2, Succeeded: 2}, time.Second)
	colors := map[string]lipgloss.Color{}
	for _, row := range rows {
		colors[row.Label] = row.Color
	}
	require.Equal(t, ColorSuccess, colors["Succeeded"])
	require.Empty(t, colors["Skipped"])
	require.Empty(t, colors["Errored"])
	require.Empty(t, colors["Tool"])

	rows = SummaryRows("flip", processor.Summary{Total: 2, Skipped: 1, Errored: 1}, time.Second)
	require.Equal(t, ColorWarn, rows[3].Color)
	require.Equal(t, ColorError, rows[4].Color)
	require.Empty(t, rows[2].Color)
}

func TestRenderFailures(t *testing.T) {
	require.Empty(t, RenderFailures(processor.Summary{}))

	s := processor.Summary{Results: []processor.Result{
		{Name: "ok.png", Outcome: processor.OutcomeSucceeded},
		{Name: "bad.png", Outcome: processor.OutcomeErrored, Err: errors.New("permission denied")},
	}}
	out := RenderFailures(s)
	require.Contains(t, out, "bad.png: permission denied")
	require.NotContains(t, out, "ok.png")
}

func TestSwatch(t *testing.T) {
	for _, c := range texture.FillColors() {
		require.Contains(t, Swatch(c), c.String())
	}
}
