package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/tozd/go/errors"
)

const maxListed = 10

// Confirm is a yes/no prompt listing the files about to be deleted. Anything
// but y counts as no.
type Confirm struct {
	dir      string
	names    []string
	answered bool
	yes      bool
}

func NewConfirm(dir string, names []string) Confirm {
	return Confirm{dir: dir, names: names}
}

func (m Confirm) Init() tea.Cmd {
	return nil
}

func (m Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes = true
	case "n", "N", "enter", "esc", "ctrl+c", "q":
		m.yes = false
	default:
		return m, nil
	}
	m.answered = true
	return m, tea.Quit
}

// Yes reports whether the user agreed.
func (m Confirm) Yes() bool {
	return m.answered && m.yes
}

func (m Confirm) View() string {
	if m.answered {
		return ""
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("Delete %d files from %s?", len(m.names), m.dir)),
	}
	for i, name := range m.names {
		if i == maxListed {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.names)-maxListed)))
			break
		}
		lines = append(lines, labelStyle.Render("  "+name))
	}
	lines = append(lines, warnStyle.Render("This cannot be undone. [y/N]"))
	return strings.Join(lines, "\n")
}

// Prompter asks for deletion confirmation on a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompter) ConfirmDeletion(ctx context.Context, dir string, names []string) (bool, error) {
	var opts []tea.ProgramOption
	opts = append(opts, tea.WithContext(ctx))
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(NewConfirm(dir, names), opts...).Run()
	if err != nil {
		return false, errors.Errorf("confirmation prompt: %w", err)
	}
	m, ok := final.(Confirm)
	return ok && m.Yes(), nil
}

var warnStyle = titleStyle.Foreground(ColorWarn)
