package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptAborted is returned when the user cancels the prompt.
var ErrPromptAborted = errors.New("prompt aborted")

// PromptSourceDir interactively asks for the directory containing the order
// documents. Callers must check IsInteractive() before using this.
func PromptSourceDir() (string, error) {
	model := newSourceDirModel()

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(sourceDirModel)
	if !ok || m.aborted {
		return "", ErrPromptAborted
	}

	return strings.TrimSpace(m.input.Value()), nil
}

type sourceDirModel struct {
	input   textinput.Model
	err     error
	done    bool
	aborted bool
}

func newSourceDirModel() sourceDirModel {
	ti := textinput.New()
	ti.Placeholder = "./orders"
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()

	return sourceDirModel{input: ti}
}

func (m sourceDirModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m sourceDirModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if err := validateSourceDir(value); err != nil {
				m.err = err
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m sourceDirModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Load orders"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Directory containing the order JSON documents:"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(SymbolCross + " " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter confirm • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func validateSourceDir(path string) error {
	if path == "" {
		return errors.New("a directory is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory %q does not exist", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", path)
	}

	return nil
}
