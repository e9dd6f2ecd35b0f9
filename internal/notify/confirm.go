package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Prompt struct {
	Title   string
	Message string
}

// Confirmer asks the user to approve an action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// AutoConfirm answers every prompt with its own value.
type AutoConfirm bool

func (a AutoConfirm) Confirm(ctx context.Context, _ Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(a), nil
}

// TerminalConfirmer shows a y/N prompt on a terminal.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out}
}

func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p := tea.NewProgram(
		newConfirmModel(prompt),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
		tea.WithoutSignalHandler(),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return false, nil
		}
		return false, fmt.Errorf("run confirmation prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}
	return m.accepted, nil
}

type confirmModel struct {
	prompt   Prompt
	accepted bool
	done     bool
}

func newConfirmModel(prompt Prompt) confirmModel {
	return confirmModel{prompt: prompt}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y", "o":
		m.accepted = true
	case "n", "enter", "esc", "ctrl+c", "q":
		m.accepted = false
	default:
		return m, nil
	}

	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		answer := "no"
		if m.accepted {
			answer = "yes"
		}
		return fmt.Sprintf("%s [y/N]: %s\n", m.prompt.Message, answer)
	}

	out := ""
	if m.prompt.Title != "" {
		out += m.prompt.Title + "\n"
	}
	return out + m.prompt.Message + " [y/N]: "
}
