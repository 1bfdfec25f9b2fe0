package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/raphi011/repo-check/internal/ui/styles"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt    string
	details   string
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			// Default to no
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	var b strings.Builder
	if m.details != "" {
		b.WriteString(m.details)
		if !strings.HasSuffix(m.details, "\n") {
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "%s %s ", styles.PrimaryStyle.Render(m.prompt), styles.MutedStyle.Render("[y/N]"))
	return tea.NewView(b.String())
}

// Confirm shows a yes/no prompt on stderr and returns the user's choice.
// details is rendered above the question, e.g. the list of affected paths.
// The default answer is "no" if the user presses enter without input.
func Confirm(prompt, details string) (ConfirmResult, error) {
	model := confirmModel{prompt: prompt, details: details}
	p := tea.NewProgram(model,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	finalModel, err := p.Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m := finalModel.(confirmModel)
	return ConfirmResult{
		Confirmed: m.confirmed,
		Cancelled: m.cancelled,
	}, nil
}

// ConfirmLine asks a yes/no question on w and reads one line from r.
// It is used when stdin is not a terminal. Only "y" and "yes" (any case)
// confirm; end of input counts as cancelled. Callers asking several
// questions must share one reader so buffered answers are not lost.
func ConfirmLine(r *bufio.Reader, w io.Writer, prompt string) (ConfirmResult, error) {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ConfirmResult{}, fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(w)
		return ConfirmResult{Cancelled: true}, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return ConfirmResult{Confirmed: true}, nil
	default:
		return ConfirmResult{}, nil
	}
}
