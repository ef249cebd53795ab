package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/buddy/internal"
)

// prompter reads one line of chat input. It returns io.EOF when the user is done.
type prompter interface {
	Prompt() (string, error)
}

func newPrompter(in io.Reader, out io.Writer) prompter {
	if f, ok := in.(*os.File); ok && f == os.Stdin && internal.IsTerminal(os.Stdin) && internal.IsTerminal(out) {
		return &teaPrompter{in: in, out: out}
	}
	return &linePrompter{scanner: bufio.NewScanner(in), out: out}
}

// linePrompter reads plain lines, for pipes and redirected input
type linePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *linePrompter) Prompt() (string, error) {
	fmt.Fprint(p.out, "> ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// teaPrompter runs a single-line text input program per prompt
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *teaPrompter) Prompt() (string, error) {
	m, err := tea.NewProgram(newInputModel(), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", err
	}
	input := m.(inputModel)
	if input.quit {
		return "", io.EOF
	}
	return input.value, nil
}

type inputModel struct {
	input textinput.Model
	value string
	quit  bool
}

func newInputModel() inputModel {
	ti := textinput.New()
	ti.Placeholder = "Ask me anything... (Enter to send, /q or Ctrl+C to exit)"
	ti.Prompt = "> "
	ti.PromptStyle = userMessageStyle
	ti.CharLimit = 4096
	ti.Width = 80
	ti.Focus()
	return inputModel{input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.value != "" || m.quit {
		// leave the submitted line in the scrollback
		return m.input.Prompt + m.value + "\n"
	}
	return m.input.View()
}
