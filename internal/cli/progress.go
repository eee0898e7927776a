package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressSpinner shows a spinner on stderr while a backend call runs
type ProgressSpinner struct {
	spinner spinner.Model
	message string
	out     io.Writer
	enabled bool
	style   lipgloss.Style

	program *tea.Program
	done    chan struct{}
}

// NewProgressSpinner creates a new progress spinner. It stays silent unless
// stderr is a terminal, colors are allowed and CI is unset.
func NewProgressSpinner(message string, noColor bool) *ProgressSpinner {
	enabled := !noColor && os.Getenv("CI") == "" && isTerminal(os.Stderr)
	return newProgressSpinner(os.Stderr, message, enabled)
}

func newProgressSpinner(out io.Writer, message string, enabled bool) *ProgressSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return &ProgressSpinner{
		spinner: s,
		message: message,
		out:     out,
		enabled: enabled,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Start begins the spinner in a goroutine
func (p *ProgressSpinner) Start() {
	if !p.enabled || p.program != nil {
		return
	}

	p.done = make(chan struct{})
	p.program = tea.NewProgram(&spinnerProgram{
		spinner: p.spinner,
		message: p.message,
		style:   p.style,
	}, tea.WithOutput(p.out), tea.WithInput(nil))

	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

// Stop stops the spinner and waits for it to clear its line
func (p *ProgressSpinner) Stop() {
	if p.program == nil {
		return
	}
	p.program.Send(completeMsg{})
	<-p.done
	p.program = nil
}

// Run calls fn with the spinner shown.
func (p *ProgressSpinner) Run(fn func() error) error {
	p.Start()
	defer p.Stop()
	return fn()
}

// spinnerProgram implements the tea.Model interface for the spinner
type spinnerProgram struct {
	spinner  spinner.Model
	message  string
	style    lipgloss.Style
	quitting bool
}

func (s *spinnerProgram) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s *spinnerProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			s.quitting = true
			return s, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case completeMsg:
		s.quitting = true
		return s, tea.Quit
	}
	return s, nil
}

func (s *spinnerProgram) View() string {
	if s.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", s.spinner.View(), s.style.Render(s.message))
}

type completeMsg struct{}
