package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerModel animates while a stage's external process runs. It leaves
// nothing behind on screen; the Reporter prints the outcome.
type SpinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(Info)
	return SpinnerModel{
		spinner: s,
		message: message,
	}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SpinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + lipgloss.NewStyle().Foreground(Muted).Render(m.message) + "\n"
}

type doneMsg struct{}

// RunWithSpinner runs fn on its own goroutine and blocks until it returns.
// On an interactive terminal a spinner is shown meanwhile; elsewhere fn runs
// inline.
func RunWithSpinner(message string, fn func() error) error {
	if !IsInteractiveTerminal() || colorDisabled {
		return fn()
	}

	// No input: the terminal keeps delivering ^C as SIGINT to the caller.
	p := tea.NewProgram(NewSpinner(message), tea.WithInput(nil))

	errChan := make(chan error, 1)
	go func() {
		err := fn()
		errChan <- err
		p.Send(doneMsg{})
	}()

	// A broken terminal only costs the animation, never the result.
	_, _ = p.Run()

	return <-errChan
}
