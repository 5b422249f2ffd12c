package cli

import (
	"strings"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ticktrackHuhTheme returns a huh theme using the formatter palette.
func ticktrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskNameForm asks for the name of the task to start.
func taskNameForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you working on?").
				Placeholder("task name").
				Value(value).
				Validate(validateTaskName),
		),
	).WithTheme(ticktrackHuhTheme()).WithShowHelp(false)
}

func validateTaskName(s string) error {
	_, err := domain.NormalizeTaskName(s)
	return err
}

// promptTaskName runs taskNameForm on the terminal.
func promptTaskName(name *string) error {
	if err := taskNameForm(name).Run(); err != nil {
		return err
	}
	*name = strings.TrimSpace(*name)
	return nil
}
