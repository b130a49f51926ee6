package shell

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tartampluch/go-phonebook/internal/assistant"
)

// Theme holds the styles used by the REPL.
type Theme struct {
	Banner  lipgloss.Style
	Welcome lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds the default palette for out. Colors are dropped
// automatically when out is not a terminal.
func NewTheme(out io.Writer) Theme {
	r := lipgloss.NewRenderer(out)
	return Theme{
		Banner:  r.NewStyle().Foreground(lipgloss.Color("63")),
		Welcome: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Prompt:  r.NewStyle().Foreground(lipgloss.Color("3")),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("7")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// For picks the style matching a result status.
func (t Theme) For(s assistant.Status) lipgloss.Style {
	switch s {
	case assistant.StatusError:
		return t.Error
	case assistant.StatusInfo:
		return t.Info
	}
	return t.Success
}

// paint styles each line on its own; lipgloss pads multi-line blocks to the widest line.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
