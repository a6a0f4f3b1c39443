// Package color styles terminal output for task.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var state struct {
	once       sync.Once
	enabled    atomic.Bool
	overridden atomic.Bool
}

// Init decides whether output is styled, from NO_COLOR, TERM and the flag.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		disabled := noColorFlag
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			disabled = true
		}
		if os.Getenv("TERM") == "dumb" {
			disabled = true
		}
		if !state.overridden.Load() {
			state.enabled.Store(!disabled)
		}
	})
}

// Enabled returns true if styled output is enabled.
func Enabled() bool {
	Init(false)
	return state.enabled.Load()
}

// Disable turns off styled output.
func Disable() {
	state.overridden.Store(true)
	state.enabled.Store(false)
}

// Enable turns on styled output. Lipgloss still drops escape codes when
// stdout is not a terminal.
func Enable() {
	state.overridden.Store(true)
	state.enabled.Store(true)
}

var (
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	codeStyle      = lipgloss.NewStyle().Bold(true).Faint(true)
	idStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	statusStyles = map[string]lipgloss.Style{
		"inbox":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"todo":     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"doing":    lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		"blocked":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		"inreview": lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		"done":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func render(style lipgloss.Style, s string) string {
	if !Enabled() || s == "" {
		return s
	}
	return style.Render(s)
}

// Success formats a success message in green.
func Success(s string) string {
	return render(successStyle, s)
}

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error formats an error message in red.
func Error(s string) string {
	return render(errorStyle, s)
}

// Errorf formats an error message with printf-style arguments.
func Errorf(format string, args ...any) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warning formats a warning message in yellow.
func Warning(s string) string {
	return render(warningStyle, s)
}

// Info formats an informational message in cyan.
func Info(s string) string {
	return render(infoStyle, s)
}

// TaskID formats a task id.
func TaskID(s string) string {
	return render(idStyle, s)
}

// Status formats a status label in its lifecycle colour. Unknown statuses
// are returned unstyled. Pad before styling to keep columns aligned.
func Status(padded, status string) string {
	style, ok := statusStyles[status]
	if !ok {
		return padded
	}
	return render(style, padded)
}

// Header formats a header in bold.
func Header(s string) string {
	return render(headerStyle, s)
}

// Dim formats secondary information.
func Dim(s string) string {
	return render(dimStyle, s)
}

// Highlight highlights important text.
func Highlight(s string) string {
	return render(highlightStyle, s)
}

// Code formats command strings.
func Code(s string) string {
	return render(codeStyle, s)
}
