// Package output prints user-facing messages with severity-colored
// prefixes on stderr, and styled summary lines for the setup and status
// commands. Logging (zerolog) is for diagnostics; this package is what
// the operator actually reads.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Writer is where messages go. Overridable for tests.
var Writer io.Writer = os.Stderr

// colorized reports whether stderr wants styled output.
func colorized() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func prefix(style lipgloss.Style, label string) string {
	if colorized() {
		return style.Render(label)
	}
	return label
}

// Info prints an informational message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(Writer, "%s %s\n", prefix(infoStyle, "info:"), fmt.Sprintf(format, args...))
}

// Warn prints a warning.
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(Writer, "%s %s\n", prefix(warnStyle, "warn:"), fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(format string, args ...interface{}) {
	fmt.Fprintf(Writer, "%s %s\n", prefix(errorStyle, "error:"), fmt.Sprintf(format, args...))
}

// Success prints a completion message.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(Writer, "%s %s\n", prefix(okStyle, "ok:"), fmt.Sprintf(format, args...))
}

// Muted renders de-emphasized detail text (paths, reasons).
func Muted(s string) string {
	if colorized() {
		return mutedStyle.Render(s)
	}
	return s
}
