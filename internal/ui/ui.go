// Package ui prints the human-readable status lines of the CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out receives everything this package prints.
var Out io.Writer = os.Stdout

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

func ShowHeader(title string) {
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
	fmt.Fprintf(Out, " %s\n", labelStyle.Render(title))
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
}

// ShowField prints an indented "label: value" line.
func ShowField(label string, value any) {
	fmt.Fprintf(Out, "   %s %v\n", labelStyle.Render(label+":"), value)
}

// ShowItem prints one list entry. Inactive entries are dimmed.
func ShowItem(active bool, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !active {
		line = mutedStyle.Render(line)
	}
	fmt.Fprintf(Out, "   %s\n", line)
}

func ShowSuccess(format string, args ...any) {
	fmt.Fprintf(Out, " %s %s\n", okStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func ShowError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(Out, " %s %s: %v\n", errStyle.Render("✗"), msg, err)
	} else {
		fmt.Fprintf(Out, " %s %s\n", errStyle.Render("✗"), msg)
	}
}

func ShowWarning(format string, args ...any) {
	fmt.Fprintf(Out, " %s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, args...))
}

func ShowInfo(format string, args ...any) {
	fmt.Fprintf(Out, " %s %s\n", infoStyle.Render("ℹ"), fmt.Sprintf(format, args...))
}
