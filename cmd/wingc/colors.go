package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleYes   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Colorize renders text with style if color is enabled.
func Colorize(text string, style lipgloss.Style, useColor bool) string {
	if !useColor {
		return text
	}
	return style.Render(text)
}

// ShouldUseColor determines if color output should be used for w.
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(w io.Writer, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
