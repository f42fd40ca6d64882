package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format("15:04:05") //nolint:gosmopolitan // TUI displays local time
}

func friendlyError(err error, width int) string {
	msg := err.Error()

	var text string
	switch {
	case strings.Contains(msg, "connection refused"):
		text = "Could not connect to ssh-agent-notifyd.\n" +
			"Is the daemon running with -http set?\n\n" +
			"Error: " + msg
	default:
		text = "Error: " + msg
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}
