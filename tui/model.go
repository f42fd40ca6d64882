// Package tui implements the dashboard client: a Bubble Tea program that
// connects to a running ssh-agent-notifyd's -http event stream and lists
// observed SignRequest events as they arrive.
//
// Grounded on tui/model.go's Bubble Tea wiring (Init/Update/View, a
// streaming Cmd that re-arms itself by returning the next receive as a
// Cmd), trimmed down from its multi-view SQL inspector to a single
// scrolling list plus a copy-fingerprint action.
package tui

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ssh-agent-notify/clipboard"
)

// event mirrors web.eventJSON; the client decodes the same JSON it does
// not itself define, since it may run on a different host than the
// daemon.
type event struct {
	SessionID   string `json:"session_id"`
	Time        string `json:"time"`
	Comment     string `json:"comment"`
	Algorithm   string `json:"algorithm"`
	Bits        int    `json:"bits"`
	Fingerprint string `json:"fingerprint"`
}

// Model is the Bubble Tea model for the dashboard client.
type Model struct {
	target string

	events []event
	cursor int
	follow bool
	width  int
	height int
	err    error

	scanner *bufio.Scanner
	body    interface{ Close() error }
}

// eventMsg carries one decoded event from the SSE stream.
type eventMsg struct{ Event event }

// errMsg carries a connection or stream error.
type errMsg struct{ Err error }

// connectedMsg is sent once the SSE connection is established.
type connectedMsg struct {
	scanner *bufio.Scanner
	body    interface{ Close() error }
}

// New creates a Model that will stream events from target's /api/events
// endpoint (target is a base URL, e.g. "http://localhost:8080").
func New(target string) Model {
	return Model{target: target, follow: true}
}

// Init starts the SSE connection.
func (m Model) Init() tea.Cmd {
	return connect(m.target)
}

func connect(target string) tea.Cmd {
	return func() tea.Msg {
		resp, err := http.Get(strings.TrimRight(target, "/") + "/api/events")
		if err != nil {
			return errMsg{Err: fmt.Errorf("connect %s: %w", target, err)}
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return errMsg{Err: fmt.Errorf("connect %s: status %s", target, resp.Status)}
		}
		return connectedMsg{scanner: bufio.NewScanner(resp.Body), body: resp.Body}
	}
}

func recvEvent(scanner *bufio.Scanner) tea.Cmd {
	return func() tea.Msg {
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}
			var ev event
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				continue
			}
			return eventMsg{Event: ev}
		}
		if err := scanner.Err(); err != nil {
			return errMsg{Err: err}
		}
		return errMsg{Err: context.Canceled}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		m.scanner = msg.scanner
		m.body = msg.body
		return m, recvEvent(msg.scanner)

	case eventMsg:
		m.events = append(m.events, msg.Event)
		if m.follow {
			m.cursor = max(len(m.events)-1, 0)
		}
		return m, recvEvent(m.scanner)

	case errMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.body != nil {
			_ = m.body.Close()
		}
		return m, tea.Quit
	case "c":
		if m.cursor >= 0 && m.cursor < len(m.events) {
			_ = clipboard.Copy(context.Background(), m.events[m.cursor].Fingerprint)
		}
		return m, nil
	case "j", "down":
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}
		if m.cursor == len(m.events)-1 {
			m.follow = true
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.follow = false
		}
		return m, nil
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.err != nil {
		return friendlyError(m.err, m.width)
	}
	if len(m.events) == 0 {
		return "Waiting for sign requests...\n\n  q: quit"
	}

	header := lipgloss.NewStyle().Bold(true).Render(
		padRight("TIME", 9) + padRight("COMMENT", 24) + padRight("ALGORITHM", 10) + padRight("BITS", 6) + "FINGERPRINT")

	var rows []string
	rows = append(rows, header)
	for i, ev := range m.events {
		line := padRight(displayTime(ev.Time), 9) + padRight(truncate(ev.Comment, 23), 24) +
			padRight(ev.Algorithm, 10) + padRight(fmt.Sprintf("%d", ev.Bits), 6) + ev.Fingerprint
		if i == m.cursor {
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		}
		rows = append(rows, line)
	}

	footer := "q: quit  j/k: navigate  c: copy fingerprint"
	return strings.Join(append(rows, "", footer), "\n")
}

func displayTime(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339Nano, rfc3339)
	if err != nil {
		return "-"
	}
	return formatTime(t)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
