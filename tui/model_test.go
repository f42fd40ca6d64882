package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateAppendsEventAndFollowsCursor(t *testing.T) {
	m := New("http://example.invalid")
	m.width, m.height = 80, 24

	updated, _ := m.Update(eventMsg{Event: event{Comment: "a@host", Algorithm: "ED25519", Bits: 256}})
	mm := updated.(Model)
	if len(mm.events) != 1 || mm.cursor != 0 {
		t.Fatalf("events=%v cursor=%d", mm.events, mm.cursor)
	}

	updated, _ = mm.Update(eventMsg{Event: event{Comment: "b@host"}})
	mm = updated.(Model)
	if len(mm.events) != 2 || mm.cursor != 1 {
		t.Fatalf("want follow to cursor 1, got cursor=%d", mm.cursor)
	}
}

func TestUpdateKeyNavigationStopsFollowing(t *testing.T) {
	m := New("http://example.invalid")
	m.width, m.height = 80, 24
	m.events = []event{{Comment: "a"}, {Comment: "b"}, {Comment: "c"}}
	m.cursor = 2
	m.follow = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	mm := updated.(Model)
	if mm.cursor != 1 || mm.follow {
		t.Fatalf("cursor=%d follow=%v, want cursor=1 follow=false", mm.cursor, mm.follow)
	}
}

func TestUpdateErrMsgSetsErr(t *testing.T) {
	m := New("http://example.invalid")
	updated, _ := m.Update(errMsg{Err: errSentinel{}})
	mm := updated.(Model)
	if mm.err == nil {
		t.Fatalf("want err set")
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "boom" }

func TestViewEmptyBeforeSize(t *testing.T) {
	m := New("http://example.invalid")
	if v := m.View(); v != "" {
		t.Fatalf("View() before WindowSizeMsg = %q, want empty", v)
	}
}
