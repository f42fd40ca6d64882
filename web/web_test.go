package web_test

import (
	"bufio"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ssh-agent-notify/broker"
	"ssh-agent-notify/proxy"
	"ssh-agent-notify/web"
)

func TestHealthz(t *testing.T) {
	b := broker.New[proxy.SignEvent](8)
	s := web.New(b)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Fatalf("body = %q, want ok", rec.Body.String())
	}
}

func TestSSEStreamsPublishedEvents(t *testing.T) {
	b := broker.New[proxy.SignEvent](8)
	s := web.New(b)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// Give the handler a moment to reach its Subscribe call before we
	// publish, since the subscription happens asynchronously relative to
	// this goroutine's Get returning.
	time.Sleep(50 * time.Millisecond)

	b.Publish(proxy.SignEvent{
		SessionID:   "sess-1",
		Comment:     "user@host",
		Algorithm:   "ED25519",
		Bits:        256,
		Fingerprint: "SHA256:abc",
	})

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read SSE line: %v", err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("line = %q, want data: prefix", line)
	}
	if !strings.Contains(line, "user@host") || !strings.Contains(line, "SHA256:abc") {
		t.Fatalf("line = %q, missing expected fields", line)
	}
}

func TestIndexPageMentionsEventsEndpoint(t *testing.T) {
	b := broker.New[proxy.SignEvent](8)
	s := web.New(b)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/events") {
		t.Fatalf("body does not mention /api/events: %s", rec.Body.String())
	}
}
