// Package web serves the daemon's optional HTTP surface: a liveness check
// and a live SSE feed of observed SignRequest events, for the TUI dashboard
// client (or any other watcher) to consume without holding the Unix
// broker.Broker subscription itself.
//
// Grounded on web/web.go, trimmed to drop its EXPLAIN endpoint and
// embedded static/ directory (neither survives into this domain: there is
// no SQL to EXPLAIN, and the static assets directory was never retrieved)
// in favor of a minimal inline status page.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"ssh-agent-notify/broker"
	"ssh-agent-notify/proxy"
)

// Server serves the daemon's status page and event stream.
type Server struct {
	httpServer *http.Server
	broker     *broker.Broker[proxy.SignEvent]
}

// New creates a Server backed by b. Events published after a client
// subscribes to /api/events are delivered to that client as they occur;
// nothing is replayed from before the subscription.
func New(b *broker.Broker[proxy.SignEvent]) *Server {
	s := &Server{broker: b}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Serve starts the HTTP server on the given listener. It blocks until the
// server is shut down, returning nil in that case.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler, for testing with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

const indexPage = `<!doctype html>
<html>
<head><title>ssh-agent-notify</title></head>
<body>
<h1>ssh-agent-notify</h1>
<p>Live sign-request events: <a href="/api/events">/api/events</a> (text/event-stream)</p>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

type eventJSON struct {
	SessionID   string `json:"session_id"`
	Time        string `json:"time"`
	Comment     string `json:"comment,omitempty"`
	Algorithm   string `json:"algorithm"`
	Bits        int    `json:"bits"`
	Fingerprint string `json:"fingerprint"`
}

func eventToJSON(ev proxy.SignEvent) eventJSON {
	return eventJSON{
		SessionID:   ev.SessionID,
		Time:        ev.Time.Format(time.RFC3339Nano),
		Comment:     ev.Comment,
		Algorithm:   ev.Algorithm,
		Bits:        ev.Bits,
		Fingerprint: ev.Fingerprint,
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch, unsub := s.broker.Subscribe()
	defer unsub()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(eventToJSON(ev))
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
