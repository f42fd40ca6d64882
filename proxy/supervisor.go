package proxy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"ssh-agent-notify/notify"
)

// Supervisor binds the proxy's listener socket and fans out one Session
// per accepted connection, opening each paired upstream connection by
// dialing upstreamAddr. It owns the listener socket path: on Run's return it
// unlinks the socket file.
//
// Grounded on original_source/ssh-agent-notify/src/main.rs's UnixListener
// wrapper (bind, then unlink on Drop) and cmd/sql-tapd/main.go's
// accept-loop-plus-signal-shutdown shape.
type Supervisor struct {
	socketPath  string
	upstreamAddr string
	notifier    notify.Notifier
	onEvent     func(SignEvent)

	wg sync.WaitGroup
}

// NewSupervisor constructs a Supervisor that will listen on socketPath
// (a Unix domain socket) and dial upstreamAddr for each accepted
// connection's paired agent connection.
func NewSupervisor(socketPath, upstreamAddr string, notifier notify.Notifier, onEvent func(SignEvent)) *Supervisor {
	return &Supervisor{
		socketPath:   socketPath,
		upstreamAddr: upstreamAddr,
		notifier:     notifier,
		onEvent:      onEvent,
	}
}

// Run binds the listener, accepts connections until ctx is canceled, and
// waits for in-flight sessions to finish naturally before unlinking the
// socket file and returning. A bind failure (including an existing
// non-socket file at socketPath) is returned; an existing non-socket file
// is never removed, while a stale socket file is removed before binding.
func (sv *Supervisor) Run(ctx context.Context) error {
	if err := refuseNonSocket(sv.socketPath); err != nil {
		return err
	}
	// Remove a stale socket file left behind by a previous, uncleanly
	// terminated run of this same proxy.
	_ = os.Remove(sv.socketPath)

	lis, err := net.Listen("unix", sv.socketPath)
	if err != nil {
		return fmt.Errorf("proxy: listen %s: %w", sv.socketPath, err)
	}
	defer func() {
		_ = os.Remove(sv.socketPath)
	}()

	go func() {
		<-ctx.Done()
		_ = lis.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			sv.wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("proxy: accept: %w", err)
		}

		sv.wg.Add(1)
		go func() {
			defer sv.wg.Done()
			sv.serve(conn)
		}()
	}
}

func (sv *Supervisor) serve(client net.Conn) {
	upstream, err := net.Dial("unix", sv.upstreamAddr)
	if err != nil {
		log.Printf("proxy: dial upstream %s: %v", sv.upstreamAddr, err)
		_ = client.Close()
		return
	}

	session := NewSession(client, upstream, sv.notifier, sv.onEvent)
	if err := session.Run(); err != nil {
		log.Printf("proxy[%s]: session ended: %v", session.ID, err)
	}
}

// refuseNonSocket fails if path already exists and is not a Unix domain
// socket, so the supervisor never clobbers an unrelated file.
func refuseNonSocket(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("proxy: stat %s: %w", path, err)
	}
	if fi.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("proxy: refusing to bind over existing non-socket file %s", path)
	}
	return nil
}
