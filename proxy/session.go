// Package proxy implements the per-connection session relay (C6) and the
// accept-loop supervisor (C7) described in spec.md.
package proxy

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"log"
	"net"
	"time"

	"github.com/google/uuid"

	"ssh-agent-notify/agent"
	"ssh-agent-notify/fingerprint"
	"ssh-agent-notify/notify"
	"ssh-agent-notify/wire"
)

// defaultHash is the hash used for the fingerprint carried on SignEvent,
// matching the SHA-256 used in the notification body (spec.md §6).
func defaultHash() hash.Hash { return sha256.New() }

// State is a session's position in the half-duplex request/response
// state machine (spec.md §4.4).
type State int

const (
	// StateIdle is waiting for a new request from the client.
	StateIdle State = iota
	// StateAwaitingAgentResponse has forwarded a client request and is
	// waiting for the agent's response.
	StateAwaitingAgentResponse
	// StateClosed means the session has ended (either side closed or
	// an I/O error occurred).
	StateClosed
)

// Session manages one accepted client connection and its paired upstream
// agent connection: read a frame from one side, forward it to the other,
// best-effort decode it, and repeat until either side closes.
//
// A Session is not shared across goroutines; it owns no state that
// outlives the connection it was built for.
type Session struct {
	ID       string
	client   net.Conn
	upstream net.Conn
	notifier notify.Notifier
	onEvent  func(SignEvent)

	state    State
	comments map[string]string // canonical key encoding -> comment
}

// NewSession constructs a Session relaying between client and upstream.
// onEvent, if non-nil, is called once per observed SignRequest
// notification attempt; it must not block.
func NewSession(client, upstream net.Conn, notifier notify.Notifier, onEvent func(SignEvent)) *Session {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Session{
		ID:       uuid.New().String(),
		client:   client,
		upstream: upstream,
		notifier: notifier,
		onEvent:  onEvent,
		state:    StateIdle,
		comments: make(map[string]string),
	}
}

// State returns the session's current state-machine position.
func (s *Session) State() State {
	return s.state
}

// Run drives the session to completion: it alternates reading one record
// from the client, forwarding it to the agent, then reading one record
// from the agent and forwarding it to the client, until either side
// closes or an I/O error occurs. It always closes both connections
// before returning.
func (s *Session) Run() error {
	defer func() {
		_ = s.client.Close()
		_ = s.upstream.Close()
		s.state = StateClosed
	}()

	for {
		if err := s.step(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// step performs one client-request / agent-response cycle.
func (s *Session) step() error {
	raw, payload, err := wire.ReadRecord(s.client)
	if err != nil {
		return fmt.Errorf("proxy: read client: %w", err)
	}
	s.state = StateAwaitingAgentResponse

	if err := wire.WriteRaw(s.upstream, raw); err != nil {
		return fmt.Errorf("proxy: forward to agent: %w", err)
	}
	s.handleClientToAgent(payload)

	raw, payload, err = wire.ReadRecord(s.upstream)
	if err != nil {
		return fmt.Errorf("proxy: read agent: %w", err)
	}

	if err := wire.WriteRaw(s.client, raw); err != nil {
		return fmt.Errorf("proxy: forward to client: %w", err)
	}
	s.handleAgentToClient(payload)
	s.state = StateIdle

	return nil
}

// handleClientToAgent best-effort decodes a client->agent record. Every
// decoded SignRequest raises a desktop notification, carrying the key's
// comment when one is known from an earlier IdentitiesAnswer.
// Any decode failure is logged and otherwise ignored: forwarding above
// has already happened and is never delayed or undone by this.
func (s *Session) handleClientToAgent(payload []byte) {
	msg, err := agent.DecodeMessage(payload)
	if err != nil {
		log.Printf("proxy[%s]: decode client message: %v", s.ID, err)
		return
	}
	if msg.Kind != agent.KindSignRequest {
		return
	}

	key := msg.SignKeyBlob
	comment := s.comments[canonicalKey(key)]

	title, body := notify.Format(key, comment)
	if err := s.notifier.Notify(title, body); err != nil {
		log.Printf("proxy[%s]: notify: %v", s.ID, err)
	}

	if s.onEvent != nil {
		digest := fingerprint.Digest(key, defaultHash)
		s.onEvent(SignEvent{
			SessionID:   s.ID,
			Time:        time.Now(),
			Comment:     comment,
			Algorithm:   fingerprint.Algorithm(key),
			Bits:        fingerprint.Bits(key),
			Fingerprint: "SHA256:" + base64.RawStdEncoding.EncodeToString(digest),
		})
	}
}

// handleAgentToClient best-effort decodes an agent->client record. An
// IdentitiesAnswer updates the comment map, overwriting prior entries
// for the same key.
func (s *Session) handleAgentToClient(payload []byte) {
	msg, err := agent.DecodeMessage(payload)
	if err != nil {
		log.Printf("proxy[%s]: decode agent message: %v", s.ID, err)
		return
	}
	if msg.Kind != agent.KindIdentitiesAnswer {
		return
	}
	for _, id := range msg.Identities {
		s.comments[canonicalKey(id.KeyBlob)] = id.Comment
	}
}

// canonicalKey returns kb's canonical re-encoding as a map key. Because
// Encode is deterministic over kb's decoded semantic fields (spec.md
// §3's KeyBlob equality invariant), two KeyBlobs parsed from different
// but semantically-equal wire bytes (e.g. differing mpint padding) map
// to the same key.
func canonicalKey(kb agent.KeyBlob) string {
	return string(kb.Encode(nil))
}
