// Package livetest provides in-memory doubles for testing live components
// without a browser or a WebSocket.
package livetest

import (
	"strings"
	"sync"

	"github.com/gabrielmiguelok/livesite/pkg/core"
)

// Transport is a core.Transport that records every message sent to it.
type Transport struct {
	mu     sync.Mutex
	sent   []core.Message
	closed bool
	err    error
}

// NewSocket returns a socket wired to a fresh recording transport.
func NewSocket(id string) (*core.Socket, *Transport) {
	t := &Transport{}
	return core.NewSocket(id, t), t
}

// Send records msg, or returns the error set with FailWith.
func (t *Transport) Send(msg core.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrSocketClosed
	}
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}

// Close marks the transport closed. Later sends fail.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// IsConnected reports whether Close has not been called.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// FailWith makes every following Send return err. A nil err clears it.
func (t *Transport) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Messages returns a copy of the recorded messages.
func (t *Transport) Messages() []core.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.Message(nil), t.sent...)
}

// Events returns the messages with the given event name.
func (t *Transport) Events(event string) []core.Message {
	var out []core.Message
	for _, m := range t.Messages() {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}

// Commands returns the client commands pushed as js events, in order.
func (t *Transport) Commands() []string {
	var out []string
	for _, m := range t.Events(core.EventJS) {
		if cmd, ok := m.Payload["cmd"].(string); ok {
			out = append(out, cmd)
		}
	}
	return out
}

// Executed reports whether any pushed command contains fragment.
func (t *Transport) Executed(fragment string) bool {
	for _, cmd := range t.Commands() {
		if strings.Contains(cmd, fragment) {
			return true
		}
	}
	return false
}

// Reset drops recorded messages and reopens the transport.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
	t.closed = false
	t.err = nil
}
