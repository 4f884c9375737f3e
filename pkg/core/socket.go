package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabrielmiguelok/livesite/pkg/js"
)

// Common socket errors.
var (
	ErrSocketClosed   = errors.New("socket is closed")
	ErrSocketNotFound = errors.New("socket not found")
	ErrSendFailed     = errors.New("failed to send message")
	ErrInvalidMessage = errors.New("invalid message format")
)

// Server to client events.
const (
	EventJS         = "js"
	EventReply      = "phx_reply"
	EventError      = "error"
	EventFormResult = "form:result"
)

// Socket represents the live connection of one browser tab.
type Socket struct {
	id       string
	clientID string

	connected   bool
	connectedAt time.Time

	// lastActivity as atomic int64 (Unix nanoseconds) to avoid race conditions
	lastActivity atomic.Int64

	// path is the page the tab last reported being on.
	path string

	transport Transport
	metadata  map[string]any

	// consecutive event handler failures
	errorCount int

	mu sync.RWMutex
}

// Transport is the interface for underlying connection transports.
type Transport interface {
	Send(msg Message) error
	Close() error
	IsConnected() bool
}

// Message represents a message sent over the socket.
type Message struct {
	Ref     string         `json:"ref,omitempty"`
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewSocket creates a new socket with the given ID and transport.
func NewSocket(id string, transport Transport) *Socket {
	now := time.Now()
	s := &Socket{
		id:          id,
		connected:   true,
		connectedAt: now,
		metadata:    make(map[string]any),
		transport:   transport,
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// Topic returns the topic used for messages to this socket.
func (s *Socket) Topic() string {
	return "lv:" + s.id
}

// ClientID returns the browser identifier the socket was opened with.
func (s *Socket) ClientID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientID
}

// SetClientID binds the socket to a browser identifier.
func (s *Socket) SetClientID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientID = id
}

// Path returns the page path the client last reported.
func (s *Socket) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// SetPath records the page path the client is on.
func (s *Socket) SetPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// IsConnected returns true if the socket is connected.
func (s *Socket) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.transport != nil && s.transport.IsConnected()
}

// ConnectedAt returns when the socket connected.
func (s *Socket) ConnectedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectedAt
}

// LastActivity returns the time of last activity.
func (s *Socket) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// UpdateActivity updates the last activity timestamp.
func (s *Socket) UpdateActivity() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Send sends a message to the client. It is safe for concurrent use and
// returns ErrSocketClosed once Close has been called.
func (s *Socket) Send(msg Message) error {
	s.mu.RLock()
	connected := s.connected
	transport := s.transport
	s.mu.RUnlock()

	if !connected || transport == nil {
		return ErrSocketClosed
	}

	// IsConnected is thread-safe; this catches a concurrent Close.
	if !transport.IsConnected() {
		return ErrSocketClosed
	}

	s.lastActivity.Store(time.Now().UnixNano())

	if err := transport.Send(msg); err != nil {
		s.mu.RLock()
		stillConnected := s.connected
		s.mu.RUnlock()
		if !stillConnected {
			return ErrSocketClosed
		}
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return nil
}

// Push sends an event to the client.
func (s *Socket) Push(event string, payload map[string]any) error {
	return s.Send(Message{
		Topic:   s.Topic(),
		Event:   event,
		Payload: payload,
	})
}

// Exec sends client commands to run in order. Nothing is sent when cmds
// is empty.
func (s *Socket) Exec(cmds ...js.Command) error {
	code := js.Commands(cmds).ToJS()
	if code == "" {
		return nil
	}
	return s.Push(EventJS, map[string]any{"cmd": code})
}

// Reply answers a client message identified by ref.
func (s *Socket) Reply(ref string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["status"]; !ok {
		payload["status"] = "ok"
	}
	return s.Send(Message{
		Ref:     ref,
		Topic:   s.Topic(),
		Event:   EventReply,
		Payload: payload,
	})
}

// ReplyError answers a failed client message identified by ref with an
// error status.
func (s *Socket) ReplyError(ref string, err error) error {
	return s.Reply(ref, map[string]any{"status": "error", "reason": err.Error()})
}

// GetMetadata retrieves metadata by key.
func (s *Socket) GetMetadata(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata[key]
}

// SetMetadata stores metadata.
func (s *Socket) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// Close closes the socket connection.
func (s *Socket) Close() error {
	s.mu.Lock()
	s.connected = false
	transport := s.transport
	s.mu.Unlock()

	if transport != nil {
		return transport.Close()
	}
	return nil
}

// IncrementErrorCount increments the error counter.
func (s *Socket) IncrementErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
	return s.errorCount
}

// ResetErrorCount resets the error counter.
func (s *Socket) ResetErrorCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount = 0
}

// ErrorCount returns the current error count.
func (s *Socket) ErrorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorCount
}

// SocketManager manages all active sockets.
type SocketManager struct {
	sockets     map[string]*Socket
	activeAsync sync.WaitGroup
	shutdownCh  chan struct{}
	isShutdown  bool
	mu          sync.RWMutex
}

// NewSocketManager creates a new socket manager.
func NewSocketManager() *SocketManager {
	return &SocketManager{
		sockets:    make(map[string]*Socket),
		shutdownCh: make(chan struct{}),
	}
}

// Add registers a socket.
func (sm *SocketManager) Add(socket *Socket) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sockets[socket.ID()] = socket
}

// Remove unregisters a socket.
func (sm *SocketManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sockets, id)
}

// Get retrieves a socket by ID.
func (sm *SocketManager) Get(id string) (*Socket, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sockets[id]
	return s, ok
}

// Count returns the number of active sockets.
func (sm *SocketManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sockets)
}

// All returns all sockets.
func (sm *SocketManager) All() []*Socket {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		result = append(result, s)
	}
	return result
}

// ByClient returns the sockets opened by one browser.
func (sm *SocketManager) ByClient(clientID string) []*Socket {
	var result []*Socket
	for _, s := range sm.All() {
		if s.ClientID() == clientID {
			result = append(result, s)
		}
	}
	return result
}

// Each calls fn for every socket from a bounded pool of goroutines and
// waits for all calls to return. It does nothing after Shutdown.
func (sm *SocketManager) Each(fn func(*Socket)) {
	sm.mu.RLock()
	if sm.isShutdown {
		sm.mu.RUnlock()
		return
	}
	sockets := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		sockets = append(sockets, s)
	}
	sm.activeAsync.Add(1)
	sm.mu.RUnlock()
	defer sm.activeAsync.Done()

	const maxWorkers = 100
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, s := range sockets {
		select {
		case <-sm.shutdownCh:
			wg.Wait()
			return
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(socket *Socket) {
			defer func() {
				<-sem
				wg.Done()
			}()
			fn(socket)
		}(s)
	}

	wg.Wait()
}

// Broadcast sends a message to all sockets.
func (sm *SocketManager) Broadcast(msg Message) {
	sm.Each(func(s *Socket) {
		s.Send(msg)
	})
}

// Shutdown stops accepting broadcasts, waits for running ones, then closes
// every socket. It returns ctx.Err() if ctx ends first.
func (sm *SocketManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	if sm.isShutdown {
		sm.mu.Unlock()
		return nil
	}
	sm.isShutdown = true
	close(sm.shutdownCh)
	sm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		sm.activeAsync.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, s := range sm.sockets {
		s.Close()
		delete(sm.sockets, id)
	}
	return nil
}

// IsShutdown returns true if the manager is shutting down.
func (sm *SocketManager) IsShutdown() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isShutdown
}

// CleanupInactive closes and removes sockets inactive for longer than
// maxInactive and returns how many were removed.
func (sm *SocketManager) CleanupInactive(maxInactive time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	removed := 0

	for id, s := range sm.sockets {
		if now.Sub(s.LastActivity()) > maxInactive {
			s.Close()
			delete(sm.sockets, id)
			removed++
		}
	}

	return removed
}
