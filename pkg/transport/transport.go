// Package transport carries live messages between the browser client and the
// server over a WebSocket.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// Common transport errors.
var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendTimeout      = errors.New("send timeout")
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrTransportFull    = errors.New("transport buffer full")
)

// Transport is the interface for all transport mechanisms.
type Transport interface {
	// Connect establishes the connection.
	Connect(ctx context.Context) error

	// Send sends a message to the peer.
	Send(msg Message) error

	// Receive returns a channel for incoming messages.
	Receive() <-chan Message

	// Close terminates the connection.
	Close() error

	// IsConnected returns true if connected.
	IsConnected() bool
}

// Message represents a message sent over a transport.
type Message struct {
	// Ref is an optional message reference for request/response correlation
	Ref string `json:"ref,omitempty"`

	// Topic is the channel the message is for
	Topic string `json:"topic"`

	// Event is the event type
	Event string `json:"event"`

	// Payload contains the message data
	Payload map[string]any `json:"payload,omitempty"`

	// Timestamp is when the message was created
	Timestamp time.Time `json:"ts,omitzero"`
}

// NewMessage creates a new message.
func NewMessage(topic, event string, payload map[string]any) Message {
	return Message{
		Topic:     topic,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// WithRef adds a reference to the message.
func (m Message) WithRef(ref string) Message {
	m.Ref = ref
	return m
}

// Marshal serializes the message to JSON.
func (m Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal deserializes a message from JSON. A message without an event is
// rejected with ErrInvalidMessage.
func Unmarshal(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.Join(ErrInvalidMessage, err)
	}
	if m.Event == "" {
		return m, ErrInvalidMessage
	}
	return m, nil
}

// TransportConfig holds common transport configuration.
type TransportConfig struct {
	// ReadTimeout is the maximum time to wait for a read
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for a write
	WriteTimeout time.Duration

	// PingInterval is how often to send heartbeats
	PingInterval time.Duration

	// MaxMessageSize is the maximum message size in bytes
	MaxMessageSize int64

	// SendBufferSize is the size of the send channel buffer
	SendBufferSize int

	// ReceiveBufferSize is the size of the receive channel buffer
	ReceiveBufferSize int

	// Logger receives transport diagnostics at debug level
	Logger logging.Logger
}

// DefaultTransportConfig returns sensible defaults.
func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendBufferSize:    64,
		ReceiveBufferSize: 64,
		Logger:            logging.NopLogger{},
	}
}

// BaseTransport provides common functionality for transports.
type BaseTransport struct {
	config    *TransportConfig
	connected bool
	sendCh    chan Message
	recvCh    chan Message
	closeCh   chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
}

// NewBaseTransport creates a new base transport.
func NewBaseTransport(config *TransportConfig) *BaseTransport {
	if config == nil {
		config = DefaultTransportConfig()
	}
	if config.Logger == nil {
		config.Logger = logging.NopLogger{}
	}
	return &BaseTransport{
		config:  config,
		sendCh:  make(chan Message, config.SendBufferSize),
		recvCh:  make(chan Message, config.ReceiveBufferSize),
		closeCh: make(chan struct{}),
	}
}

// Config returns the transport configuration.
func (t *BaseTransport) Config() *TransportConfig {
	return t.config
}

// IsConnected returns the connection status.
func (t *BaseTransport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// SetConnected updates the connection status.
func (t *BaseTransport) SetConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = connected
}

// Receive returns the receive channel.
func (t *BaseTransport) Receive() <-chan Message {
	return t.recvCh
}

// CloseChan returns a channel closed when the transport closes.
func (t *BaseTransport) CloseChan() <-chan struct{} {
	return t.closeCh
}

// Close closes the base transport channels.
func (t *BaseTransport) Close() error {
	t.closeOnce.Do(func() {
		t.SetConnected(false)
		close(t.closeCh)
	})
	return nil
}

// PushMessage pushes a message to the receive channel.
func (t *BaseTransport) PushMessage(msg Message) error {
	select {
	case t.recvCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	default:
		return ErrTransportFull
	}
}
