package core

import (
	"time"
)

// TimeoutConfig configures timeouts for the live server.
type TimeoutConfig struct {
	// RequestTimeout bounds reading an HTTP request.
	RequestTimeout time.Duration

	// ComponentEvent is the timeout for HandleEvent calls.
	ComponentEvent time.Duration

	// WebSocketRead is the read timeout for WebSocket connections.
	WebSocketRead time.Duration

	// WebSocketWrite is the write timeout for WebSocket connections.
	WebSocketWrite time.Duration

	// SessionCleanup is the interval for cleaning up inactive sockets.
	SessionCleanup time.Duration

	// SessionIdle is how long a socket may stay silent before cleanup.
	SessionIdle time.Duration

	// GracefulShutdown is the timeout for graceful shutdown.
	GracefulShutdown time.Duration
}

// DefaultTimeoutConfig returns the production timeouts.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		RequestTimeout:   30 * time.Second,
		ComponentEvent:   10 * time.Second,
		WebSocketRead:    60 * time.Second,
		WebSocketWrite:   10 * time.Second,
		SessionCleanup:   5 * time.Minute,
		SessionIdle:      30 * time.Minute,
		GracefulShutdown: 30 * time.Second,
	}
}

// RelaxedTimeoutConfig returns more relaxed timeouts for development.
func RelaxedTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		RequestTimeout:   120 * time.Second,
		ComponentEvent:   30 * time.Second,
		WebSocketRead:    300 * time.Second,
		WebSocketWrite:   30 * time.Second,
		SessionCleanup:   30 * time.Minute,
		SessionIdle:      2 * time.Hour,
		GracefulShutdown: 5 * time.Second,
	}
}

// MaxConsecutiveErrors is how many failing events in a row close a socket.
const MaxConsecutiveErrors = 10
