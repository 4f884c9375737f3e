// Package core provides the live page abstractions for livesite: sockets
// bound to a browser tab, the messages they carry, and the components a page
// is built from.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Component is a section of a page. Components render to HTML and may handle
// live events sent by the client.
type Component interface {
	// Name returns the section name used in page configuration.
	Name() string

	// Render writes the section HTML.
	Render(ctx context.Context, w io.Writer) error
}

// EventHandler is implemented by components that react to client events.
type EventHandler interface {
	// Events lists the event names the handler accepts.
	Events() []string

	// HandleEvent processes one event for the socket that sent it.
	HandleEvent(ctx context.Context, s *Socket, event string, payload map[string]any) error
}

// Renderer is the interface for rendering HTML content.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc is an adapter to allow ordinary functions to be used as Renderers.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// EventHandlerFunc adapts a function to an EventHandler for a fixed set of
// events.
type EventHandlerFunc struct {
	Names []string
	Fn    func(ctx context.Context, s *Socket, event string, payload map[string]any) error
}

func (h EventHandlerFunc) Events() []string { return h.Names }

func (h EventHandlerFunc) HandleEvent(ctx context.Context, s *Socket, event string, payload map[string]any) error {
	return h.Fn(ctx, s, event, payload)
}

// Params contains URL parameters and query strings from the connection.
type Params map[string]string

// Get returns a parameter value or empty string if not found.
func (p Params) Get(key string) string {
	return p[key]
}

// GetDefault returns a parameter value or the default if not found.
func (p Params) GetDefault(key, defaultValue string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return defaultValue
}

// TerminateReason indicates why a socket was closed.
type TerminateReason int

const (
	// TerminateNormal indicates clean disconnection.
	TerminateNormal TerminateReason = iota
	// TerminateShutdown indicates server shutdown.
	TerminateShutdown
	// TerminateError indicates termination due to an error.
	TerminateError
	// TerminateTimeout indicates termination due to inactivity.
	TerminateTimeout
)

func (r TerminateReason) String() string {
	switch r {
	case TerminateNormal:
		return "normal"
	case TerminateShutdown:
		return "shutdown"
	case TerminateError:
		return "error"
	case TerminateTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ComponentRegistry maps section names to component factories.
type ComponentRegistry struct {
	components map[string]func() Component
	mu         sync.RWMutex
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]func() Component),
	}
}

// Register adds a component factory to the registry.
func (r *ComponentRegistry) Register(name string, factory func() Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = factory
}

// Create instantiates a new component by name.
func (r *ComponentRegistry) Create(name string) (Component, bool) {
	r.mu.RLock()
	f, ok := r.components[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered names in sorted order.
func (r *ComponentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EventRouter dispatches client events to the handler registered for them.
type EventRouter struct {
	handlers map[string]EventHandler
}

// NewEventRouter registers every handler under each of its event names.
// A later handler for the same event replaces an earlier one.
func NewEventRouter(handlers ...EventHandler) *EventRouter {
	r := &EventRouter{handlers: make(map[string]EventHandler)}
	for _, h := range handlers {
		for _, name := range h.Events() {
			r.handlers[name] = h
		}
	}
	return r
}

// ErrUnknownEvent is returned for events no handler accepts.
var ErrUnknownEvent = errors.New("unknown event")

// Dispatch routes an event to its handler.
func (r *EventRouter) Dispatch(ctx context.Context, s *Socket, event string, payload map[string]any) error {
	h, ok := r.handlers[event]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return h.HandleEvent(ctx, s, event, payload)
}

// Handles reports whether an event has a handler.
func (r *EventRouter) Handles(event string) bool {
	_, ok := r.handlers[event]
	return ok
}
