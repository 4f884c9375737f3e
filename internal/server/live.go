package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/js"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/transport"
)

// EventNavigate is sent by the client when a link with data-href is clicked.
const EventNavigate = "navigate"

// transportAdapter lets a core.Socket write to a WebSocket transport.
type transportAdapter struct {
	t *transport.WebSocketTransport
}

func (a transportAdapter) Send(msg core.Message) error {
	return a.t.Send(transport.Message{
		Ref:     msg.Ref,
		Topic:   msg.Topic,
		Event:   msg.Event,
		Payload: msg.Payload,
	})
}

func (a transportAdapter) Close() error {
	return a.t.Close()
}

func (a transportAdapter) IsConnected() bool {
	return a.t.IsConnected()
}

// serveSocket runs the message loop of one tab until it disconnects.
func (s *Server) serveSocket(r *http.Request, t *transport.WebSocketTransport) {
	socket := core.NewSocket(uuid.NewString(), transportAdapter{t: t})

	cid := clientID(r)
	if cid == "" {
		cid = socket.ID()
	}
	socket.SetClientID(cid)
	if p := r.URL.Query().Get("path"); p != "" {
		socket.SetPath(p)
	}

	logger := s.logger.With(
		logging.String("socket_id", socket.ID()),
		logging.String("client_id", cid),
	)

	s.sockets.Add(socket)
	s.metrics.SocketsTotal.Inc()
	s.metrics.SocketsActive.Inc()
	defer func() {
		s.metrics.SocketsActive.Dec()
		s.sockets.Remove(socket.ID())
		_ = socket.Close()
		logger.Debug("socket disconnected")
	}()
	logger.Debug("socket connected", logging.String("path", socket.Path()))

	ctx := logging.ContextWithLogger(context.Background(), logger)

	for {
		select {
		case msg, ok := <-t.Receive():
			if !ok {
				return
			}
			socket.UpdateActivity()
			if !s.handleMessage(ctx, socket, msg) {
				return
			}
		case <-t.CloseChan():
			return
		}
	}
}

// handleMessage processes one client message. It returns false when the
// socket should be closed.
func (s *Server) handleMessage(ctx context.Context, socket *core.Socket, msg transport.Message) bool {
	logger := logging.L(ctx)

	start := time.Now()
	err := s.dispatch(ctx, socket, msg)
	s.metrics.EventDuration.Since(start)
	s.metrics.Events.Inc(msg.Event)
	if err == nil {
		socket.ResetErrorCount()
		if msg.Ref != "" {
			_ = socket.Reply(msg.Ref, nil)
		}
		return true
	}

	s.metrics.EventErrors.Inc(msg.Event)
	n := socket.IncrementErrorCount()
	logger.Warn("event failed",
		logging.String("event", msg.Event),
		logging.Int("consecutive_errors", n),
		logging.Err(err),
	)
	if msg.Ref != "" {
		_ = socket.ReplyError(msg.Ref, err)
	} else {
		_ = socket.Push(core.EventError, map[string]any{"event": msg.Event, "reason": err.Error()})
	}

	if n >= core.MaxConsecutiveErrors {
		logger.Warn("closing socket after repeated errors", logging.Int("errors", n))
		return false
	}
	return true
}

func (s *Server) dispatch(ctx context.Context, socket *core.Socket, msg transport.Message) error {
	if msg.Event == EventNavigate {
		s.navigate(ctx, socket, msg.Payload)
		return nil
	}

	rt := s.runtime()
	ctx, cancel := context.WithTimeout(core.WithSocket(ctx, socket), s.timeouts.ComponentEvent)
	defer cancel()

	err := rt.site.Events().Dispatch(ctx, socket, msg.Event, msg.Payload)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.L(ctx).Error("event handler timed out", logging.String("event", msg.Event))
	}
	return err
}

// navigate resolves a clicked href against the page the tab reports.
func (s *Server) navigate(ctx context.Context, socket *core.Socket, payload map[string]any) {
	href, _ := payload["href"].(string)
	if p, _ := payload["path"].(string); p != "" {
		socket.SetPath(p)
	}

	s.resolver(ctx, socket).Resolve(href)
}

// resolver binds a navigation resolver to one socket: effects become client
// commands and anchor lookups use the element index of the tab's page.
func (s *Server) resolver(ctx context.Context, socket *core.Socket) *navigation.Resolver {
	rt := s.runtime()
	logger := logging.L(ctx)

	exec := func(cmd js.Command) {
		if err := socket.Exec(cmd); err != nil {
			logger.Debug("exec failed", logging.String("cmd", cmd.ToJS()), logging.Err(err))
		}
	}

	return navigation.NewResolver(navigation.Collaborators{
		Tabs: navigation.TabOpenerFunc(func(url string) {
			s.metrics.Navigations.Inc("open_tab")
			exec(js.JS.OpenTab(url))
		}),
		Document: navigation.DocumentFunc(func(id string) bool {
			if !rt.site.Index(socket.Path()).Has(id) {
				s.metrics.Navigations.Inc("scroll_miss")
				return false
			}
			s.metrics.Navigations.Inc("scroll")
			exec(js.JS.ScrollIntoView(id))
			return true
		}),
		Router: navigation.RouterFunc(func(href string) {
			s.metrics.Navigations.Inc("push")
			socket.SetPath(pathOf(href))
			exec(js.JS.Navigate(href))
		}),
		Location: navigation.LocationFunc(socket.Path),
	},
		navigation.WithClassifier(rt.classifier),
		navigation.WithLogger(logger),
	)
}

// pathOf returns the path part of an internal href.
func pathOf(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "/"
	}
	return href
}
