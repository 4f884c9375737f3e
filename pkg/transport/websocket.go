package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// WebSocket security errors
var (
	ErrOriginNotAllowed = errors.New("origin not allowed")
	ErrOriginInvalid    = errors.New("invalid origin header")
)

// Client heartbeat event, answered by the transport itself.
const EventHeartbeat = "heartbeat"

// WebSocketConfig configures WebSocket security settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of allowed origins for WebSocket connections.
	// If empty and InsecureDevMode is false, only same-origin connections are allowed.
	AllowedOrigins []string

	// InsecureDevMode disables origin validation (ONLY for development).
	InsecureDevMode bool
}

// DefaultWebSocketConfig returns secure default configuration.
func DefaultWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{
		AllowedOrigins:  nil,
		InsecureDevMode: false,
	}
}

// WebSocketTransport implements Transport using WebSocket.
type WebSocketTransport struct {
	*BaseTransport
	conn     *websocket.Conn
	url      string
	headers  http.Header
	wsConfig *WebSocketConfig
	mu       sync.Mutex
}

// NewWebSocketTransport creates a new WebSocket transport.
func NewWebSocketTransport(config *TransportConfig) *WebSocketTransport {
	return NewWebSocketTransportWithConfig(config, nil)
}

// NewWebSocketTransportWithConfig creates a WebSocket transport with security config.
func NewWebSocketTransportWithConfig(config *TransportConfig, wsConfig *WebSocketConfig) *WebSocketTransport {
	if wsConfig == nil {
		wsConfig = DefaultWebSocketConfig()
	}
	return &WebSocketTransport{
		BaseTransport: NewBaseTransport(config),
		headers:       make(http.Header),
		wsConfig:      wsConfig,
	}
}

// isOriginAllowed checks if the origin is allowed for WebSocket connections.
func (t *WebSocketTransport) isOriginAllowed(origin string, requestHost string) bool {
	if t.wsConfig.InsecureDevMode {
		return true
	}

	// Empty origin = same-origin request (allowed)
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if originURL.Host == requestHost {
		return true
	}

	for _, allowed := range t.wsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if allowedURL, err := url.Parse(allowed); err == nil && allowedURL.Host != "" {
			if allowedURL.Host == originURL.Host {
				return true
			}
		}
	}

	return false
}

// originPatterns converts the allowed origins into the host patterns the
// websocket library checks on its own.
func (t *WebSocketTransport) originPatterns() []string {
	var patterns []string
	for _, allowed := range t.wsConfig.AllowedOrigins {
		if u, err := url.Parse(allowed); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else {
			patterns = append(patterns, allowed)
		}
	}
	return patterns
}

// SetURL sets the WebSocket URL for client-side connections.
func (t *WebSocketTransport) SetURL(url string) {
	t.url = url
}

// SetHeader sets a header for the connection.
func (t *WebSocketTransport) SetHeader(key, value string) {
	t.headers.Set(key, value)
}

// Connect establishes a WebSocket connection (client-side).
func (t *WebSocketTransport) Connect(ctx context.Context) error {
	if t.url == "" {
		return fmt.Errorf("websocket URL not set")
	}

	conn, _, err := websocket.Dial(ctx, t.url, &websocket.DialOptions{HTTPHeader: t.headers})
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}

	t.start(conn)
	return nil
}

// Upgrade upgrades an HTTP connection to WebSocket (server-side).
// Validates origin header to prevent WebSocket hijacking attacks.
func (t *WebSocketTransport) Upgrade(w http.ResponseWriter, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if !t.isOriginAllowed(origin, r.Host) {
		http.Error(w, "Forbidden: Origin not allowed", http.StatusForbidden)
		return ErrOriginNotAllowed
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: t.wsConfig.InsecureDevMode,
		OriginPatterns:     t.originPatterns(),
	})
	if err != nil {
		return fmt.Errorf("accept websocket: %w", err)
	}

	t.start(conn)
	return nil
}

func (t *WebSocketTransport) start(conn *websocket.Conn) {
	t.mu.Lock()
	t.conn = conn
	t.SetConnected(true)
	t.mu.Unlock()

	conn.SetReadLimit(t.config.MaxMessageSize)

	go t.readLoop()
	go t.writeLoop()
	go t.pingLoop()
}

// Send queues a message for the write loop.
func (t *WebSocketTransport) Send(msg Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}

	timer := time.NewTimer(t.config.WriteTimeout)
	defer timer.Stop()

	select {
	case t.sendCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

// Close closes the WebSocket connection.
func (t *WebSocketTransport) Close() error {
	t.BaseTransport.Close()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		err := t.conn.Close(websocket.StatusNormalClosure, "closing")
		t.conn = nil
		return err
	}
	return nil
}

func (t *WebSocketTransport) logger() logging.Logger {
	return t.config.Logger
}

// readLoop reads messages from the WebSocket.
func (t *WebSocketTransport) readLoop() {
	defer t.Close()

	for {
		select {
		case <-t.closeCh:
			return
		default:
		}

		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()

		if conn == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), t.config.ReadTimeout)
		_, data, err := conn.Read(ctx)
		cancel()

		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				t.logger().Debug("websocket read ended", logging.Err(err))
			}
			return
		}

		msg, err := Unmarshal(data)
		if err != nil {
			t.logger().Debug("dropping invalid message", logging.Err(err), logging.Int("bytes", len(data)))
			continue
		}

		if msg.Event == EventHeartbeat {
			t.sendPong(msg.Ref)
			continue
		}

		select {
		case t.recvCh <- msg:
		case <-t.closeCh:
			return
		default:
			t.logger().Debug("receive buffer full, dropping message", logging.String("event", msg.Event))
		}
	}
}

// writeLoop writes messages to the WebSocket.
func (t *WebSocketTransport) writeLoop() {
	for {
		select {
		case msg := <-t.sendCh:
			t.mu.Lock()
			conn := t.conn
			t.mu.Unlock()

			if conn == nil {
				return
			}

			data, err := msg.Marshal()
			if err != nil {
				t.logger().Debug("dropping unencodable message", logging.String("event", msg.Event), logging.Err(err))
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			err = conn.Write(ctx, websocket.MessageText, data)
			cancel()

			if err != nil {
				t.logger().Debug("websocket write failed", logging.Err(err))
				t.Close()
				return
			}

		case <-t.closeCh:
			return
		}
	}
}

// pingLoop sends periodic pings to keep the connection alive.
func (t *WebSocketTransport) pingLoop() {
	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sendPing()
		case <-t.closeCh:
			return
		}
	}
}

// sendPing sends a protocol-level ping.
func (t *WebSocketTransport) sendPing() {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		t.logger().Debug("websocket ping failed", logging.Err(err))
	}
}

// sendPong answers a client heartbeat.
func (t *WebSocketTransport) sendPong(ref string) {
	msg := NewMessage("phoenix", "phx_reply", map[string]any{
		"status": "ok",
	}).WithRef(ref)

	select {
	case t.sendCh <- msg:
	default:
	}
}

// WebSocketHandler handles WebSocket upgrade requests.
type WebSocketHandler struct {
	config   *TransportConfig
	wsConfig *WebSocketConfig
	onAccept func(r *http.Request, t *WebSocketTransport)
}

// NewWebSocketHandler creates a new WebSocket handler. onAccept runs on the
// request goroutine and owns the transport until it returns.
func NewWebSocketHandler(config *TransportConfig, wsConfig *WebSocketConfig, onAccept func(r *http.Request, t *WebSocketTransport)) *WebSocketHandler {
	if config == nil {
		config = DefaultTransportConfig()
	}
	return &WebSocketHandler{
		config:   config,
		wsConfig: wsConfig,
		onAccept: onAccept,
	}
}

// ServeHTTP handles HTTP requests and upgrades to WebSocket.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Copy so concurrent connections do not share buffers.
	cfg := *h.config
	t := NewWebSocketTransportWithConfig(&cfg, h.wsConfig)

	if err := t.Upgrade(w, r); err != nil {
		// Upgrade has already written the response.
		logging.L(r.Context()).Debug("websocket upgrade failed", logging.Err(err))
		return
	}

	if h.onAccept != nil {
		h.onAccept(r, t)
	}
}
