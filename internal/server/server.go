// Package server serves the site over HTTP and drives open pages over a
// WebSocket: clicks are resolved by the navigation resolver, and theme and
// form events are routed to the sections that own them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gabrielmiguelok/livesite/client"
	"github.com/gabrielmiguelok/livesite/internal/config"
	"github.com/gabrielmiguelok/livesite/internal/website/components"
	"github.com/gabrielmiguelok/livesite/internal/website/pages"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/health"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/metrics"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/shutdown"
	"github.com/gabrielmiguelok/livesite/pkg/state"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
	"github.com/gabrielmiguelok/livesite/pkg/transport"
)

// Routes.
const (
	SocketPath  = "/_live/ws"
	ClientPath  = "/_live/livesite.js"
	HealthPath  = "/healthz"
	ReadyPath   = "/readyz"
	MetricsPath = "/metrics"
)

// ClientCookie identifies a browser across tabs. It keys the stored theme.
const ClientCookie = "livesite_client"

// runtime is everything derived from one config. It is replaced as a whole
// on reload.
type runtime struct {
	cfg        *config.Config
	site       *pages.Site
	classifier *navigation.Classifier
	submitter  *forms.Submitter
}

// Server is the live site server.
type Server struct {
	rt       atomic.Pointer[runtime]
	store    state.Store
	themes   *theme.Service
	schemas  *forms.Registry
	limiter  *forms.ClientLimiter
	sockets  *core.SocketManager
	timeouts core.TimeoutConfig
	logger   logging.Logger
	health   *health.Checker
	metrics  *metrics.Metrics
	version  string

	configPath string
	watch      bool
	addr       atomic.Value
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStore replaces the store opened from [store].
func WithStore(st state.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithTimeouts overrides the timeouts picked from server.dev.
func WithTimeouts(t core.TimeoutConfig) Option {
	return func(s *Server) {
		s.timeouts = t
	}
}

// WithVersion sets the version reported by the readiness endpoint.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithWatch reloads the site when the file at path changes.
func WithWatch(path string) Option {
	return func(s *Server) {
		s.configPath = path
		s.watch = path != ""
	}
}

// New creates a server for cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		sockets:  core.NewSocketManager(),
		timeouts: core.DefaultTimeoutConfig(),
		logger:   logging.NopLogger{},
		limiter:  forms.NewClientLimiter(cfg.Forms.RatePerMinute, cfg.Forms.Burst),
		schemas:  forms.NewRegistry(),
		metrics:  metrics.New(),
	}
	if cfg.Server.Dev {
		s.timeouts = core.RelaxedTimeoutConfig()
	}
	if cfg.Server.SessionIdle.Duration > 0 {
		s.timeouts.SessionIdle = cfg.Server.SessionIdle.Duration
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		st, err := state.Open(cfg.Store.Driver, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
	}
	s.themes = theme.NewService(s.store, s.logger)

	rt, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	s.rt.Store(rt)
	s.health = s.checks()
	return s, nil
}

// checks builds the readiness checks. The store is critical; an open
// circuit to the form API only degrades the server.
func (s *Server) checks() *health.Checker {
	c := health.NewChecker(s.version)
	c.Add(health.Check{
		Name:     "store",
		Critical: true,
		Timeout:  2 * time.Second,
		Probe: func(ctx context.Context) error {
			_, err := s.store.Exists(ctx, "health:probe")
			return err
		},
	})
	c.Add(health.Check{
		Name: "form_api",
		Probe: func(context.Context) error {
			if st := s.runtime().submitter.Circuit(); st != forms.CircuitClosed {
				return fmt.Errorf("circuit %s", st)
			}
			return nil
		},
	})
	return c
}

func (s *Server) build(cfg *config.Config) (*runtime, error) {
	contact := components.ContactSchema(cfg.Site.Contact)

	submitter := forms.NewSubmitter(cfg.Forms.APIURL,
		forms.WithTimeout(cfg.Forms.Timeout.Duration),
		forms.WithSchemas(s.schemas),
		forms.WithLimiter(s.limiter),
		forms.WithLogger(s.logger),
		forms.WithBreaker(forms.NewBreaker(forms.BreakerConfig{
			MaxErrors:    5,
			ResetTimeout: 30 * time.Second,
			OnStateChange: func(from, to forms.CircuitState) {
				s.logger.Warn("form api circuit changed",
					logging.String("from", from.String()),
					logging.String("to", to.String()),
				)
			},
		})),
	)

	classifier := cfg.Classifier()
	site, err := pages.New(cfg.Site, pages.Deps{
		Themes:     s.themes,
		Submitter:  submitter,
		Classifier: classifier,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build site: %w", err)
	}

	s.schemas.Register(contact)

	return &runtime{
		cfg:        cfg,
		site:       site,
		classifier: classifier,
		submitter:  submitter,
	}, nil
}

func (s *Server) runtime() *runtime {
	return s.rt.Load()
}

// Config returns the active configuration.
func (s *Server) Config() *config.Config {
	return s.runtime().cfg
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Sockets returns the connected sockets.
func (s *Server) Sockets() *core.SocketManager {
	return s.sockets
}

// Addr returns the listen address once Run has bound it.
func (s *Server) Addr() string {
	a, _ := s.addr.Load().(string)
	return a
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET "+ReadyPath, s.health.Handler())
	mux.Handle("GET "+MetricsPath, s.metrics.Handler())

	mux.HandleFunc("GET "+ClientPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(client.Script())
	})

	mux.Handle("GET "+SocketPath, s.socketHandler())
	mux.HandleFunc("GET /", s.handlePage)

	return logging.RequestLogger(s.logger)(recoverer(secureHeaders(mux)))
}

func (s *Server) socketHandler() http.Handler {
	rt := s.runtime()

	tcfg := transport.DefaultTransportConfig()
	tcfg.ReadTimeout = s.timeouts.WebSocketRead
	tcfg.WriteTimeout = s.timeouts.WebSocketWrite
	tcfg.Logger = s.logger

	wcfg := &transport.WebSocketConfig{
		AllowedOrigins:  rt.cfg.Server.AllowedOrigins,
		InsecureDevMode: rt.cfg.Server.Dev,
	}

	return transport.NewWebSocketHandler(tcfg, wcfg, s.serveSocket)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rt := s.runtime()
	if !rt.site.Has(r.URL.Path) {
		http.NotFound(w, r)
		return
	}

	clientID := ensureClientID(w, r)
	current := s.themes.Get(r.Context(), clientID)

	start := time.Now()
	doc, err := rt.site.Render(r.Context(), r.URL.Path, current)
	s.metrics.RenderDuration.Since(start)
	s.metrics.PageRenders.Inc(pages.Normalize(r.URL.Path))
	if err != nil {
		logging.L(r.Context()).Error("render page", logging.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(doc))
}

// clientID returns the id from the client cookie, or "".
func clientID(r *http.Request) string {
	c, err := r.Cookie(ClientCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureClientID returns the request's client id, issuing a cookie for new
// browsers.
func ensureClientID(w http.ResponseWriter, r *http.Request) string {
	if id := clientID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Run serves until ctx is cancelled or an interrupt arrives, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config()

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.addr.Store(ln.Addr().String())

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.timeouts.RequestTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.ContextWithLogger(context.Background(), s.logger)
		},
	}

	sd := shutdown.NewHandler(shutdown.Config{
		Timeout: s.timeouts.GracefulShutdown,
		Logger:  s.logger,
	})
	sd.RegisterFunc("http", shutdown.PriorityHTTP, srv.Shutdown)
	sd.RegisterFunc("sockets", shutdown.PrioritySockets, s.sockets.Shutdown)
	sd.RegisterCloser("store", shutdown.PriorityStore, s.store)

	if s.watch {
		w, err := s.Watch(s.configPath)
		if err != nil {
			_ = ln.Close()
			return err
		}
		sd.RegisterCloser("watcher", shutdown.PriorityWatcher, w)
	}

	go s.janitor(sd.Done())

	s.logger.Info("livesite listening",
		logging.String("addr", s.Addr()),
		logging.Int("pages", len(s.runtime().site.Paths())),
	)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	waitErr := make(chan error, 1)
	go func() { waitErr <- sd.Wait(ctx) }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return <-waitErr
		}
		_ = sd.Shutdown()
		return fmt.Errorf("serve: %w", err)
	case err := <-waitErr:
		return err
	}
}

// janitor drops idle sockets and rate limiter entries, and prunes expired
// preferences when the store supports it.
func (s *Server) janitor(done <-chan struct{}) {
	every := s.timeouts.SessionCleanup
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

type pruner interface {
	Prune(ctx context.Context) (int64, error)
}

func (s *Server) sweep() {
	idle := s.timeouts.SessionIdle
	if n := s.sockets.CleanupInactive(idle); n > 0 {
		s.logger.Info("closed idle sockets", logging.Int("count", n))
	}
	s.limiter.Prune(idle)

	if p, ok := s.store.(pruner); ok {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.RequestTimeout)
		defer cancel()
		if n, err := p.Prune(ctx); err != nil {
			s.logger.Warn("prune store", logging.Err(err))
		} else if n > 0 {
			s.logger.Debug("pruned store", logging.Int("count", int(n)))
		}
	}
}
