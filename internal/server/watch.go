package server

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gabrielmiguelok/livesite/internal/config"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/js"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 100 * time.Millisecond

// Reload rebuilds the site from cfg and swaps it in. Connected tabs are
// told to re-navigate to their current page so they pick up the new
// content. On error the running site is left untouched.
func (s *Server) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	rt, err := s.build(cfg)
	if err != nil {
		return err
	}
	s.rt.Store(rt)

	n := 0
	s.sockets.Each(func(socket *core.Socket) {
		path := socket.Path()
		if path == "" || !rt.site.Has(path) {
			path = "/"
		}
		if err := socket.Exec(js.JS.Navigate(path, js.Replace())); err == nil {
			n++
		}
	})
	s.logger.Info("site reloaded",
		logging.Int("pages", len(rt.site.Paths())),
		logging.Int("sockets", n),
	)
	return nil
}

// Watcher reloads the server when its config file changes.
type Watcher struct {
	fsw    *fsnotify.Watcher
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	server *Server
	path   string
}

// Watch starts watching the config file at path. The parent directory is
// watched so editors that replace the file on save are still seen.
func (s *Server) Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		fsw:    fsw,
		done:   make(chan struct{}),
		server: s,
		path:   abs,
	}
	w.wg.Add(1)
	go w.loop()

	s.logger.Info("watching config", logging.String("path", abs))
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.server.logger.Warn("config watcher error", logging.Err(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.server.logger.Error("reload config", logging.Err(err))
		return
	}
	if err := w.server.Reload(cfg); err != nil {
		w.server.logger.Error("reload site", logging.Err(err))
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
