// Package theme keeps the light/dark preference of each browser.
//
// The preference is one key-value flag, stored under "theme" per client,
// defaulting to light. Applying a theme means toggling the "dark" class on
// the document root.
package theme

import (
	"context"
	"errors"
	"strings"

	"github.com/gabrielmiguelok/livesite/pkg/js"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/state"
)

// Theme is a color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is the theme of a client that never toggled.
const Default = Light

// Key is the preference name.
const Key = "theme"

// ToggleSelector matches the theme toggle button.
const ToggleSelector = "[data-theme-toggle]"

// Parse returns the theme named by s, or Default.
func Parse(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == Dark {
		return Dark
	}
	return Light
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// RootClass is the class to put on <html> for t.
func (t Theme) RootClass() string {
	if t == Dark {
		return "dark"
	}
	return ""
}

// Label is the accessible label of the toggle button while t is active.
func (t Theme) Label() string {
	if t == Dark {
		return "Switch to light mode"
	}
	return "Switch to dark mode"
}

// Icon is the glyph shown on the toggle button while t is active.
func (t Theme) Icon() string {
	if t == Dark {
		return "☀"
	}
	return "☾"
}

// Commands applies t in the browser.
func Commands(t Theme) js.Commands {
	root := js.JS.RemoveClass("html", "dark")
	if t == Dark {
		root = js.JS.AddClass("html", "dark")
	}
	return js.Commands{
		root,
		js.JS.SetAttr(ToggleSelector, "aria-label", t.Label()),
		js.JS.SetText(ToggleSelector, t.Icon()),
	}
}

type record struct {
	Theme string `msgpack:"theme"`
}

// Service reads and writes theme preferences.
type Service struct {
	prefs  *state.TypedStore[record]
	logger logging.Logger
}

// NewService stores preferences in store.
func NewService(store state.Store, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Service{
		prefs:  state.NewTypedStore[record](store, state.NewGenericSerializer[record](), Key+":"),
		logger: logger,
	}
}

// Get returns the stored theme of a client. Unknown clients and read
// failures yield Default.
func (s *Service) Get(ctx context.Context, clientID string) Theme {
	if clientID == "" {
		return Default
	}
	rec, err := s.prefs.Get(ctx, clientID)
	if err != nil {
		if !errors.Is(err, state.ErrKeyNotFound) {
			s.logger.Warn("reading theme preference", logging.String("client", clientID), logging.Err(err))
		}
		return Default
	}
	return Parse(rec.Theme)
}

// Set stores t for a client.
func (s *Service) Set(ctx context.Context, clientID string, t Theme) error {
	if clientID == "" {
		return errors.New("theme: empty client id")
	}
	return s.prefs.Set(ctx, clientID, record{Theme: string(t)}, 0)
}

// Toggle flips the stored theme of a client and returns the new one.
func (s *Service) Toggle(ctx context.Context, clientID string) (Theme, error) {
	next := s.Get(ctx, clientID).Toggle()
	if err := s.Set(ctx, clientID, next); err != nil {
		return s.Get(ctx, clientID), err
	}
	return next, nil
}
