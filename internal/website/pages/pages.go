// Package pages composes configured sections into pages and keeps an element
// index of every rendered page for anchor lookups.
package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/internal/website/components"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/dom"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

var (
	ErrNotFound       = errors.New("page not found")
	ErrUnknownSection = errors.New("unknown section")
	ErrDuplicatePath  = errors.New("duplicate page path")
)

// Deps are the services the interactive sections need. Nil services leave
// the matching events unhandled.
type Deps struct {
	Themes    *theme.Service
	Submitter *forms.Submitter
	// Classifier decides which links render as external. Nil uses the
	// default TLDs.
	Classifier *navigation.Classifier
	Logger     logging.Logger
}

// Site is a composed, immutable set of pages.
type Site struct {
	config   website.Site
	registry *core.ComponentRegistry
	pages    map[string]website.PageSpec
	indexes  map[string]*dom.Index
	events   *core.EventRouter
}

// New composes site. Every section named by a page must exist.
func New(site website.Site, deps Deps) (*Site, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger{}
	}

	toggle := &components.ThemeToggle{Service: deps.Themes, Logger: deps.Logger}
	contact := &components.Contact{Config: site.Contact, Submitter: deps.Submitter, Logger: deps.Logger}

	registry := core.NewComponentRegistry()
	registry.Register(website.SectionNavigation, func() core.Component {
		return &components.Navigation{Config: site.Navigation, Classifier: deps.Classifier}
	})
	registry.Register(website.SectionHero, func() core.Component {
		return &components.Hero{Config: site.Hero, Classifier: deps.Classifier}
	})
	registry.Register(website.SectionPricing, func() core.Component {
		return &components.Pricing{Config: site.Pricing, Classifier: deps.Classifier}
	})
	registry.Register(website.SectionContact, func() core.Component { return contact })
	registry.Register(website.SectionFooter, func() core.Component {
		return &components.Footer{Config: site.Footer, Classifier: deps.Classifier}
	})

	var handlers []core.EventHandler
	if deps.Themes != nil {
		handlers = append(handlers, toggle)
	}
	if deps.Submitter != nil {
		handlers = append(handlers, contact)
	}

	s := &Site{
		config:   site,
		registry: registry,
		pages:    make(map[string]website.PageSpec, len(site.Pages)),
		indexes:  make(map[string]*dom.Index, len(site.Pages)),
		events:   core.NewEventRouter(handlers...),
	}

	for _, p := range site.Pages {
		path := Normalize(p.Path)
		if _, dup := s.pages[path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		for _, name := range p.Sections {
			if _, ok := registry.Create(name); !ok {
				return nil, fmt.Errorf("page %s: %w: %q", path, ErrUnknownSection, name)
			}
		}
		p.Path = path
		s.pages[path] = p
	}

	for path := range s.pages {
		doc, err := s.Render(context.Background(), path, theme.Default)
		if err != nil {
			return nil, err
		}
		idx, err := dom.ParseString(doc)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", path, err)
		}
		s.indexes[path] = idx
	}

	return s, nil
}

// Normalize maps a request path to a page path: a leading slash is added
// and a trailing slash is dropped, except for the root.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// Config returns the site configuration the pages were built from.
func (s *Site) Config() website.Site {
	return s.config
}

// Has reports whether a page exists at path.
func (s *Site) Has(path string) bool {
	_, ok := s.pages[Normalize(path)]
	return ok
}

// Paths returns the page paths in configuration order.
func (s *Site) Paths() []string {
	paths := make([]string, 0, len(s.config.Pages))
	for _, p := range s.config.Pages {
		paths = append(paths, Normalize(p.Path))
	}
	return paths
}

// Index returns the element index of the page at path, or nil.
func (s *Site) Index(path string) *dom.Index {
	return s.indexes[Normalize(path)]
}

// Events routes the live events of interactive sections.
func (s *Site) Events() *core.EventRouter {
	return s.events
}

// Render renders the page at path for a live visitor in the given theme.
func (s *Site) Render(ctx context.Context, path string, t theme.Theme) (string, error) {
	return s.render(ctx, path, t, false)
}

// RenderStatic renders the page at path for static hosting.
func (s *Site) RenderStatic(ctx context.Context, path string) (string, error) {
	return s.render(ctx, path, theme.Default, true)
}

func (s *Site) render(ctx context.Context, path string, t theme.Theme, static bool) (string, error) {
	path = Normalize(path)
	page, ok := s.pages[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	ctx = core.WithTheme(ctx, string(t))

	var body bytes.Buffer
	for _, name := range page.Sections {
		c, _ := s.registry.Create(name)
		if err := c.Render(ctx, &body); err != nil {
			return "", fmt.Errorf("render %s/%s: %w", path, name, err)
		}
	}

	return website.RenderDocument(website.Document{
		Page:   s.config.Page,
		Title:  page.Title,
		Path:   path,
		Theme:  t,
		Static: static,
		Body:   body.String(),
	}), nil
}
