package navigation

import (
	"fmt"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// TabOpener opens a URL in a new browsing context without leaking the opener
// or the referrer.
type TabOpener interface {
	OpenTab(url string)
}

// Document looks up an element by id and smooth-scrolls it into view.
// It reports whether the element exists.
type Document interface {
	ScrollIntoView(id string) bool
}

// Router performs a client-side route transition.
type Router interface {
	Push(href string)
}

// Location supplies the active path. It is read on every Resolve call.
type Location interface {
	Path() string
}

// TabOpenerFunc adapts a function to TabOpener.
type TabOpenerFunc func(url string)

func (f TabOpenerFunc) OpenTab(url string) { f(url) }

// DocumentFunc adapts a function to Document.
type DocumentFunc func(id string) bool

func (f DocumentFunc) ScrollIntoView(id string) bool { return f(id) }

// RouterFunc adapts a function to Router.
type RouterFunc func(href string)

func (f RouterFunc) Push(href string) { f(href) }

// LocationFunc adapts a function to Location.
type LocationFunc func() string

func (f LocationFunc) Path() string { return f() }

// Collaborators are the host primitives a Resolver drives.
// A nil collaborator turns its effect into a no-op.
type Collaborators struct {
	Tabs     TabOpener
	Document Document
	Router   Router
	Location Location
}

// Resolver executes the planned effect of a clicked href.
type Resolver struct {
	collab     Collaborators
	classifier *Classifier
	logger     logging.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClassifier replaces the default TLD set.
func WithClassifier(c *Classifier) Option {
	return func(r *Resolver) {
		if c != nil {
			r.classifier = c
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(collab Collaborators, opts ...Option) *Resolver {
	r := &Resolver{
		collab:     collab,
		classifier: defaultClassifier,
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve performs the single effect href calls for. It never returns an
// error and never panics: collaborator panics are recovered and logged.
func (r *Resolver) Resolve(href string) {
	t, ok := r.classifier.Classify(href)
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("navigation collaborator panicked",
				logging.String("href", t.Href),
				logging.String("panic", fmt.Sprint(rec)),
			)
		}
	}()

	act := Plan(t, r.currentPath())
	r.execute(t, act)
}

// Explain returns the target and action Resolve would use for href at
// currentPath, without performing anything.
func (r *Resolver) Explain(href, currentPath string) (Target, Action, bool) {
	t, ok := r.classifier.Classify(href)
	if !ok {
		return Target{}, Action{Effect: EffectNone}, false
	}
	return t, Plan(t, currentPath), true
}

func (r *Resolver) currentPath() string {
	if r.collab.Location == nil {
		return ""
	}
	return r.collab.Location.Path()
}

func (r *Resolver) execute(t Target, act Action) {
	switch act.Effect {
	case EffectOpenTab:
		if r.collab.Tabs != nil {
			r.collab.Tabs.OpenTab(act.Value)
		}
	case EffectScroll:
		if r.collab.Document != nil && r.collab.Document.ScrollIntoView(act.Value) {
			return
		}
		if act.Strict {
			r.logger.Warn("anchor target not found", logging.String("href", t.Href), logging.String("id", act.Value))
		} else {
			r.logger.Debug("anchor target not found", logging.String("href", t.Href), logging.String("id", act.Value))
		}
	case EffectPush:
		if r.collab.Router != nil {
			r.collab.Router.Push(act.Value)
		}
	}
}
