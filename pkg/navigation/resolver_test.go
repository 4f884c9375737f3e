package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// host records every collaborator call.
type host struct {
	mu       sync.Mutex
	path     string
	elements map[string]bool
	tabs     []string
	scrolls  []string
	pushes   []string
	pathRead int
}

func newHost(path string, ids ...string) *host {
	h := &host{path: path, elements: map[string]bool{}}
	for _, id := range ids {
		h.elements[id] = true
	}
	return h
}

func (h *host) OpenTab(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tabs = append(h.tabs, url)
}

func (h *host) ScrollIntoView(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.elements[id] {
		return false
	}
	h.scrolls = append(h.scrolls, id)
	return true
}

func (h *host) Push(href string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushes = append(h.pushes, href)
}

func (h *host) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pathRead++
	return h.path
}

func (h *host) setPath(p string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = p
}

func (h *host) effects() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tabs) + len(h.scrolls) + len(h.pushes)
}

func newTestResolver(h *host, opts ...Option) *Resolver {
	return NewResolver(Collaborators{Tabs: h, Document: h, Router: h, Location: h}, opts...)
}

func TestResolveExternalWithScheme(t *testing.T) {
	for _, href := range []string{"https://github.com", "http://example.com", "//cdn.example.net/x"} {
		h := newHost("/")
		newTestResolver(h).Resolve(href)

		assert.Equal(t, []string{href}, h.tabs, "href %q", href)
		assert.Empty(t, h.scrolls)
		assert.Empty(t, h.pushes)
	}
}

func TestResolveBareDomainPrefixedOnce(t *testing.T) {
	h := newHost("/")
	r := newTestResolver(h)

	r.Resolve("example.com")
	r.Resolve("www.example.org")
	r.Resolve(h.tabs[0])

	assert.Equal(t, []string{"https://example.com", "https://www.example.org", "https://example.com"}, h.tabs)
}

func TestResolveSamePageAnchor(t *testing.T) {
	h := newHost("/", "pricing")
	newTestResolver(h).Resolve("#pricing")

	assert.Equal(t, []string{"pricing"}, h.scrolls)
	assert.Empty(t, h.tabs)
	assert.Empty(t, h.pushes)
}

func TestResolveMissingAnchor(t *testing.T) {
	h := newHost("/", "pricing")
	rec := &logging.Recorder{}

	assert.NotPanics(t, func() {
		newTestResolver(h, WithLogger(rec)).Resolve("#missing")
	})

	assert.Zero(t, h.effects())
	assert.Equal(t, 1, rec.Count("warn"))
}

func TestResolveCrossPageAnchorOnCurrentPage(t *testing.T) {
	h := newHost("/pricing", "plans")
	newTestResolver(h).Resolve("/pricing#plans")

	assert.Equal(t, []string{"plans"}, h.scrolls)
	assert.Empty(t, h.pushes)
	assert.Empty(t, h.tabs)
}

func TestResolveCrossPageAnchorMissingOnCurrentPage(t *testing.T) {
	h := newHost("/pricing")
	rec := &logging.Recorder{}
	newTestResolver(h, WithLogger(rec)).Resolve("/pricing#plans")

	assert.Zero(t, h.effects())
	assert.Zero(t, rec.Count("warn"))
	assert.Equal(t, 1, rec.Count("debug"))
}

func TestResolveCrossPageAnchorOnOtherPage(t *testing.T) {
	h := newHost("/pricing", "plans")
	newTestResolver(h).Resolve("/other#plans")

	assert.Equal(t, []string{"/other#plans"}, h.pushes)
	assert.Empty(t, h.scrolls)
	assert.Empty(t, h.tabs)
}

func TestResolveInternalPath(t *testing.T) {
	h := newHost("/")
	newTestResolver(h).Resolve("pricing")

	assert.Equal(t, []string{"pricing"}, h.pushes)
	assert.Empty(t, h.scrolls)
	assert.Empty(t, h.tabs)
}

func TestResolveEmptyHref(t *testing.T) {
	for _, href := range []string{"", "   ", "\n\t"} {
		h := newHost("/", "x")
		newTestResolver(h).Resolve(href)

		assert.Zero(t, h.effects(), "href %q", href)
		assert.Zero(t, h.pathRead, "location read for %q", href)
	}
}

func TestResolveExactlyOneEffect(t *testing.T) {
	hrefs := []string{
		"https://github.com", "example.com", "www.example.org", "#hero",
		"/#hero", "/pricing#plans", "/other#x", "pricing", "/signup?plan=starter",
		"/a#b#c", "mailto:hello@testwebsite.com",
	}
	for _, href := range hrefs {
		h := newHost("/", "hero", "plans", "x")
		newTestResolver(h).Resolve(href)
		assert.Equal(t, 1, h.effects(), "href %q", href)
	}
}

func TestResolveReadsLocationAtCallTime(t *testing.T) {
	h := newHost("/pricing", "plans")
	r := newTestResolver(h)

	r.Resolve("/pricing#plans")
	h.setPath("/about")
	r.Resolve("/pricing#plans")

	assert.Equal(t, []string{"plans"}, h.scrolls)
	assert.Equal(t, []string{"/pricing#plans"}, h.pushes)
	assert.Equal(t, 2, h.pathRead)
}

func TestResolveRecoversCollaboratorPanic(t *testing.T) {
	rec := &logging.Recorder{}
	r := NewResolver(Collaborators{
		Router: RouterFunc(func(string) { panic("router gone") }),
	}, WithLogger(rec))

	assert.NotPanics(t, func() { r.Resolve("/about") })
	assert.Equal(t, 1, rec.Count("error"))
}

func TestResolveNilCollaborators(t *testing.T) {
	r := NewResolver(Collaborators{})
	assert.NotPanics(t, func() {
		r.Resolve("https://example.com")
		r.Resolve("#x")
		r.Resolve("/x#y")
		r.Resolve("/x")
	})
}

func TestResolveFuncAdapters(t *testing.T) {
	var got []string
	r := NewResolver(Collaborators{
		Tabs:     TabOpenerFunc(func(u string) { got = append(got, "tab:"+u) }),
		Document: DocumentFunc(func(id string) bool { got = append(got, "scroll:"+id); return true }),
		Router:   RouterFunc(func(h string) { got = append(got, "push:"+h) }),
		Location: LocationFunc(func() string { return "/" }),
	})

	r.Resolve("github.com")
	r.Resolve("#hero")
	r.Resolve("/#hero")
	r.Resolve("/about")

	assert.Equal(t, []string{"tab:https://github.com", "scroll:hero", "scroll:hero", "push:/about"}, got)
}

func TestResolveConcurrent(t *testing.T) {
	h := newHost("/", "hero")
	r := newTestResolver(h)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Resolve("#hero")
		}()
	}
	wg.Wait()

	assert.Len(t, h.scrolls, 50)
}

func TestExplain(t *testing.T) {
	r := NewResolver(Collaborators{}, WithClassifier(NewClassifier("dev")))

	target, act, ok := r.Explain("example.dev", "/")
	require.True(t, ok)
	assert.Equal(t, External, target.Kind)
	assert.Equal(t, EffectOpenTab, act.Effect)

	_, act, ok = r.Explain("  ", "/")
	assert.False(t, ok)
	assert.Equal(t, EffectNone, act.Effect)
}
