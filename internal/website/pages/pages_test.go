package pages

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/dom"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/state"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

func TestNew_DefaultSite(t *testing.T) {
	s, err := New(website.DefaultSite(), Deps{})
	require.NoError(t, err)

	assert.Equal(t, []string{"/"}, s.Paths())
	assert.True(t, s.Has("/"))
	assert.False(t, s.Has("/pricing"))

	idx := s.Index("/")
	require.NotNil(t, idx)
	for _, id := range []string{"hero", "pricing", "contact", "footer", "main-content"} {
		assert.True(t, idx.Has(id), id)
	}
	assert.False(t, s.Events().Handles("theme:toggle"), "no theme service configured")
}

func TestNew_RegistersHandlers(t *testing.T) {
	s, err := New(website.DefaultSite(), Deps{
		Themes:    theme.NewService(state.NewMemoryStore(), nil),
		Submitter: forms.NewSubmitter("http://127.0.0.1:1"),
	})
	require.NoError(t, err)

	assert.True(t, s.Events().Handles("theme:toggle"))
	assert.True(t, s.Events().Handles("form:submit"))
}

func TestNew_UnknownSection(t *testing.T) {
	site := website.DefaultSite()
	site.Pages = []website.PageSpec{{Path: "/", Sections: []string{"hero", "testimonials"}}}

	_, err := New(site, Deps{})

	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestNew_DuplicatePath(t *testing.T) {
	site := website.DefaultSite()
	site.Pages = []website.PageSpec{{Path: "/about"}, {Path: "/about/"}}

	_, err := New(site, Deps{})

	assert.ErrorIs(t, err, ErrDuplicatePath)
}

func TestRender(t *testing.T) {
	site := website.DefaultSite()
	site.Pages = append(site.Pages, website.PageSpec{
		Path:     "/pricing",
		Title:    "Pricing | TechFlow",
		Sections: []string{"navigation", "pricing"},
	})
	s, err := New(site, Deps{})
	require.NoError(t, err)

	doc, err := s.Render(context.Background(), "/pricing/", theme.Dark)
	require.NoError(t, err)
	assert.Contains(t, doc, `<html lang="en" class="dark">`)
	assert.Contains(t, doc, "<title>Pricing | TechFlow</title>")
	assert.Contains(t, doc, `id="pricing"`)
	assert.NotContains(t, doc, `id="hero"`)
	assert.NotContains(t, doc, "localStorage")

	static, err := s.RenderStatic(context.Background(), "/pricing")
	require.NoError(t, err)
	assert.Contains(t, static, `<html lang="en" data-static>`)
	assert.Contains(t, static, "localStorage")

	assert.False(t, s.Index("/pricing").Has("hero"))
	assert.True(t, s.Index("/").Has("hero"))

	_, err = s.Render(context.Background(), "/missing", theme.Light)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":         "/",
		"/":        "/",
		"//":       "/",
		"pricing":  "/pricing",
		"/pricing": "/pricing",
		"/a/b/":    "/a/b",
		" /x ":     "/x",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestRenderStatic_LinksWorkWithoutSocket(t *testing.T) {
	s, err := New(website.DefaultSite(), Deps{})
	require.NoError(t, err)

	doc, err := s.RenderStatic(context.Background(), "/")
	require.NoError(t, err)
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	seen := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if target, ok := dom.Attr(n, "data-href"); ok {
				seen++
				href, hasHref := dom.Attr(n, "href")
				assert.Equal(t, "a", n.Data, "data-href %q", target)
				assert.True(t, hasHref && href != "", "data-href %q has no href", target)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	assert.Greater(t, seen, 10)
}

func TestNew_ConfiguredClassifier(t *testing.T) {
	site := website.DefaultSite()
	site.Hero.CTAHref = "example.dev"
	site.Hero.SecondaryCTAHref = "github.com"

	s, err := New(site, Deps{Classifier: navigation.NewClassifier("dev")})
	require.NoError(t, err)

	doc, err := s.Render(context.Background(), "/", theme.Light)
	require.NoError(t, err)
	assert.Contains(t, doc, `href="https://example.dev" data-href="example.dev" target="_blank"`)
	assert.Contains(t, doc, `href="github.com" data-href="github.com" class="btn btn-outline"`)
}
