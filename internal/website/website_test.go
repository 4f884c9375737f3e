package website

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

func TestDefaultSite(t *testing.T) {
	s := DefaultSite()

	assert.Equal(t, "TechFlow", s.Navigation.BrandName)
	assert.Equal(t, "#hero", s.Navigation.BrandHref)
	assert.Len(t, s.Pricing.Plans, 3)
	assert.True(t, s.Pricing.Plans[1].Popular)
	assert.Equal(t, []string{"/"}, s.Paths())

	p, ok := s.Lookup("/")
	assert.True(t, ok)
	assert.Equal(t, []string{"navigation", "hero", "pricing", "contact", "footer"}, p.Sections)

	_, ok = s.Lookup("/nope")
	assert.False(t, ok)
}

func TestRenderDocument(t *testing.T) {
	doc := RenderDocument(Document{
		Page:  PageConfig{Title: "A <b>", URL: "https://example.com/", Description: "d"},
		Path:  "/pricing",
		Theme: theme.Dark,
		Body:  "<p>body</p>",
	})

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<html lang="en" class="dark">`)
	assert.Contains(t, doc, "<title>A &lt;b&gt;</title>")
	assert.Contains(t, doc, `<link rel="canonical" href="https://example.com/pricing">`)
	assert.Contains(t, doc, `"name":"A \u003cb\u003e"`)
	assert.Contains(t, doc, `<script src="/_live/livesite.js" defer></script>`)
	assert.Contains(t, doc, "<p>body</p>")
	assert.NotContains(t, doc, "localStorage")
}

func TestRenderDocument_Static(t *testing.T) {
	doc := RenderDocument(Document{Page: DefaultPageConfig(), Static: true})

	assert.Contains(t, doc, `localStorage.getItem("theme")==="dark"`)
	assert.Contains(t, doc, `<html lang="en" data-static>`)
}

func TestRenderStyles(t *testing.T) {
	css := RenderStyles(WithLightColors(map[string]string{"primary": "#FF0000"}), WithAnimations(false))

	assert.Contains(t, css, "--color-primary:#FF0000")
	assert.Contains(t, css, "html.dark{")
	assert.Contains(t, css, "#pricing.yearly .price-yearly{display:block}")
	assert.NotContains(t, css, "@keyframes")
	assert.Equal(t, "#2563EB", LightColors["primary"], "options must not mutate the palette")
}
