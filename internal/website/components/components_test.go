package components

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/dom"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/livetest"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/state"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

func render(t *testing.T, c core.Component, ctx context.Context) (string, *dom.Index) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	idx, err := dom.ParseString(buf.String())
	require.NoError(t, err)
	return buf.String(), idx
}

func TestLinkAttrs(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"#pricing", `href="#pricing" data-href="#pricing"`},
		{" /about ", `href="/about" data-href="/about"`},
		{"example.com", `href="https://example.com" data-href="example.com" target="_blank" rel="noopener noreferrer"`},
		{"https://x.io/a", `href="https://x.io/a" data-href="https://x.io/a" target="_blank" rel="noopener noreferrer"`},
		{`/q?a="b"`, `href="/q?a=&#34;b&#34;" data-href="/q?a=&#34;b&#34;"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, linkAttrs(nil, tt.href), tt.href)
	}
}

func TestLinkAttrs_ConfiguredTLDs(t *testing.T) {
	c := navigation.NewClassifier("dev")

	assert.Equal(t, `href="https://example.dev" data-href="example.dev" target="_blank" rel="noopener noreferrer"`,
		linkAttrs(c, "example.dev"))
	assert.Equal(t, `href="github.com" data-href="github.com"`, linkAttrs(c, "github.com"))
}

func TestNavigation_Render(t *testing.T) {
	nav := &Navigation{Config: website.DefaultNavigation()}
	html, idx := render(t, nav, context.Background())

	hrefs := map[string]bool{}
	for _, l := range idx.Links() {
		hrefs[l.Href] = true
	}
	assert.True(t, hrefs["#hero"])
	assert.True(t, hrefs["#pricing"])
	assert.Contains(t, html, "TechFlow")
	assert.Contains(t, html, "Get Started")
	assert.Contains(t, html, `aria-label="Switch to dark mode"`)
	assert.Contains(t, html, `<a href="#pricing" data-href="#pricing" class="btn btn-primary">Get Started</a>`)
	assert.NotContains(t, html, "<button type=\"button\" data-href")
}

func TestNavigation_MobileMenu(t *testing.T) {
	html, idx := render(t, &Navigation{Config: website.DefaultNavigation()}, context.Background())

	require.True(t, idx.Has(MobileMenuID))
	assert.Contains(t, html, `data-js="livesite.JS.toggleClass(&#34;#mobile-menu&#34;,&#34;open&#34;)"`)
	assert.Contains(t, html, `<div id="mobile-menu" class="nav-mobile" data-dismiss="open">`)

	node := idx.NodeByID(MobileMenuID)
	var hrefs []string
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if href, ok := dom.Attr(c, "data-href"); ok {
			hrefs = append(hrefs, href)
		}
	}
	assert.Equal(t, []string{"#hero", "#hero", "#pricing", "#pricing"}, hrefs)
}

func TestMenuToggleCommand(t *testing.T) {
	assert.Equal(t, `livesite.JS.toggleClass("#mobile-menu","open")`, MenuToggleCommand().ToJS())
}

func TestNavigation_HidesCTA(t *testing.T) {
	cfg := website.DefaultNavigation()
	cfg.ShowCTA = false
	html, _ := render(t, &Navigation{Config: cfg}, context.Background())

	assert.NotContains(t, html, "Get Started")
}

func TestNavigation_RendersStoredTheme(t *testing.T) {
	ctx := core.WithTheme(context.Background(), string(theme.Dark))
	html, _ := render(t, &Navigation{Config: website.DefaultNavigation()}, ctx)

	assert.Contains(t, html, `aria-label="Switch to light mode"`)
}

func TestHero_Render(t *testing.T) {
	html, idx := render(t, &Hero{Config: website.DefaultHero()}, context.Background())

	assert.True(t, idx.Has("hero"))
	assert.Contains(t, html, "Build Better Software, Faster")
	assert.Contains(t, html, `data-href="/get-started"`)
	assert.Contains(t, html, `<a href="/pricing" data-href="/pricing" class="btn btn-outline">`)
	assert.Contains(t, html, "Deploy in minutes, not hours")
}

func TestPricing_Render(t *testing.T) {
	html, idx := render(t, &Pricing{Config: website.DefaultPricing()}, context.Background())

	assert.True(t, idx.Has("pricing"))
	assert.Equal(t, 1, strings.Count(html, "Most Popular"))
	assert.Contains(t, html, "$29<small>/month</small>")
	assert.Contains(t, html, "$23<small>/month</small>")
	assert.Contains(t, html, `data-href="/signup?plan=professional"`)
	assert.Contains(t, html, "Save 20%")
}

func TestBillingCommands(t *testing.T) {
	yearly := BillingCommands(true).ToJS()
	assert.Contains(t, yearly, `livesite.JS.addClass("#pricing","yearly")`)
	assert.Contains(t, yearly, `"aria-pressed","true"`)

	monthly := BillingCommands(false).ToJS()
	assert.Contains(t, monthly, `livesite.JS.removeClass("#pricing","yearly")`)
}

func TestFooter_Render(t *testing.T) {
	html, idx := render(t, &Footer{Config: website.DefaultFooter()}, context.Background())

	assert.True(t, idx.Has("footer"))
	assert.Contains(t, html, `data-open-tab="https://github.com"`)
	assert.NotContains(t, html, `data-href="https://github.com"`)
	assert.Contains(t, html, `data-href="/privacy"`)
	assert.Contains(t, html, `href="tel:+15551234567"`)
	assert.Contains(t, html, `href="mailto:hello@testwebsite.com"`)
}

func TestOpensDirectly(t *testing.T) {
	assert.True(t, OpensDirectly("https://github.com"))
	assert.True(t, OpensDirectly("http://x"))
	assert.True(t, OpensDirectly("httpbin.org"))
	assert.False(t, OpensDirectly("/about"))
	assert.False(t, OpensDirectly("github.com"))
}

func TestThemeToggle_HandleEvent(t *testing.T) {
	svc := theme.NewService(state.NewMemoryStore(), nil)
	toggle := &ThemeToggle{Service: svc}
	s, tr := livetest.NewSocket("s1")
	s.SetClientID("c1")

	require.NoError(t, toggle.HandleEvent(context.Background(), s, EventThemeToggle, nil))

	assert.Equal(t, theme.Dark, svc.Get(context.Background(), "c1"))
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, core.EventJS, msgs[0].Event)
	cmd := msgs[0].Payload["cmd"].(string)
	assert.Contains(t, cmd, `livesite.JS.addClass("html","dark")`)
	assert.Contains(t, cmd, "Switch to light mode")

	require.NoError(t, toggle.HandleEvent(context.Background(), s, EventThemeToggle, nil))
	assert.Equal(t, theme.Light, svc.Get(context.Background(), "c1"))
	assert.Len(t, tr.Commands(), 2)
	assert.True(t, tr.Executed(`livesite.JS.removeClass("html","dark")`))
}

func TestContactSchema(t *testing.T) {
	s := ContactSchema(website.DefaultContact())

	assert.Equal(t, "contact", s.ID)
	require.Len(t, s.Fields, 3)
	email, ok := s.Field("email")
	require.True(t, ok)
	assert.Equal(t, forms.FieldEmail, email.Type)
	assert.True(t, email.Required)
}

func TestContact_Render(t *testing.T) {
	html, idx := render(t, &Contact{Config: website.DefaultContact()}, context.Background())

	assert.True(t, idx.Has("contact"))
	assert.Contains(t, html, `data-form-id="contact"`)
	assert.Contains(t, html, `<textarea id="contact-message" name="message"`)
	assert.Contains(t, html, `type="email" name="email"`)
}

func TestContact_HandleEvent(t *testing.T) {
	var got forms.Submission
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success":true,"redirect":"/thanks"}`))
	}))
	defer api.Close()

	c := &Contact{Config: website.DefaultContact(), Submitter: forms.NewSubmitter(api.URL)}
	s, tr := livetest.NewSocket("s1")

	err := c.HandleEvent(context.Background(), s, EventFormSubmit, map[string]any{
		"formId":   "contact",
		"formData": map[string]any{"name": "Ada", "age": 36.0, "skip": nil},
	})
	require.NoError(t, err)

	assert.Equal(t, "contact", got.FormID)
	assert.Equal(t, map[string]string{"name": "Ada", "age": "36"}, got.FormData)

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, core.EventFormResult, msgs[0].Event)
	assert.Equal(t, true, msgs[0].Payload["success"])
	assert.Equal(t, "/thanks", msgs[0].Payload["redirect"])
	assert.Equal(t, int64(2000), msgs[0].Payload["redirectAfterMs"])
}

func TestContact_HandleEventMissingFormID(t *testing.T) {
	c := &Contact{Config: website.DefaultContact(), Submitter: forms.NewSubmitter("http://127.0.0.1:1")}
	s, tr := livetest.NewSocket("s1")

	require.NoError(t, c.HandleEvent(context.Background(), s, EventFormSubmit, map[string]any{}))

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, false, msgs[0].Payload["success"])
	assert.Equal(t, forms.MsgMissingFormID, msgs[0].Payload["message"])
}
