package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/livesite/internal/config"
	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
	"github.com/gabrielmiguelok/livesite/pkg/transport"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	s, err := New(cfg, WithLogger(logging.NopLogger{}))
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func dial(t *testing.T, srv *httptest.Server, path, clientID string) *transport.WebSocketTransport {
	t.Helper()

	c := transport.NewWebSocketTransport(nil)
	c.SetURL("ws" + strings.TrimPrefix(srv.URL, "http") + SocketPath + "?path=" + path)
	if clientID != "" {
		c.SetHeader("Cookie", ClientCookie+"="+clientID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func recv(t *testing.T, c *transport.WebSocketTransport) transport.Message {
	t.Helper()
	select {
	case msg := <-c.Receive():
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return transport.Message{}
	}
}

func expectJS(t *testing.T, c *transport.WebSocketTransport) string {
	t.Helper()
	msg := recv(t, c)
	require.Equal(t, core.EventJS, msg.Event, "payload: %v", msg.Payload)
	cmd, _ := msg.Payload["cmd"].(string)
	return cmd
}

func TestHandler_Pages(t *testing.T) {
	_, srv := newTestServer(t, nil)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, string(body), `data-href="#pricing"`)
	assert.Contains(t, string(body), ClientPath)
	assert.Equal(t, "DENY", res.Header.Get("X-Frame-Options"))

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == ClientCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	_, err = uuid.Parse(cookie.Value)
	assert.NoError(t, err)

	res, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHandler_Assets(t *testing.T) {
	_, srv := newTestServer(t, nil)

	res, err := http.Get(srv.URL + HealthPath)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "ok", string(body))

	res, err = http.Get(srv.URL + ClientPath)
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, string(body), "window.livesite")
}

func TestHandler_Ready(t *testing.T) {
	s, srv := newTestServer(t, nil)

	res, err := http.Get(srv.URL + ReadyPath)
	require.NoError(t, err)
	var report struct {
		Status string                    `json:"status"`
		Checks map[string]map[string]any `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&report))
	res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "healthy", report.Status)
	assert.Contains(t, report.Checks, "store")
	assert.Contains(t, report.Checks, "form_api")

	require.NoError(t, s.store.Close())
	res, err = http.Get(srv.URL + ReadyPath)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestHandler_StoredTheme(t *testing.T) {
	s, srv := newTestServer(t, nil)

	id := uuid.NewString()
	require.NoError(t, s.themes.Set(context.Background(), id, theme.Dark))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: id})
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	assert.Contains(t, string(body), `<html lang="en" class="dark">`)
	assert.Empty(t, res.Cookies())
}

func TestLive_Navigate(t *testing.T) {
	s, srv := newTestServer(t, func(c *config.Config) {
		c.Site.Pages = append(c.Site.Pages, website.PageSpec{
			Path:     "/about",
			Title:    "About",
			Sections: []string{website.SectionFooter},
		})
	})
	c := dial(t, srv, "/", "")

	send := func(href string) {
		require.NoError(t, c.Send(transport.NewMessage("lv", EventNavigate, map[string]any{"href": href, "path": "/"})))
	}

	send("#pricing")
	assert.Equal(t, `livesite.JS.scrollIntoView("pricing",{"behavior":"smooth"})`, expectJS(t, c))

	send("  example.com/docs ")
	assert.Equal(t, `livesite.JS.openTab("https://example.com/docs")`, expectJS(t, c))

	send("/#contact")
	assert.Equal(t, `livesite.JS.scrollIntoView("contact",{"behavior":"smooth"})`, expectJS(t, c))

	send("/about#team")
	assert.Equal(t, `livesite.JS.navigate("/about#team")`, expectJS(t, c))

	assert.Equal(t, int64(2), s.Metrics().Navigations.Value("scroll"))
	assert.Equal(t, int64(1), s.Metrics().Navigations.Value("open_tab"))
	assert.Equal(t, int64(1), s.Metrics().Navigations.Value("push"))

	require.Eventually(t, func() bool {
		for _, sock := range s.Sockets().All() {
			if sock.Path() == "/about" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLive_NavigateMissingAnchor(t *testing.T) {
	s, srv := newTestServer(t, nil)
	c := dial(t, srv, "/", "")

	// Replies follow every command the event produced, so a bare reply
	// means nothing was executed.
	for i, href := range []string{"#missing", "#", "", "   "} {
		ref := string(rune('a' + i))
		msg := transport.NewMessage("lv", EventNavigate, map[string]any{"href": href, "path": "/"}).WithRef(ref)
		require.NoError(t, c.Send(msg))

		reply := recv(t, c)
		assert.Equal(t, core.EventReply, reply.Event, "href %q", href)
		assert.Equal(t, ref, reply.Ref)
	}
	assert.Equal(t, int64(2), s.Metrics().Navigations.Value("scroll_miss"))
	assert.Equal(t, int64(4), s.Metrics().Events.Value(EventNavigate))
}

func TestLive_ThemeToggle(t *testing.T) {
	s, srv := newTestServer(t, nil)
	id := uuid.NewString()
	c := dial(t, srv, "/", id)

	require.NoError(t, c.Send(transport.NewMessage("lv", "theme:toggle", nil)))
	cmd := expectJS(t, c)
	assert.Contains(t, cmd, `livesite.JS.addClass("html","dark")`)
	assert.Equal(t, theme.Dark, s.themes.Get(context.Background(), id))

	require.NoError(t, c.Send(transport.NewMessage("lv", "theme:toggle", nil)))
	assert.Contains(t, expectJS(t, c), `livesite.JS.removeClass("html","dark")`)
	assert.Equal(t, theme.Light, s.themes.Get(context.Background(), id))
}

func TestLive_FormSubmit(t *testing.T) {
	var got map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"submissionId":"sub_1"}`))
	}))
	defer api.Close()

	_, srv := newTestServer(t, func(c *config.Config) {
		c.Forms.APIURL = api.URL
	})
	c := dial(t, srv, "/", "")

	require.NoError(t, c.Send(transport.NewMessage("lv", "form:submit", map[string]any{
		"formId": "contact",
		"formData": map[string]any{
			"name":    "Ada",
			"email":   "ada@example.com",
			"message": "Hello there",
		},
	})))

	msg := recv(t, c)
	require.Equal(t, core.EventFormResult, msg.Event)
	assert.Equal(t, true, msg.Payload["success"])
	assert.Equal(t, "sub_1", msg.Payload["submissionId"])
	assert.Equal(t, "contact", got["formId"])
}

func TestLive_FormValidation(t *testing.T) {
	_, srv := newTestServer(t, func(c *config.Config) {
		c.Forms.APIURL = "http://127.0.0.1:1"
	})
	c := dial(t, srv, "/", "")

	require.NoError(t, c.Send(transport.NewMessage("lv", "form:submit", map[string]any{
		"formId":   "contact",
		"formData": map[string]any{"email": "not-an-email"},
	})))

	msg := recv(t, c)
	require.Equal(t, core.EventFormResult, msg.Event)
	assert.Equal(t, false, msg.Payload["success"])
	errs, _ := msg.Payload["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
}

func TestLive_UnknownEvent(t *testing.T) {
	_, srv := newTestServer(t, nil)
	c := dial(t, srv, "/", "")

	require.NoError(t, c.Send(transport.NewMessage("lv", "bogus", nil).WithRef("9")))
	reply := recv(t, c)
	assert.Equal(t, core.EventReply, reply.Event)
	assert.Equal(t, "9", reply.Ref)
	assert.Equal(t, "error", reply.Payload["status"])
	assert.Contains(t, reply.Payload["reason"], "bogus")
}

func TestReload(t *testing.T) {
	s, srv := newTestServer(t, nil)
	c := dial(t, srv, "/", "")

	require.Eventually(t, func() bool { return s.Sockets().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cfg := config.Default()
	cfg.Site.Page.Title = "Reloaded"
	require.NoError(t, s.Reload(cfg))

	assert.Equal(t, `livesite.JS.navigate("/",{"replace":true})`, expectJS(t, c))

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "Reloaded")
}

func TestReload_InvalidKeepsSite(t *testing.T) {
	s, _ := newTestServer(t, nil)
	before := s.Config()

	cfg := config.Default()
	cfg.Site.Pages = nil
	assert.Error(t, s.Reload(cfg))
	assert.Same(t, before, s.Config())
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "livesite.toml")
	require.NoError(t, os.WriteFile(path, []byte("[site.page]\ntitle = \"First\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	s, err := New(cfg)
	require.NoError(t, err)

	w, err := s.Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[site.page]\ntitle = \"Second\"\n"), 0o644))

	require.Eventually(t, func() bool {
		return s.Config().Site.Page.Title == "Second"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1:0"
	s, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	res, err := http.Get("http://" + s.Addr() + HealthPath)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}
