package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

// EventThemeToggle is sent by the toggle button.
const EventThemeToggle = "theme:toggle"

// ThemeToggle renders the light/dark switch and flips the stored preference
// of the client that clicks it.
type ThemeToggle struct {
	Service *theme.Service
	Logger  logging.Logger
}

func (t *ThemeToggle) Name() string { return "theme_toggle" }

// Render writes the button for the theme in ctx.
func (t *ThemeToggle) Render(ctx context.Context, w io.Writer) error {
	var sb strings.Builder
	writeThemeToggle(&sb, theme.Parse(core.ThemeFromContext(ctx)))
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeThemeToggle(sb *strings.Builder, current theme.Theme) {
	fmt.Fprintf(sb, `<button type="button" class="theme-toggle" data-theme-toggle aria-label="%s">%s</button>`,
		esc(current.Label()), current.Icon())
}

func (t *ThemeToggle) Events() []string {
	return []string{EventThemeToggle}
}

// HandleEvent toggles the preference and restyles the page.
func (t *ThemeToggle) HandleEvent(ctx context.Context, s *core.Socket, event string, payload map[string]any) error {
	next, err := t.Service.Toggle(ctx, s.ClientID())
	if err != nil {
		return fmt.Errorf("toggle theme: %w", err)
	}
	if t.Logger != nil {
		t.Logger.Debug("theme toggled",
			logging.String("client_id", s.ClientID()),
			logging.String("theme", string(next)),
		)
	}
	return s.Exec(theme.Commands(next)...)
}
