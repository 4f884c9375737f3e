package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/js"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

const (
	// MobileMenuID is the id of the panel holding the navigation on narrow
	// screens.
	MobileMenuID = "mobile-menu"
	openClass    = "open"
)

// MenuToggleCommand opens or closes the mobile menu.
func MenuToggleCommand() js.Command {
	return js.JS.ToggleClass("#"+MobileMenuID, openClass)
}

// Navigation renders the sticky top bar.
type Navigation struct {
	Config     website.NavigationConfig
	Classifier *navigation.Classifier
}

func (n *Navigation) Name() string { return website.SectionNavigation }

func (n *Navigation) Render(ctx context.Context, w io.Writer) error {
	cfg := n.Config
	var sb strings.Builder

	sb.WriteString(`<nav class="nav" aria-label="Main navigation">` + "\n")
	sb.WriteString(`<div class="container nav-inner">` + "\n")

	writeLink(&sb, n.Classifier, cfg.BrandHref, "brand", cfg.BrandName)
	sb.WriteString("\n")

	sb.WriteString(`<div class="nav-links">` + "\n")
	for _, item := range cfg.Items {
		writeLink(&sb, n.Classifier, item.Href, "", item.Label)
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n")

	sb.WriteString(`<div class="nav-actions">` + "\n")
	writeThemeToggle(&sb, theme.Parse(core.ThemeFromContext(ctx)))
	sb.WriteString("\n")
	if cfg.ShowCTA && cfg.CTAText != "" {
		writeLink(&sb, n.Classifier, cfg.CTAHref, "btn btn-primary", cfg.CTAText)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, `<button type="button" class="nav-menu-toggle" aria-label="Toggle menu" aria-controls="%s" data-js="%s">&#9776;</button>`+"\n",
		MobileMenuID, esc(MenuToggleCommand().ToJS()))
	sb.WriteString("</div>\n")
	sb.WriteString("</div>\n")

	// Links inside the panel close it on click before they navigate.
	fmt.Fprintf(&sb, `<div id="%s" class="nav-mobile" data-dismiss="%s">`+"\n", MobileMenuID, openClass)
	writeLink(&sb, n.Classifier, cfg.BrandHref, "brand", cfg.BrandName)
	sb.WriteString("\n")
	for _, item := range cfg.Items {
		writeLink(&sb, n.Classifier, item.Href, "", item.Label)
		sb.WriteString("\n")
	}
	if cfg.ShowCTA && cfg.CTAText != "" {
		writeLink(&sb, n.Classifier, cfg.CTAHref, "btn btn-primary btn-block", cfg.CTAText)
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n")

	sb.WriteString("</nav>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
