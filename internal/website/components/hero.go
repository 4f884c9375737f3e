package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

// Hero renders the headline section.
type Hero struct {
	Config     website.HeroConfig
	Classifier *navigation.Classifier
}

func (h *Hero) Name() string { return website.SectionHero }

func (h *Hero) Render(ctx context.Context, w io.Writer) error {
	cfg := h.Config
	var sb strings.Builder

	sb.WriteString(`<section id="hero" class="hero" aria-labelledby="hero-title">` + "\n")
	sb.WriteString(`<div class="container hero-grid">` + "\n")
	sb.WriteString(`<div class="animate-fade-in">` + "\n")

	if cfg.Announcement != "" {
		fmt.Fprintf(&sb, `<span class="announcement">%s</span>`+"\n", esc(cfg.Announcement))
	}

	fmt.Fprintf(&sb, `<h1 id="hero-title">%s</h1>`+"\n", esc(cfg.Title))
	if cfg.Subtitle != "" {
		fmt.Fprintf(&sb, `<p class="hero-subtitle">%s</p>`+"\n", esc(cfg.Subtitle))
	}

	sb.WriteString(`<div class="hero-actions">` + "\n")
	if cfg.CTAText != "" {
		writeLink(&sb, h.Classifier, cfg.CTAHref, "btn btn-primary", cfg.CTAText)
		sb.WriteString("\n")
	}
	if cfg.SecondaryCTAText != "" {
		writeLink(&sb, h.Classifier, cfg.SecondaryCTAHref, "btn btn-outline", cfg.SecondaryCTAText)
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n")

	if len(cfg.Features) > 0 {
		sb.WriteString(`<ul class="hero-features">` + "\n")
		for _, f := range cfg.Features {
			fmt.Fprintf(&sb, "<li>%s</li>\n", esc(f))
		}
		sb.WriteString("</ul>\n")
	}
	if cfg.TrustBadge != "" {
		fmt.Fprintf(&sb, `<p class="trust-badge">%s</p>`+"\n", esc(cfg.TrustBadge))
	}
	sb.WriteString("</div>\n")

	if cfg.ImageURL != "" {
		fmt.Fprintf(&sb, `<img class="hero-image" src="%s" alt="%s" loading="eager">`+"\n",
			esc(cfg.ImageURL), esc(cfg.ImageAlt))
	}

	sb.WriteString("</div>\n</section>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
