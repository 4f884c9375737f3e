package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

// OpensDirectly reports whether a footer link skips the navigation resolver
// and opens a new tab straight away. Only hrefs literally starting with
// "http" do.
func OpensDirectly(href string) bool {
	return strings.HasPrefix(href, "http")
}

// Footer renders the page footer.
type Footer struct {
	Config     website.FooterConfig
	Classifier *navigation.Classifier
}

func (f *Footer) Name() string { return website.SectionFooter }

func (f *Footer) Render(ctx context.Context, w io.Writer) error {
	cfg := f.Config
	var sb strings.Builder

	sb.WriteString(`<footer id="footer" class="footer" role="contentinfo">` + "\n")
	sb.WriteString(`<div class="container">` + "\n")
	sb.WriteString(`<div class="footer-grid">` + "\n")

	sb.WriteString("<div>\n")
	fmt.Fprintf(&sb, `<h3 class="brand">%s</h3>`+"\n", esc(cfg.BrandName))
	if cfg.Tagline != "" {
		fmt.Fprintf(&sb, "<p>%s</p>\n", esc(cfg.Tagline))
	}
	if cfg.ContactEmail != "" {
		fmt.Fprintf(&sb, `<p><a href="mailto:%s">%s</a></p>`+"\n", esc(cfg.ContactEmail), esc(cfg.ContactEmail))
	}
	if cfg.ContactPhone != "" {
		fmt.Fprintf(&sb, `<p><a href="tel:%s">%s</a></p>`+"\n", esc(telHref(cfg.ContactPhone)), esc(cfg.ContactPhone))
	}
	if len(cfg.SocialLinks) > 0 {
		sb.WriteString(`<div class="social">` + "\n")
		for _, s := range cfg.SocialLinks {
			writeFooterLink(&sb, f.Classifier, s.Href, socialLabel(s))
			sb.WriteString("\n")
		}
		sb.WriteString("</div>\n")
	}
	sb.WriteString("</div>\n")

	writeLinkColumn(&sb, f.Classifier, "Company", cfg.CompanyLinks)
	writeLinkColumn(&sb, f.Classifier, "Legal", cfg.LegalLinks)

	sb.WriteString("</div>\n")

	if cfg.Copyright != "" {
		fmt.Fprintf(&sb, `<p class="copyright">%s</p>`+"\n", esc(cfg.Copyright))
	}

	sb.WriteString("</div>\n</footer>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeLinkColumn(sb *strings.Builder, c *navigation.Classifier, title string, links []website.Link) {
	if len(links) == 0 {
		return
	}
	fmt.Fprintf(sb, "<nav aria-label=\"%s\">\n<h4>%s</h4>\n<ul>\n", esc(title), esc(title))
	for _, l := range links {
		sb.WriteString("<li>")
		writeFooterLink(sb, c, l.Href, l.Label)
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ul>\n</nav>\n")
}

// writeFooterLink renders http links as direct new-tab links and everything
// else through the resolver.
func writeFooterLink(sb *strings.Builder, c *navigation.Classifier, href, label string) {
	if OpensDirectly(href) {
		fmt.Fprintf(sb, `<a href="%s" data-open-tab="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
			esc(href), esc(href), esc(label))
		return
	}
	writeLink(sb, c, href, "", label)
}

func socialLabel(s website.SocialLink) string {
	if s.Platform != "" {
		return s.Platform
	}
	return s.Icon
}

// telHref keeps the characters a dialer understands.
func telHref(phone string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, phone)
}
