// Package components renders the sections of the marketing site.
//
// Every link is rendered with a data-href attribute carrying the authored
// href; the live client sends it to the server on click and the navigation
// resolver decides what happens. The plain href attribute is kept so pages
// still work without the live connection.
package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

// linkAttrs returns the attributes of an anchor for href. External hrefs
// are decided by c, the classifier the live resolver uses, so the rendered
// link and the click agree. A nil c uses the default TLDs.
func linkAttrs(c *navigation.Classifier, href string) string {
	href = strings.TrimSpace(href)
	if isExternal(c, href) {
		return fmt.Sprintf(`href="%s" data-href="%s" target="_blank" rel="noopener noreferrer"`,
			html.EscapeString(navigation.NormalizeExternal(href)),
			html.EscapeString(href))
	}
	return fmt.Sprintf(`href="%s" data-href="%s"`, html.EscapeString(href), html.EscapeString(href))
}

func isExternal(c *navigation.Classifier, href string) bool {
	if c == nil {
		return navigation.IsExternal(href)
	}
	return c.IsExternal(href)
}

// writeLink writes an anchor routed through the navigation resolver. Calls
// to action use it too, with a btn class, so they stay followable when the
// page has no live connection.
func writeLink(sb *strings.Builder, c *navigation.Classifier, href, class, label string) {
	sb.WriteString("<a ")
	sb.WriteString(linkAttrs(c, href))
	if class != "" {
		fmt.Fprintf(sb, ` class="%s"`, class)
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(label))
	sb.WriteString("</a>")
}

func esc(s string) string {
	return html.EscapeString(s)
}
