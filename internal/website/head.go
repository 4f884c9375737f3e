package website

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/gabrielmiguelok/livesite/pkg/theme"
)

// ClientScript is the path the live client is served from.
const ClientScript = "/_live/livesite.js"

// Document is one rendered page.
type Document struct {
	// Page is the site-wide metadata.
	Page PageConfig
	// Title overrides Page.Title when set.
	Title string
	// Path is the page path, used for og:url.
	Path string
	// Theme is the theme the page is rendered in.
	Theme theme.Theme
	// Static pages restore the theme from localStorage before first paint
	// because no server knows the visitor.
	Static bool
	// Body is the section markup.
	Body string
	// CustomCSS is appended to the stylesheet.
	CustomCSS string
}

func (d Document) title() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Page.Title
}

func (d Document) lang() string {
	if d.Page.Language == "" {
		return "en"
	}
	return d.Page.Language
}

func (d Document) url() string {
	if d.Page.URL == "" {
		return ""
	}
	return strings.TrimRight(d.Page.URL, "/") + d.Path
}

// RenderHead generates the <head> element.
func RenderHead(d Document) string {
	var sb strings.Builder

	themeColor := d.Page.ThemeColor
	if themeColor == "" {
		themeColor = LightColors["primary"]
	}

	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(d.title()))

	if d.Page.Description != "" {
		fmt.Fprintf(&sb, `<meta name="description" content="%s">`+"\n", html.EscapeString(d.Page.Description))
	}
	if len(d.Page.Keywords) > 0 {
		fmt.Fprintf(&sb, `<meta name="keywords" content="%s">`+"\n", html.EscapeString(strings.Join(d.Page.Keywords, ", ")))
	}
	if u := d.url(); u != "" {
		fmt.Fprintf(&sb, `<link rel="canonical" href="%s">`+"\n", html.EscapeString(u))
	}
	fmt.Fprintf(&sb, `<meta name="theme-color" content="%s">`+"\n", html.EscapeString(themeColor))

	sb.WriteString(renderOpenGraph(d))
	sb.WriteString(renderJSONLD(d))

	if d.Page.Favicon != "" {
		fmt.Fprintf(&sb, `<link rel="icon" href="%s">`+"\n", html.EscapeString(d.Page.Favicon))
	}

	if d.Static {
		sb.WriteString(themeRestoreScript)
	}

	sb.WriteString("<style>\n")
	sb.WriteString(RenderStyles())
	if d.CustomCSS != "" {
		sb.WriteString("\n")
		sb.WriteString(d.CustomCSS)
	}
	sb.WriteString("\n</style>\n")
	fmt.Fprintf(&sb, `<script src="%s" defer></script>`+"\n", ClientScript)
	sb.WriteString("</head>\n")

	return sb.String()
}

// themeRestoreScript runs before first paint on static pages.
var themeRestoreScript = fmt.Sprintf(
	`<script>try{if(localStorage.getItem(%q)===%q){document.documentElement.classList.add(%q)}}catch(e){}</script>`+"\n",
	theme.Key, string(theme.Dark), theme.Dark.RootClass(),
)

func renderOpenGraph(d Document) string {
	var sb strings.Builder

	sb.WriteString(`<meta property="og:type" content="website">` + "\n")
	fmt.Fprintf(&sb, `<meta property="og:title" content="%s">`+"\n", html.EscapeString(d.title()))
	if d.Page.Description != "" {
		fmt.Fprintf(&sb, `<meta property="og:description" content="%s">`+"\n", html.EscapeString(d.Page.Description))
	}
	if u := d.url(); u != "" {
		fmt.Fprintf(&sb, `<meta property="og:url" content="%s">`+"\n", html.EscapeString(u))
	}
	if d.Page.OGImage != "" {
		fmt.Fprintf(&sb, `<meta property="og:image" content="%s">`+"\n", html.EscapeString(d.Page.OGImage))
	}
	fmt.Fprintf(&sb, `<meta property="og:locale" content="%s">`+"\n", html.EscapeString(d.lang()))

	return sb.String()
}

func renderJSONLD(d Document) string {
	data := map[string]string{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     d.title(),
	}
	if d.Page.Description != "" {
		data["description"] = d.Page.Description
	}
	if u := d.url(); u != "" {
		data["url"] = u
	}

	// json.Marshal escapes <, > and & so the payload cannot close the tag.
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(`<script type="application/ld+json">%s</script>`+"\n", b)
}

// RenderDocument wraps the body in a complete HTML document. The html
// element carries the theme class so the first paint is already themed.
// Static documents are marked data-static so the client stays offline.
func RenderDocument(d Document) string {
	class := ""
	if c := d.Theme.RootClass(); c != "" {
		class = fmt.Sprintf(` class="%s"`, c)
	}
	if d.Static {
		class += " data-static"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s"%s>
%s<body>
<a href="#main-content" class="skip-link">Skip to main content</a>
<main id="main-content">
%s
</main>
</body>
</html>`, html.EscapeString(d.lang()), class, RenderHead(d), d.Body)
}
