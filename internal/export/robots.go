package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/benjaminestes/robots/v2"

	"github.com/gabrielmiguelok/livesite/internal/website/pages"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

// RobotsFile is the name of the exported robots.txt.
const RobotsFile = "robots.txt"

// auditAgent is the user agent links are tested as.
const auditAgent = "*"

// defaultBase is used for auditing when the site has no canonical URL.
const defaultBase = "http://localhost/"

// Problem is what is wrong with a link.
type Problem uint8

const (
	// Blocked links point at a path robots.txt disallows.
	Blocked Problem = iota + 1
	// Missing links point at a path no page is exported for.
	Missing
)

func (p Problem) String() string {
	switch p {
	case Blocked:
		return "blocked by robots.txt"
	case Missing:
		return "no such page"
	default:
		return "unknown"
	}
}

// Finding is an internal link that needs attention.
type Finding struct {
	Page    string
	Href    string
	Problem Problem
}

// RobotsTxt returns a robots.txt for all user agents. Without rules every
// path is allowed.
func RobotsTxt(disallow []string) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	if len(disallow) == 0 {
		sb.WriteString("Disallow:\n")
	}
	for _, d := range disallow {
		fmt.Fprintf(&sb, "Disallow: %s\n", strings.TrimSpace(d))
	}
	return sb.String()
}

// Audit checks the internal links of every page. Links are tested against
// robotsTxt as if served from base, and against the set of pages.
// External links and same-page anchors are skipped.
func Audit(site *pages.Site, robotsTxt, base string) ([]Finding, error) {
	if base == "" {
		base = defaultBase
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Host == "" {
		return nil, fmt.Errorf("audit: invalid base url %q", base)
	}

	rtxt, err := robots.From(200, strings.NewReader(robotsTxt))
	if err != nil {
		return nil, fmt.Errorf("audit: parse robots.txt: %w", err)
	}
	allowed := rtxt.Tester(auditAgent)

	var findings []Finding
	for _, page := range site.Paths() {
		seen := map[string]bool{}
		for _, link := range site.Index(page).Links() {
			t, ok := navigation.Classify(link.Href)
			if !ok || seen[t.Href] {
				continue
			}
			if t.Kind != navigation.InternalPath && t.Kind != navigation.CrossPageAnchor {
				continue
			}
			if !strings.HasPrefix(t.Path, "/") {
				continue
			}
			seen[t.Href] = true

			ref, err := url.Parse(t.Path)
			if err != nil {
				continue
			}
			target := baseURL.ResolveReference(ref)

			if !allowed(target.String()) {
				findings = append(findings, Finding{Page: page, Href: t.Href, Problem: Blocked})
			}
			if !site.Has(target.Path) {
				findings = append(findings, Finding{Page: page, Href: t.Href, Problem: Missing})
			}
		}
	}
	return findings, nil
}
