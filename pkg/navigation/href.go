package navigation

import (
	"fmt"
	"strings"
)

// Kind is the classification of an href. The four kinds partition the set of
// non-empty hrefs.
type Kind uint8

const (
	// External hrefs open in a new browsing context.
	External Kind = iota + 1
	// SamePageAnchor hrefs start with '#'.
	SamePageAnchor
	// CrossPageAnchor hrefs carry a path and a fragment.
	CrossPageAnchor
	// InternalPath is the default: a client-side route.
	InternalPath
)

func (k Kind) String() string {
	switch k {
	case External:
		return "external"
	case SamePageAnchor:
		return "same-page-anchor"
	case CrossPageAnchor:
		return "cross-page-anchor"
	case InternalPath:
		return "internal-path"
	default:
		return "unknown"
	}
}

// Target is a classified href.
//
// Which fields are set depends on Kind:
//
//	External         URL (normalized)
//	SamePageAnchor   Fragment
//	CrossPageAnchor  Path, Fragment
//	InternalPath     Path
//
// Href always holds the trimmed input.
type Target struct {
	Kind     Kind
	Href     string
	URL      string
	Path     string
	Fragment string
}

func (t Target) String() string {
	switch t.Kind {
	case External:
		return fmt.Sprintf("External(%s)", t.URL)
	case SamePageAnchor:
		return fmt.Sprintf("SamePageAnchor(%s)", t.Fragment)
	case CrossPageAnchor:
		return fmt.Sprintf("CrossPageAnchor(%s, %s)", t.Path, t.Fragment)
	case InternalPath:
		return fmt.Sprintf("InternalPath(%s)", t.Path)
	default:
		return "Target(?)"
	}
}

var defaultClassifier = NewClassifier()

// Classify classifies href with DefaultTLDs. The boolean is false when href
// is empty or whitespace only.
func Classify(href string) (Target, bool) {
	return defaultClassifier.Classify(href)
}

// Classify classifies href. Rules are applied in order and the first match
// wins; the order matters because some hrefs match several shapes.
func (c *Classifier) Classify(href string) (Target, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return Target{}, false
	}

	if hasScheme(href) || c.looksLikeDomain(href) {
		return Target{Kind: External, Href: href, URL: NormalizeExternal(href)}, true
	}

	if strings.HasPrefix(href, "#") {
		return Target{Kind: SamePageAnchor, Href: href, Fragment: href[1:]}, true
	}

	// Only the first '#' splits; later ones stay in the fragment.
	if path, fragment, ok := strings.Cut(href, "#"); ok {
		return Target{Kind: CrossPageAnchor, Href: href, Path: path, Fragment: fragment}, true
	}

	return Target{Kind: InternalPath, Href: href, Path: href}, true
}

// IsExternal reports whether href classifies as External with DefaultTLDs.
func IsExternal(href string) bool {
	return defaultClassifier.IsExternal(href)
}

// IsExternal reports whether href classifies as External.
func (c *Classifier) IsExternal(href string) bool {
	t, ok := c.Classify(href)
	return ok && t.Kind == External
}

func hasScheme(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

// NormalizeExternal prefixes href with "https://" unless it already starts
// with "http" or "//". Applying it twice gives the same result as once.
func NormalizeExternal(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http") || strings.HasPrefix(href, "//") {
		return href
	}
	return "https://" + href
}
