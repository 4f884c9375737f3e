package navigation

import "strings"

// DefaultTLDs are the top-level domains recognized by the bare-domain
// heuristic. Extend them through NewClassifier rather than editing this list.
var DefaultTLDs = []string{
	"com", "org", "net", "io", "co", "uk", "de", "fr",
	"jp", "cn", "in", "br", "au", "ca", "ru", "za",
}

// Classifier classifies hrefs using a fixed set of recognized TLDs.
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	tlds map[string]struct{}
}

// NewClassifier returns a Classifier recognizing the given TLDs.
// With no arguments it uses DefaultTLDs.
func NewClassifier(tlds ...string) *Classifier {
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}
	set := make(map[string]struct{}, len(tlds))
	for _, tld := range tlds {
		tld = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
		if tld != "" {
			set[tld] = struct{}{}
		}
	}
	return &Classifier{tlds: set}
}

// TLDs returns the recognized TLDs in no particular order.
func (c *Classifier) TLDs() []string {
	out := make([]string, 0, len(c.tlds))
	for tld := range c.tlds {
		out = append(out, tld)
	}
	return out
}

// looksLikeDomain reports whether href is a bare domain such as
// "example.com", "www.example.org/about" or "docs.example.io:8080".
func (c *Classifier) looksLikeDomain(href string) bool {
	if strings.HasPrefix(href, "www.") {
		return true
	}

	host := href
	if i := strings.IndexAny(host, "/?#:"); i >= 0 {
		host = host[:i]
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !isLabel(label) {
			return false
		}
	}

	_, ok := c.tlds[strings.ToLower(labels[len(labels)-1])]
	return ok
}

func isLabel(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
