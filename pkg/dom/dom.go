// Package dom indexes a rendered page so the server can answer element
// lookups without a browser.
package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Index holds the ids and links of a parsed document. It is read-only after
// Parse and safe for concurrent use.
type Index struct {
	root  *html.Node
	ids   map[string]struct{}
	links []Link
}

// Link is an element carrying an href, as authored.
type Link struct {
	// Href is the data-href attribute if present, otherwise href.
	Href string
	// Tag is the element name, e.g. "a" or "button".
	Tag string
}

// Parse parses an HTML document and indexes it.
func Parse(r io.Reader) (*Index, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	idx := &Index{root: root, ids: make(map[string]struct{})}
	idx.walk(root)
	return idx, nil
}

// ParseString is Parse over a string.
func ParseString(doc string) (*Index, error) {
	return Parse(strings.NewReader(doc))
}

func (idx *Index) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if id, ok := Attr(n, "id"); ok && id != "" {
			idx.ids[id] = struct{}{}
		}
		if href, ok := Attr(n, "data-href"); ok {
			idx.links = append(idx.links, Link{Href: href, Tag: n.Data})
		} else if href, ok := Attr(n, "href"); ok && n.Data == "a" {
			idx.links = append(idx.links, Link{Href: href, Tag: n.Data})
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		idx.walk(c)
	}
}

// Has reports whether an element with the given id exists.
func (idx *Index) Has(id string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.ids[id]
	return ok
}

// IDs returns every element id in sorted order.
func (idx *Index) IDs() []string {
	out := make([]string, 0, len(idx.ids))
	for id := range idx.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Links returns every link in document order.
func (idx *Index) Links() []Link {
	out := make([]Link, len(idx.links))
	copy(out, idx.links)
	return out
}

// NodeByID returns the element with the given id, or nil.
func (idx *Index) NodeByID(id string) *html.Node {
	return GetNodeByID(id, idx.root)
}

// GetNodeByID searches node and its descendants for an element with the
// given id.
func GetNodeByID(id string, node *html.Node) *html.Node {
	if matchAttribute("id", id, node) {
		return node
	}
	for next := node.FirstChild; next != nil; next = next.NextSibling {
		if el := GetNodeByID(id, next); el != nil {
			return el
		}
	}
	return nil
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func matchAttribute(k, v string, n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	got, ok := Attr(n, k)
	return ok && got == v
}
