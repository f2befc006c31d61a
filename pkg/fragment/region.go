// Package fragment models the display region that server fragments are
// swapped into and reads symptom data back out of it.
package fragment

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Region is a named display region. Its content is replaced wholesale by
// every swap, the way an innerHTML swap replaces the children of the target
// element.
type Region struct {
	ID      string
	content string
	swaps   int
}

// NewRegion returns an empty region with the given element id.
func NewRegion(id string) *Region {
	return &Region{ID: id}
}

// Swap replaces the region's content with markup.
func (r *Region) Swap(markup string) {
	r.content = markup
	r.swaps++
}

// HTML returns the current content.
func (r *Region) HTML() string { return r.content }

// Swaps counts the swaps applied so far.
func (r *Region) Swaps() int { return r.swaps }

// Empty reports whether the region holds nothing but whitespace.
func (r *Region) Empty() bool {
	return strings.TrimSpace(r.content) == ""
}

// Doc parses the content as the children of a div and returns a synthetic
// root holding them.
func (r *Region) Doc() (*html.Node, error) {
	return Parse(r.content)
}

// Parse parses markup in body context. The returned node is a div that owns
// the parsed nodes.
func Parse(markup string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, fmt.Errorf("fragment: parse: %w", err)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return root, nil
}

// ByID returns the first element below n with the given id.
func ByID(n *html.Node, id string) *html.Node {
	return find(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && attr(c, "id") == id
	})
}

// Elements returns every element below n with the given tag, in document
// order.
func Elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c != n && c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		return true
	})
	return out
}

// TextContent concatenates the text nodes below n, like the DOM property of
// the same name.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c != n && match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth first. Returning false from visit
// skips the children of the visited node.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
