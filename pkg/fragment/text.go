package fragment

import (
	"regexp"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`[ \t]{2,}`)
)

// PlainText renders the document as terminal text wrapped at width. A width
// below one disables wrapping.
func PlainText(doc *html.Node, width int) string {
	var sb strings.Builder
	writeText(doc, &sb)

	s := multiSpace.ReplaceAllString(sb.String(), " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.TrimSpace(multiNewline.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
	if width > 0 {
		s = wordwrap.String(s, width)
	}
	return s
}

func writeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteString(" ")
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "input", "template":
			return
		case "br":
			sb.WriteString("\n")
			return
		}
		if hidden(n) {
			return
		}
		if block(n.Data) {
			sb.WriteString("\n")
		}
		if n.Data == "li" {
			sb.WriteString("- ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb)
	}
	if n.Type == html.ElementNode && block(n.Data) {
		sb.WriteString("\n")
	}
}

func block(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "tr", "table", "section",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// hidden reports elements the browser would not show: the hidden attribute
// or the "hidden" utility class the server uses for the marker container.
func hidden(n *html.Node) bool {
	if hasAttr(n, "hidden") {
		return true
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == "hidden" {
			return true
		}
	}
	return false
}

// CSRFToken returns the CSRF token embedded in a page: the value of
// input#csrfToken, or failing that of the csrfmiddlewaretoken form field.
func CSRFToken(doc *html.Node) string {
	if in := ByID(doc, "csrfToken"); in != nil && in.Data == "input" {
		if v := attr(in, "value"); v != "" {
			return v
		}
	}
	in := find(doc, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "input" && attr(c, "name") == "csrfmiddlewaretoken"
	})
	if in == nil {
		return ""
	}
	return attr(in, "value")
}
