package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// HTMLPreview converts a Markdown outline into a standalone HTML fragment.
// Headings get stable id attributes derived from their text so files can be
// deep-linked from a docs index.
func HTMLPreview(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return anchorHeadings(&buf)
}

// anchorHeadings re-parses the generated HTML and injects id attributes on
// h1-h6 elements that lack one.
func anchorHeadings(r *bytes.Buffer) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	seen := map[string]int{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isHeading(n.Data) && !hasID(n) {
			if base := slugify(textContent(n)); base != "" {
				id := base
				if c := seen[base]; c > 0 {
					id = fmt.Sprintf("%s-%d", base, c)
				}
				seen[base]++
				n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var out bytes.Buffer
	body := findBody(doc)
	if body == nil {
		if err := html.Render(&out, doc); err != nil {
			return "", err
		}
		return out.String(), nil
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&out, c); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func hasID(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "id" {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// slugify lowercases text and maps runs of non-alphanumerics to single
// hyphens, e.g. "network.xbr.mobility" -> "network-xbr-mobility".
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
