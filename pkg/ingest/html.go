package ingest

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0(\D|$)`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0(\s*;|\s*$)`),
}

// convertHTML drops invisible content, sanitizes what remains and renders
// it as Markdown.
func (c *Converter) convertHTML(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	pruneHidden(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}

	clean := c.policy.SanitizeBytes(buf.Bytes())
	out, err := c.markdown.ConvertString(string(clean))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// pruneHidden removes scripts, styles and elements hidden by inline style
// or the hidden attribute.
func pruneHidden(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isHidden(c) {
			n.RemoveChild(c)
		} else {
			pruneHidden(c)
		}
		c = next
	}
}

func isHidden(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	for _, a := range n.Attr {
		switch {
		case a.Key == "hidden":
			return true
		case a.Key == "aria-hidden" && strings.EqualFold(a.Val, "true"):
			return true
		case a.Key == "style":
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}
