package pruning

import (
	"strings"

	"golang.org/x/net/html"
)

// keepAttrs is the attribute allowlist surviving stripping: everything
// else is presentation or tracking cruft an agent never needs to read
// the page or act on it, except a class attribute naming a price, a
// rating or an a-offscreen span, which filterAttrs keeps so downstream
// extraction (the product compressor's price scan) can read it.
var keepAttrs = map[string]bool{
	"itemprop": true, "itemtype": true, "itemscope": true,
	"role": true, "aria-label": true, "aria-labelledby": true,
	"href": true, "src": true, "alt": true, "title": true,
	"datetime": true, "content": true, "property": true,
	"type": true, "name": true, "value": true, "placeholder": true,
	"checked": true, "selected": true, "disabled": true,
}

// StripAttributes removes every attribute of every element in doc not
// in keepAttrs, and drops all on* event-handler and style attributes
// outright regardless of the allowlist (defense in depth: an allowlist
// miss should never leak an inline handler).
func StripAttributes(doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			n.Attr = filterAttrs(n.Attr)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func filterAttrs(attrs []html.Attribute) []html.Attribute {
	var out []html.Attribute
	for _, a := range attrs {
		if strings.HasPrefix(a.Key, "on") {
			continue
		}
		if a.Key == "class" {
			lower := strings.ToLower(a.Val)
			if strings.Contains(lower, "price") || strings.Contains(lower, "rating") || strings.Contains(lower, "a-offscreen") {
				out = append(out, a)
			}
			continue
		}
		if !keepAttrs[a.Key] {
			continue
		}
		out = append(out, a)
	}
	return out
}
