package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// fontSizeZeroRE matches a font-size:0 declaration used to visually
// hide text while keeping it in the DOM for scrapers, but not a
// legitimate small-but-nonzero size like "font-size:0.5rem" — the
// decimal case is excluded by requiring the zero be followed only by an
// optional px/em/rem/% unit and then a declaration boundary (";", "!"
// or the end of the value).
var fontSizeZeroRE = regexp.MustCompile(`font-size\s*:\s*0(?:px|em|rem|%)?\s*(?:;|$|!)`)

var displayNoneRE = regexp.MustCompile(`display\s*:\s*none`)
var visibilityHiddenRE = regexp.MustCompile(`visibility\s*:\s*hidden`)
var opacityZeroRE = regexp.MustCompile(`opacity\s*:\s*0(?:\s*(?:;|$|!)|\.0)`)

// IsHiddenByStyle reports whether a style attribute value hides its
// element from sighted users while leaving it readable by a naive text
// scraper: zero font size, display:none, visibility:hidden, or zero
// opacity.
func IsHiddenByStyle(style string) bool {
	style = strings.ToLower(style)
	return fontSizeZeroRE.MatchString(style) ||
		displayNoneRE.MatchString(style) ||
		visibilityHiddenRE.MatchString(style) ||
		opacityZeroRE.MatchString(style)
}

// IsOffscreen reports whether a style attribute positions its element
// far outside the viewport, a common sighted-hiding technique that
// display:none detection alone misses.
func IsOffscreen(style string) bool {
	style = strings.ToLower(style)
	if !strings.Contains(style, "position") {
		return false
	}
	for _, marker := range []string{"-9999px", "-9999em", "left:-999", "top:-999"} {
		if strings.Contains(style, marker) {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// isElementHidden reports whether n itself is hidden: the hidden
// attribute, aria-hidden="true", or a style attribute matched by
// IsHiddenByStyle/IsOffscreen.
func isElementHidden(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if _, ok := attrVal(n, "hidden"); ok {
		return true
	}
	if v, ok := attrVal(n, "aria-hidden"); ok && strings.EqualFold(v, "true") {
		return true
	}
	if v, ok := attrVal(n, "style"); ok {
		if IsHiddenByStyle(v) || IsOffscreen(v) {
			return true
		}
	}
	return false
}

// StripHidden removes every element subtree in doc that is hidden from
// sighted users, so cloaked prompt-injection text never reaches the
// pruning pipeline. Walks depth-first and removes parent-first so a
// hidden ancestor isn't redundantly inspected child by child.
func StripHidden(doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if isElementHidden(child) {
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	walk(doc)
}
