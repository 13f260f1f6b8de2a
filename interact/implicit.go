package interact

import (
	"strings"

	"golang.org/x/net/html"

	"pagemap/pagemaptype"
)

// FromImplicitRoles walks doc assigning the implicit ARIA role HTML
// elements carry by default (a <button> is role=button even with no
// explicit role attribute), the second tier of detection run
// regardless of whether the AX tree is available.
func FromImplicitRoles(doc *html.Node, xpathOf func(*html.Node) string) []pagemaptype.Interactable {
	var out []pagemaptype.Interactable
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if it, ok := implicitInteractable(n, xpathOf); ok {
				out = append(out, it)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func implicitInteractable(n *html.Node, xpathOf func(*html.Node) string) (pagemaptype.Interactable, bool) {
	xpath := xpathOf(n)
	name := accessibleName(n)

	switch n.Data {
	case "button":
		return pagemaptype.Interactable{Role: "button", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
	case "a":
		if _, ok := attrVal(n, "href"); ok {
			return pagemaptype.Interactable{Role: "link", Name: name, ParentXPath: xpath,
				Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
		}
	case "select":
		opts := selectOptions(n)
		return pagemaptype.Interactable{Role: "combobox", Name: name, ParentXPath: xpath, Options: opts,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceSelect}}, true
	case "textarea":
		return pagemaptype.Interactable{Role: "textbox", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceType}}, true
	case "input":
		return implicitInput(n, name, xpath)
	case "summary":
		return pagemaptype.Interactable{Role: "button", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
	}

	if role, ok := attrVal(n, "role"); ok {
		if aff, known := explicitRoleAffordances[role]; known {
			return pagemaptype.Interactable{Role: role, Name: name, ParentXPath: xpath, Affordances: aff}, true
		}
	}
	return pagemaptype.Interactable{}, false
}

var explicitRoleAffordances = map[string][]pagemaptype.Affordance{
	"button":   {pagemaptype.AffordanceClick},
	"link":     {pagemaptype.AffordanceClick},
	"checkbox": {pagemaptype.AffordanceClick},
	"radio":    {pagemaptype.AffordanceClick},
	"switch":   {pagemaptype.AffordanceClick},
	"tab":      {pagemaptype.AffordanceClick},
	"menuitem": {pagemaptype.AffordanceClick},
	"combobox": {pagemaptype.AffordanceSelect},
	"textbox":  {pagemaptype.AffordanceType},
}

func implicitInput(n *html.Node, name, xpath string) (pagemaptype.Interactable, bool) {
	typ, _ := attrVal(n, "type")
	switch strings.ToLower(typ) {
	case "checkbox":
		return pagemaptype.Interactable{Role: "checkbox", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
	case "radio":
		return pagemaptype.Interactable{Role: "radio", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
	case "submit", "button", "reset":
		return pagemaptype.Interactable{Role: "button", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}}, true
	case "hidden":
		return pagemaptype.Interactable{}, false
	default:
		return pagemaptype.Interactable{Role: "textbox", Name: name, ParentXPath: xpath,
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceType}}, true
	}
}

func selectOptions(n *html.Node) []string {
	var opts []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == "option" {
			opts = append(opts, strings.TrimSpace(textOf(c)))
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return opts
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s += textOf(c)
	}
	return s
}

// accessibleName approximates the accessible-name computation: explicit
// aria-label wins, then title, then placeholder for inputs, then the
// element's own text content.
func accessibleName(n *html.Node) string {
	if v, ok := attrVal(n, "aria-label"); ok && v != "" {
		return v
	}
	if v, ok := attrVal(n, "title"); ok && v != "" {
		return v
	}
	if v, ok := attrVal(n, "placeholder"); ok && v != "" {
		return v
	}
	if v, ok := attrVal(n, "value"); ok && n.Data == "input" {
		typ, _ := attrVal(n, "type")
		if strings.EqualFold(typ, "submit") || strings.EqualFold(typ, "button") {
			return v
		}
	}
	return strings.TrimSpace(textOf(n))
}
