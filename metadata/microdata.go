package metadata

import "golang.org/x/net/html"

// microdataItems finds every element carrying itemscope and returns its
// itemprop children flattened into a map, keyed by itemprop name.
func microdataItems(doc *html.Node) []map[string]interface{} {
	var out []map[string]interface{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := attrVal(n, "itemscope"); ok {
				m := map[string]interface{}{}
				collectItemProps(n, m)
				if len(m) > 0 {
					out = append(out, m)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// collectItemProps descends into n collecting itemprop values, but does
// not cross into a nested itemscope (that subitem is collected on its
// own pass by microdataItems' outer walk).
func collectItemProps(n *html.Node, m map[string]interface{}) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if prop, ok := attrVal(c, "itemprop"); ok {
			if _, nested := attrVal(c, "itemscope"); !nested {
				m[prop] = microdataValue(c)
			}
		}
		if _, nested := attrVal(c, "itemscope"); !nested {
			collectItemProps(c, m)
		}
	}
}

func microdataValue(n *html.Node) string {
	if v, ok := attrVal(n, "content"); ok {
		return v
	}
	switch n.Data {
	case "a", "link":
		if v, ok := attrVal(n, "href"); ok {
			return v
		}
	case "img":
		if v, ok := attrVal(n, "src"); ok {
			return v
		}
	case "time":
		if v, ok := attrVal(n, "datetime"); ok {
			return v
		}
	case "meta":
		if v, ok := attrVal(n, "content"); ok {
			return v
		}
	}
	return textContent(n)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s += textContent(c)
	}
	return s
}
