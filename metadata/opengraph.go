package metadata

import (
	"strings"

	"golang.org/x/net/html"
)

// ogFieldMap maps an og:/twitter: meta property suffix to the flat
// metadata key it contributes, since C7 compressors read the merged
// map by flat key regardless of which extraction pass produced it.
var ogFieldMap = map[string]string{
	"og:title":               "title",
	"og:description":         "description",
	"og:image":               "image",
	"og:url":                 "url",
	"og:site_name":           "site_name",
	"og:type":                "og_type",
	"twitter:title":          "title",
	"twitter:description":    "description",
	"twitter:image":          "image",
	"og:price:amount":        "og_price",
	"product:price:amount":   "og_price",
	"product:price:currency": "currency",
}

// openGraphMeta reads <meta property="og:*"> and <meta name="twitter:*">
// tags, plus <title> and the og:/product: price amount and currency
// tags. No rating meta tag is read.
func openGraphMeta(doc *html.Node) map[string]interface{} {
	out := map[string]interface{}{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			key, _ := attrVal(n, "property")
			if key == "" {
				key, _ = attrVal(n, "name")
			}
			content, hasContent := attrVal(n, "content")
			if hasContent {
				if field, ok := ogFieldMap[strings.ToLower(key)]; ok {
					if field == "image" {
						mergeImageField(out, content)
					} else if _, exists := out[field]; !exists {
						out[field] = content
					}
				}
			}
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if _, exists := out["title"]; !exists {
				out["title"] = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func mergeImageField(out map[string]interface{}, url string) {
	if !isAllowedImageURL(url) {
		return
	}
	existing, _ := out["image"].([]string)
	out["image"] = append(existing, url)
}
