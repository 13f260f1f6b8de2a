package pruning

import (
	"strings"

	"golang.org/x/net/html"
)

// semanticWeights assigns a base weight per HTML5 semantic tag, the
// accessibility-object-model signal the filter leans on before falling
// back to noise-pattern matching on class/id. main/article content is
// never discounted; nav is always discarded; header/footer depend on
// whether they sit directly under body (site chrome) or nested deeper
// (content-local, e.g. an article's byline footer).
var semanticWeights = map[string]float64{
	"main":    1.0,
	"article": 1.0,
	"nav":     0.0,
	"aside":   0.3,
}

// noisePatterns are substrings commonly found in class/id attributes
// of ad, tracking, and chrome elements; two or more matches on one
// element is treated as decisive.
var noisePatterns = []string{
	"ad", "advertis", "sponsor", "banner", "recommend", "related",
	"sidebar", "popup", "modal", "cookie", "tracking", "overlay",
	"promo", "widget", "toast", "snackbar",
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// computeWeight scores n by the AOM priority order: explicit role
// attribute, HTML5 semantic tag, aria-hidden, inline display/visibility
// style, then class/id noise-pattern count. Weight is in [0,1]; a
// weight below the filter threshold marks the subtree for removal.
func computeWeight(n *html.Node, schema string, isBodyDirectChild bool) float64 {
	if role, ok := attrVal(n, "role"); ok {
		switch role {
		case "navigation":
			return 0.0
		case "main", "article":
			return 1.0
		case "complementary":
			return 0.3
		case "banner", "contentinfo":
			if schema == "GovernmentPage" && role == "contentinfo" {
				return 0.6
			}
			if isBodyDirectChild {
				return 0.0
			}
			return 0.8
		}
	}

	if w, ok := semanticWeights[n.Data]; ok {
		return w
	}
	if n.Data == "section" {
		if _, labeled := attrVal(n, "aria-label"); labeled {
			return 0.8
		}
		if _, labeled := attrVal(n, "aria-labelledby"); labeled {
			return 0.8
		}
		return 0.6
	}
	if n.Data == "header" || n.Data == "footer" {
		if schema == "GovernmentPage" && n.Data == "footer" {
			return 0.6
		}
		if isBodyDirectChild {
			return 0.0
		}
		return 0.8
	}

	if v, ok := attrVal(n, "aria-hidden"); ok && strings.EqualFold(v, "true") {
		return 0.0
	}
	if style, ok := attrVal(n, "style"); ok {
		lower := strings.ToLower(style)
		if strings.Contains(lower, "display:none") || strings.Contains(lower, "display: none") ||
			strings.Contains(lower, "visibility:hidden") || strings.Contains(lower, "visibility: hidden") {
			return 0.0
		}
	}

	noiseHits := 0
	class, _ := attrVal(n, "class")
	id, _ := attrVal(n, "id")
	haystack := strings.ToLower(class + " " + id)
	for _, p := range noisePatterns {
		if strings.Contains(haystack, p) {
			noiseHits++
		}
	}
	if noiseHits >= 2 {
		return 0.0
	}

	return 1.0
}

// DefaultAOMThreshold is the weight below which a subtree is removed.
const DefaultAOMThreshold = 0.5

// neverRemoveTags anchors the document shape so the filter can never
// remove the elements everything else is chunked relative to.
var neverRemoveTags = map[string]bool{"html": true, "body": true, "main": true}

// AOMFilter removes, in place, every subtree of doc scoring below
// threshold under computeWeight, given the page's detected schema.
// Parents are evaluated and removed before their children are visited,
// and a removed xpath's descendants are never revisited.
func AOMFilter(doc *html.Node, schema string, threshold float64) {
	var walk func(n *html.Node, bodyDepth int)
	walk = func(n *html.Node, bodyDepth int) {
		child := n.FirstChild
		isBodyChild := n.Data == "body"
		for child != nil {
			next := child.NextSibling
			if child.Type == html.ElementNode && !neverRemoveTags[child.Data] {
				w := computeWeight(child, schema, isBodyChild)
				if w < threshold {
					n.RemoveChild(child)
					child = next
					continue
				}
			}
			if child.Type == html.ElementNode {
				walk(child, bodyDepth+1)
			}
			child = next
		}
	}
	walk(doc, 0)
}
