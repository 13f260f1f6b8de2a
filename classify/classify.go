// Package classify implements C6, the page-type classifier: a
// blocked-page short-circuit followed by weighted voting across schema
// and structural signals, with a schema-name override table.
package classify

import (
	"strings"

	"golang.org/x/net/html"
)

// PageType is the coarse classification surfaced in PageMap.PageType.
type PageType string

const (
	PageProduct    PageType = "product"
	PageArticle    PageType = "article"
	PageListing    PageType = "listing"
	PageSearch     PageType = "search"
	PageForm       PageType = "form"
	PageWiki       PageType = "wiki"
	PageGovernment PageType = "government"
	PageGeneric    PageType = "generic"
)

// blockSignatures are substrings found in the text of known captcha/WAF
// interstitial pages; a match short-circuits classification entirely
// since nothing else about the page is worth voting on.
var blockSignatures = []struct {
	substr string
	kind   string
}{
	{"verify you are human", "captcha"},
	{"checking your browser", "interstitial"},
	{"access denied", "waf"},
	{"cloudflare", "waf"},
	{"are you a robot", "captcha"},
	{"unusual traffic from your computer", "rate_limit"},
}

// blockDOMMarkers matches a named captcha/WAF provider by a class/id
// substring on some element in the page — the shape these providers'
// widgets actually render in, which a text-phrase scan alone misses
// (a Turnstile or reCAPTCHA challenge carries little prose, just a
// branded iframe/div).
var blockDOMMarkers = []struct {
	substr string
	kind   string
}{
	{"g-recaptcha", "captcha"},
	{"h-captcha", "captcha"},
	{"cf-turnstile", "captcha"},
	{"challenge-form", "interstitial"},
	{"captcha-container", "captcha"},
	{"datadome", "waf"},
	{"px-captcha", "waf"},
	{"human-challenge", "waf"},
	{"incapsula", "waf"},
	{"_incap_", "waf"},
}

// DetectBlocked inspects doc's class/id attributes for a known
// captcha/WAF provider marker first, falling back to a text-phrase scan
// of bodyText. It returns the kind, the DOM node that matched (nil for
// a text-only match), and whether a match occurred. doc may be nil, in
// which case only the text-phrase scan runs.
func DetectBlocked(doc *html.Node, bodyText string) (string, *html.Node, bool) {
	if doc != nil {
		if kind, node, ok := detectBlockedDOM(doc); ok {
			return kind, node, true
		}
	}
	lower := strings.ToLower(bodyText)
	for _, sig := range blockSignatures {
		if strings.Contains(lower, sig.substr) {
			return sig.kind, nil, true
		}
	}
	return "", nil, false
}

func detectBlockedDOM(doc *html.Node) (string, *html.Node, bool) {
	var found *html.Node
	var foundKind string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			class := strings.ToLower(classifyAttrVal(n, "class"))
			id := strings.ToLower(classifyAttrVal(n, "id"))
			for _, m := range blockDOMMarkers {
				if strings.Contains(class, m.substr) || strings.Contains(id, m.substr) {
					found = n
					foundKind = m.kind
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if found != nil {
				return
			}
		}
	}
	walk(doc)
	if found == nil {
		return "", nil, false
	}
	return foundKind, found, true
}

func classifyAttrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// schemaOverride maps a detected JSON-LD/microdata @type directly to a
// PageType, bypassing the structural vote when the page has already
// told us unambiguously what it is.
var schemaOverride = map[string]PageType{
	"Product":           PageProduct,
	"Article":           PageArticle,
	"NewsArticle":       PageArticle,
	"FAQPage":           PageArticle,
	"WikiArticle":       PageWiki,
	"GovernmentPage":    PageGovernment,
	"ItemList":          PageListing,
	"SearchResultsPage": PageSearch,
}

// Classify returns the page's PageType. schema is the @type detected by
// the metadata extractor;
// doc is the post-pruning DOM used for structural voting when schema
// gives no override.
func Classify(doc *html.Node, schema string) PageType {
	if pt, ok := schemaOverride[schema]; ok {
		return pt
	}
	return vote(doc)
}

// signal is one structural vote: a detector function and the PageType
// it argues for when true.
type signal struct {
	detect func(*html.Node) bool
	result PageType
	weight float64
}

func vote(doc *html.Node) PageType {
	signals := []signal{
		{hasSearchResultsShape, PageSearch, 1.0},
		{hasListingShape, PageListing, 1.0},
		{hasFormShape, PageForm, 0.8},
		{hasArticleShape, PageArticle, 1.0},
	}

	scores := map[PageType]float64{}
	for _, s := range signals {
		if s.detect(doc) {
			scores[s.result] += s.weight
		}
	}

	best := PageGeneric
	bestScore := 0.0
	for pt, score := range scores {
		if score > bestScore {
			best, bestScore = pt, score
		}
	}
	return best
}

func countTag(n *html.Node, tag string) int {
	count := 0
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == tag {
			count++
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return count
}

func hasSearchResultsShape(doc *html.Node) bool {
	return countTag(doc, "form") > 0 && countTag(doc, "article") >= 3
}

func hasListingShape(doc *html.Node) bool {
	return countTag(doc, "li") >= 10 || countTag(doc, "article") >= 5
}

func hasFormShape(doc *html.Node) bool {
	return countTag(doc, "form") >= 1 && countTag(doc, "input") >= 3
}

func hasArticleShape(doc *html.Node) bool {
	return countTag(doc, "h1") == 1 && countTag(doc, "p") >= 5
}
