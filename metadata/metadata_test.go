package metadata

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, s string) *html.Node {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractProductJSONLD(t *testing.T) {
	doc := parseFragment(t, `<html><head><script type="application/ld+json">
		{"@type":"Product","name":"Widget","offers":{"price":"9.99","priceCurrency":"USD"},
		 "aggregateRating":{"ratingValue":4.5,"reviewCount":"120"}}
	</script></head><body></body></html>`)
	m, schema := Extract(doc)
	if schema != "Product" {
		t.Errorf("schema = %q, want Product", schema)
	}
	if m["title"] != "Widget" {
		t.Errorf("title = %v, want Widget", m["title"])
	}
	if m["price"] != 9.99 {
		t.Errorf("price = %v, want 9.99", m["price"])
	}
	if m["review_count"] != 120 {
		t.Errorf("review_count = %v, want 120", m["review_count"])
	}
}

func TestExtractOpenGraphFallback(t *testing.T) {
	doc := parseFragment(t, `<html><head>
		<meta property="og:title" content="Hello World">
		<meta property="og:image" content="https://example.com/a.jpg">
	</head><body></body></html>`)
	m, _ := Extract(doc)
	if m["title"] != "Hello World" {
		t.Errorf("title = %v, want Hello World", m["title"])
	}
}

func TestExtractMicrodata(t *testing.T) {
	doc := parseFragment(t, `<html><body>
		<div itemscope itemtype="https://schema.org/Product">
			<span itemprop="name">Gadget</span>
			<span itemprop="price">19.99</span>
		</div>
	</body></html>`)
	m, _ := Extract(doc)
	if m["name"] != "Gadget" {
		t.Errorf("name = %v, want Gadget", m["name"])
	}
}

func TestExtractRSCCandidate(t *testing.T) {
	doc := parseFragment(t, `<html><body><script>self.__next_f.push([1,"1:[\"hello\"]"])</script></body></html>`)
	m, _ := Extract(doc)
	cands, ok := m["_rsc_candidates"].([]string)
	if !ok || len(cands) != 1 {
		t.Errorf("_rsc_candidates = %v, want one entry", m["_rsc_candidates"])
	}
}

func TestToFloatUSThousands(t *testing.T) {
	f, ok := toFloat("1,500.99")
	if !ok || f != 1500.99 {
		t.Errorf("toFloat(1,500.99) = %v, %v, want 1500.99, true", f, ok)
	}
}

func TestToFloatEuropeanThousands(t *testing.T) {
	f, ok := toFloat("1.500,99")
	if !ok || f != 1500.99 {
		t.Errorf("toFloat(1.500,99) = %v, %v, want 1500.99, true", f, ok)
	}
}

func TestToIntRoundsInsteadOfTruncating(t *testing.T) {
	n, ok := toInt("4.9")
	if !ok || n != 5 {
		t.Errorf("toInt(4.9) = %v, %v, want 5, true", n, ok)
	}
}

func TestIsAllowedImageURL(t *testing.T) {
	if !isAllowedImageURL("https://example.com/a.jpg") {
		t.Error("https url should be allowed")
	}
	if isAllowedImageURL("javascript:alert(1)") {
		t.Error("javascript url must not be allowed")
	}
	if isAllowedImageURL("data:image/png;base64,abc") {
		t.Error("data url must not be allowed")
	}
}
