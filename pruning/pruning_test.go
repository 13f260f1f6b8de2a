package pruning

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"pagemap/pagemaptype"
)

func parseDoc(t *testing.T, s string) *html.Node {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestComputeWeightNavIsZero(t *testing.T) {
	doc := parseDoc(t, `<html><body><nav>Home About</nav></body></html>`)
	nav := findTag(doc, "nav")
	if w := computeWeight(nav, "", false); w != 0.0 {
		t.Errorf("nav weight = %v, want 0.0", w)
	}
}

func TestComputeWeightNoisePattern(t *testing.T) {
	doc := parseDoc(t, `<html><body><div class="ad-sponsor-banner">x</div></body></html>`)
	div := findTag(doc, "div")
	if w := computeWeight(div, "", false); w != 0.0 {
		t.Errorf("noise div weight = %v, want 0.0", w)
	}
}

func TestComputeWeightGovernmentFooterException(t *testing.T) {
	doc := parseDoc(t, `<html><body><footer>Contact us</footer></body></html>`)
	footer := findTag(doc, "footer")
	if w := computeWeight(footer, "GovernmentPage", true); w != 0.6 {
		t.Errorf("gov footer weight = %v, want 0.6", w)
	}
}

func TestAOMFilterRemovesNav(t *testing.T) {
	doc := parseDoc(t, `<html><body><nav>x</nav><main><p>content here long enough to matter really</p></main></body></html>`)
	AOMFilter(doc, "", DefaultAOMThreshold)
	if findTag(doc, "nav") != nil {
		t.Error("expected nav to be removed")
	}
	if findTag(doc, "main") == nil {
		t.Error("main must never be removed")
	}
}

func TestChunkClassification(t *testing.T) {
	doc := parseDoc(t, `<html><body><main><h1>Title</h1><p>Some paragraph text that is reasonably long for a test.</p></main></body></html>`)
	chunks := Chunk(doc)
	var gotHeading, gotParagraph bool
	for _, c := range chunks {
		if c.Type == pagemaptype.ChunkHeading {
			gotHeading = true
			if !c.InMain {
				t.Error("heading should be marked InMain")
			}
		}
		if c.Type == pagemaptype.ChunkParagraph {
			gotParagraph = true
		}
	}
	if !gotHeading || !gotParagraph {
		t.Errorf("expected heading and paragraph chunks, got %+v", chunks)
	}
}

func TestPruneChunksKeepsMeta(t *testing.T) {
	chunks := []pagemaptype.HtmlChunk{{Type: pagemaptype.ChunkMeta, Text: "{}"}}
	decisions := PruneChunks(chunks, "", true)
	if !decisions[0].Keep {
		t.Error("META chunk must always be kept")
	}
}

func TestPruneChunksProductPriceMatch(t *testing.T) {
	chunks := []pagemaptype.HtmlChunk{
		{Type: pagemaptype.ChunkParagraph, Text: "Price: $19.99", InMain: true},
	}
	decisions := PruneChunks(chunks, "Product", true)
	if !decisions[0].Keep {
		t.Error("expected price chunk to be kept for Product schema")
	}
}

func TestXPathSortKeyNumericOrdering(t *testing.T) {
	chunks := []pagemaptype.HtmlChunk{
		{XPathPrefix: "/div[10]", Text: "ten"},
		{XPathPrefix: "/div[2]", Text: "two"},
	}
	merged := RemergeChunks(chunks)
	if strings.Index(merged, "two") > strings.Index(merged, "ten") {
		t.Errorf("expected /div[2] before /div[10], got: %s", merged)
	}
}

func TestCompressHTMLRemovesEmptyTags(t *testing.T) {
	out := CompressHTML(`<div><span></span><p>keep</p></div>`)
	if strings.Contains(out, "<span>") {
		t.Errorf("expected empty span removed, got: %s", out)
	}
	if !strings.Contains(out, "keep") {
		t.Errorf("expected content preserved, got: %s", out)
	}
}

func TestPruneMinimumContentGuaranteeUsesOGDescription(t *testing.T) {
	doc := parseDoc(t, `<html><body><main><p>Hi</p></main></body></html>`)
	result := Prune(doc, "<html><body><main><p>Hi</p></main></body></html>", "", Options{
		OGDescription: "A full-length description of the page pulled from Open Graph metadata.",
	})
	if !strings.Contains(result.PrunedHTML, "Open Graph") {
		t.Errorf("expected OG description fallback, got: %s", result.PrunedHTML)
	}
	if len(result.Warnings) == 0 || result.Warnings[0] != "mcg_og_description_fallback" {
		t.Errorf("expected mcg_og_description_fallback warning, got: %v", result.Warnings)
	}
}

func findTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}
