package compress

import (
	"strings"
	"testing"

	"pagemap/budget"
	"pagemap/pagemaptype"
)

func TestCompressProduct(t *testing.T) {
	meta := map[string]interface{}{"title": "Widget", "price": 9.99, "currency": "USD"}
	out := Compress("product", meta, nil, budget.GetLocale("en"), 0)
	if !strings.Contains(out, "Widget") || !strings.Contains(out, "9.99") {
		t.Errorf("got %q", out)
	}
}

func TestCompressFallsBackToGeneric(t *testing.T) {
	meta := map[string]interface{}{"title": "Something"}
	out := Compress("unknown-type", meta, nil, budget.GetLocale("en"), 0)
	if !strings.Contains(out, "Something") {
		t.Errorf("got %q", out)
	}
}

func TestCompressProductRecoversPriceFromAmazonOffscreenSpan(t *testing.T) {
	meta := map[string]interface{}{"title": "Widget"}
	chunks := []pagemaptype.HtmlChunk{
		{Type: pagemaptype.ChunkParagraph, Text: "$24.99", Attrs: map[string]string{"class": "a-price a-offscreen"}},
	}
	out := Compress("product", meta, chunks, budget.GetLocale("en"), 0)
	if !strings.Contains(out, "24.99") {
		t.Errorf("expected recovered price in output, got %q", out)
	}
}

func TestCompressFillsBudgetWithStructuralChunks(t *testing.T) {
	meta := map[string]interface{}{}
	chunks := []pagemaptype.HtmlChunk{
		{Type: pagemaptype.ChunkHeading, Text: "Section one"},
		{Type: pagemaptype.ChunkParagraph, Text: "Some fallback paragraph text."},
	}
	out := Compress("article", meta, chunks, budget.GetLocale("en"), 200)
	if !strings.Contains(out, "Section one") {
		t.Errorf("expected structural phase to contribute heading text, got %q", out)
	}
}
