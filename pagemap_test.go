package pagemap

import (
	"context"
	"testing"
)

func TestBuildProductPage(t *testing.T) {
	html := []byte(`<html><head>
		<script type="application/ld+json">
		{"@type":"Product","name":"Widget","offers":{"price":"19.99","priceCurrency":"USD"}}
		</script>
	</head><body>
		<nav>Home</nav>
		<main>
			<h1>Widget</h1>
			<p>This widget is durable and comes with a two year warranty for peace of mind.</p>
			<button>Add to cart</button>
		</main>
	</body></html>`)

	b := New()
	pm, err := b.Build(context.Background(), Snapshot{HTML: html, URL: "https://example.com/p/1", Title: "Widget"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pm.PageType != "product" {
		t.Errorf("page_type = %q, want product", pm.PageType)
	}
	if pm.Stats.InteractableCount == 0 {
		t.Error("expected at least one interactable detected")
	}
	if pm.PrunedContext == "" {
		t.Error("expected non-empty pruned context")
	}
}

func TestBuildDetectsBlockedPage(t *testing.T) {
	html := []byte(`<html><body><main><p>Please verify you are human to continue browsing.</p></main></body></html>`)
	b := New()
	pm, err := b.Build(context.Background(), Snapshot{HTML: html, URL: "https://example.com/blocked"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pm.BlockedInfo == nil || pm.BlockedInfo.Kind != "captcha" {
		t.Errorf("BlockedInfo = %+v, want captcha", pm.BlockedInfo)
	}
}

func TestBuildRejectsOversizedInput(t *testing.T) {
	b := New(WithMaxHTMLBytes(10))
	_, err := b.Build(context.Background(), Snapshot{HTML: []byte("<html><body>way too much html here</body></html>"), URL: "https://example.com"})
	if err == nil {
		t.Error("expected error for oversized input")
	}
}

func TestBuildBlockedPageSkipsPipelineAndSetsVerifyRef(t *testing.T) {
	html := []byte(`<html><body><main><div class="cf-turnstile"><button id="verify-btn">Verify</button></div></main></body></html>`)
	b := New()
	pm, err := b.Build(context.Background(), Snapshot{HTML: html, URL: "https://example.com/blocked"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pm.PageType != "blocked" {
		t.Errorf("page_type = %q, want blocked", pm.PageType)
	}
	if pm.BlockedInfo == nil || pm.BlockedInfo.Kind != "captcha" {
		t.Fatalf("BlockedInfo = %+v, want captcha", pm.BlockedInfo)
	}
	if pm.BlockedInfo.VerifyRef != 1 {
		t.Errorf("VerifyRef = %d, want 1 (the verify button inside the challenge widget)", pm.BlockedInfo.VerifyRef)
	}
	if pm.SchemaName != "" {
		t.Errorf("expected classification skipped on blocked page, got schema %q", pm.SchemaName)
	}
}

func TestBuildLocaleOverrideWinsOverURL(t *testing.T) {
	html := []byte(`<html lang="ja"><body><main><p>Some content that is long enough to matter for pruning here.</p></main></body></html>`)
	b := New(WithLocale("fr"))
	pm, err := b.Build(context.Background(), Snapshot{HTML: html, URL: "https://example.co.kr/p/1"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pm.Locale != "fr" {
		t.Errorf("Locale = %q, want fr (explicit override)", pm.Locale)
	}
}

func TestBuildLocaleFallsBackToHTMLLang(t *testing.T) {
	html := []byte(`<html lang="de-DE"><body><main><p>Some content that is long enough to matter for pruning here.</p></main></body></html>`)
	b := New()
	pm, err := b.Build(context.Background(), Snapshot{HTML: html, URL: "https://example.com/p/1"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pm.Locale != "de" {
		t.Errorf("Locale = %q, want de (from <html lang>)", pm.Locale)
	}
}

func TestBuildTierBCacheReusesInteractables(t *testing.T) {
	b := New()
	firstHTML := []byte(`<html><body><main><h1>Title</h1><p>Some paragraph text that is reasonably long for a test page.</p><button>Click me</button></main></body></html>`)
	fp1 := Fingerprint{DOMStructureHash: "struct-a", ContentHash: "content-a"}
	first, err := b.Build(context.Background(), Snapshot{HTML: firstHTML, URL: "https://example.com/p/2", Fingerprint: &fp1})
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if first.Stats.InteractableCount == 0 {
		t.Fatal("expected at least one interactable on first build")
	}

	secondHTML := []byte(`<html><body><main><h1>Title</h1><p>Some paragraph text that is reasonably long for a test page, now edited.</p><button>Click me</button></main></body></html>`)
	fp2 := Fingerprint{DOMStructureHash: "struct-a", ContentHash: "content-b"}
	second, err := b.Build(context.Background(), Snapshot{HTML: secondHTML, URL: "https://example.com/p/2", Fingerprint: &fp2})
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if second.Stats.CacheTier != "tier_b" {
		t.Errorf("CacheTier = %q, want tier_b", second.Stats.CacheTier)
	}
	if len(second.Interactables) != len(first.Interactables) {
		t.Errorf("expected reused interactable table, got %d vs %d", len(second.Interactables), len(first.Interactables))
	}
}
