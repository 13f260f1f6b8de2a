package assemble

import (
	"strings"
	"testing"

	"pagemap/pagemaptype"
)

func TestToPromptIncludesBoundaryAndInteractables(t *testing.T) {
	pm := pagemaptype.PageMap{
		URL: "https://example.com/p/1", Title: "Widget", PageType: "product",
		PrunedContext: "Some pruned content here.",
		Interactables: []pagemaptype.Interactable{
			{Ref: 1, Role: "button", Name: "Buy now", Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}},
		},
	}
	out := ToPrompt(pm)
	if !strings.Contains(out, "Widget") {
		t.Error("expected title in prompt")
	}
	if !strings.Contains(out, "web_content_") {
		t.Error("expected content boundary wrapper")
	}
	if !strings.Contains(out, "Buy now") {
		t.Error("expected interactable listed")
	}
}

func TestToJSONSizeGuard(t *testing.T) {
	pm := pagemaptype.PageMap{URL: "https://example.com", PrunedContext: strings.Repeat("x", 1000)}
	if _, err := ToJSON(pm, 10); err == nil {
		t.Error("expected size guard error for tiny max")
	}
}

func TestToDiffDetectsContentChange(t *testing.T) {
	prev := pagemaptype.PageMap{URL: "https://example.com", Fingerprint: pagemaptype.Fingerprint{ContentHash: "a"}}
	next := pagemaptype.PageMap{URL: "https://example.com", Fingerprint: pagemaptype.Fingerprint{ContentHash: "b"}}
	d := ToDiff(prev, next)
	if !d.ContentChanged {
		t.Error("expected ContentChanged true")
	}
}

func TestToPromptRendersOptionsAndImagesAndMeta(t *testing.T) {
	pm := pagemaptype.PageMap{
		URL: "https://example.com/p/1", Title: "Widget", PageType: "product",
		Images: []string{"https://example.com/a.jpg"},
		Interactables: []pagemaptype.Interactable{
			{Ref: 1, Role: "combobox", Name: "Size", Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceSelect}, Options: []string{"S", "M", "L"}},
		},
		Stats: pagemaptype.Stats{PrunedTokenCount: 42, InteractableCount: 1, GenerationMS: 12},
	}
	out := ToPrompt(pm)
	if !strings.Contains(out, "URL: https://example.com/p/1") {
		t.Error("expected URL header line")
	}
	if !strings.Contains(out, "## Actions") {
		t.Error("expected Actions section")
	}
	if !strings.Contains(out, "[options=S,M,L]") {
		t.Error("expected options rendered for combobox interactable")
	}
	if !strings.Contains(out, "## Images") || !strings.Contains(out, "https://example.com/a.jpg") {
		t.Error("expected Images section")
	}
	if !strings.Contains(out, "## Meta\nTokens: ~42 | Interactables: 1 | Generation: 12ms") {
		t.Errorf("expected Meta stats line, got %q", out)
	}
}

func TestToDiffTextMarksUnchangedSections(t *testing.T) {
	pm := pagemaptype.PageMap{
		URL: "https://example.com", Title: "Widget", PageType: "product",
		PrunedContext: "Some pruned content here.",
		Stats:         pagemaptype.Stats{PrunedTokenCount: 5},
	}
	next := pm
	next.Title = "Widget 2"
	next.Stats.PrunedTokenCount = 6

	out := ToDiffText(pm, next)
	if !strings.Contains(out, "Widget 2") {
		t.Error("expected changed header to be fully re-rendered")
	}
	if !strings.Contains(out, "## Info\n— unchanged") {
		t.Errorf("expected unchanged Info section placeholder, got %q", out)
	}
}
