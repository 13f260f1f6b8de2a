package interact

import (
	"testing"

	"pagemap/pagemaptype"
)

func TestDetectDedupesAxAndImplicit(t *testing.T) {
	ax := &pagemaptype.AxNode{
		Role: "generic", XPath: "/html",
		Children: []pagemaptype.AxNode{
			{Role: "button", Name: "Submit", XPath: "/html/body/button[1]"},
		},
	}
	implicit := []pagemaptype.Interactable{
		{Role: "button", Name: "Submit", ParentXPath: "/html/body/button[1]",
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}},
	}
	merged, degraded := Detect(ax, implicit, nil)
	if degraded {
		t.Error("expected not degraded when ax tree is present")
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 deduped interactable, got %d: %+v", len(merged), merged)
	}
	if merged[0].Bucket != pagemaptype.BucketPrimary {
		t.Errorf("bucket = %v, want primary", merged[0].Bucket)
	}
}

func TestDetectDegradedWithoutAx(t *testing.T) {
	implicit := []pagemaptype.Interactable{
		{Role: "link", Name: "", ParentXPath: "/html/body/a[1]",
			Affordances: []pagemaptype.Affordance{pagemaptype.AffordanceClick}},
	}
	merged, degraded := Detect(nil, implicit, nil)
	if !degraded {
		t.Error("expected degraded when ax tree is nil")
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 interactable, got %d", len(merged))
	}
	if merged[0].Bucket != pagemaptype.BucketChrome {
		t.Errorf("bucket = %v, want chrome for unnamed link", merged[0].Bucket)
	}
}

func TestPromoteListenersRescuesUnknownXPath(t *testing.T) {
	hits := []pagemaptype.ListenerHit{{XPath: "/html/body/div[3]", Event: "click"}}
	merged, _ := Detect(nil, nil, hits)
	if len(merged) != 1 {
		t.Fatalf("expected 1 promoted interactable, got %d", len(merged))
	}
	if merged[0].Role != "generic" {
		t.Errorf("role = %q, want generic", merged[0].Role)
	}
}

func TestSelectOptionsAndBucketInputish(t *testing.T) {
	implicit := []pagemaptype.Interactable{
		{Role: "combobox", Name: "Size", ParentXPath: "/html/body/select[1]", Options: []string{"S", "M", "L"}},
	}
	merged, _ := Detect(nil, implicit, nil)
	if merged[0].Bucket != pagemaptype.BucketInputish {
		t.Errorf("bucket = %v, want inputish", merged[0].Bucket)
	}
	if len(merged[0].Options) != 3 {
		t.Errorf("options = %v, want 3 entries", merged[0].Options)
	}
}
