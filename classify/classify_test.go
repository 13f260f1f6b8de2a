package classify

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestDetectBlockedCaptcha(t *testing.T) {
	kind, node, ok := DetectBlocked(nil, "Please verify you are human to continue")
	if !ok || kind != "captcha" || node != nil {
		t.Errorf("kind=%q node=%v ok=%v, want captcha/nil/true", kind, node, ok)
	}
}

func TestDetectBlockedClean(t *testing.T) {
	if _, _, ok := DetectBlocked(nil, "Welcome to our store"); ok {
		t.Error("expected no block signature")
	}
}

func TestDetectBlockedDOMMarkerTurnstile(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader(`<html><body><div class="cf-turnstile"></div></body></html>`))
	kind, node, ok := DetectBlocked(doc, "")
	if !ok || kind != "captcha" || node == nil {
		t.Errorf("kind=%q node=%v ok=%v, want captcha/non-nil/true", kind, node, ok)
	}
}

func TestDetectBlockedDOMMarkerRecaptcha(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader(`<html><body><div id="g-recaptcha-widget" class="g-recaptcha"></div></body></html>`))
	kind, _, ok := DetectBlocked(doc, "")
	if !ok || kind != "captcha" {
		t.Errorf("kind=%q ok=%v, want captcha/true", kind, ok)
	}
}

func TestClassifySchemaOverride(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader("<html><body></body></html>"))
	if pt := Classify(doc, "Product"); pt != PageProduct {
		t.Errorf("got %v, want product", pt)
	}
}

func TestClassifyListingVote(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body><ul>")
	for i := 0; i < 12; i++ {
		sb.WriteString("<li>item</li>")
	}
	sb.WriteString("</ul></body></html>")
	doc, _ := html.Parse(strings.NewReader(sb.String()))
	if pt := Classify(doc, ""); pt != PageListing {
		t.Errorf("got %v, want listing", pt)
	}
}
