package budget

import "testing"

func TestCharsPerToken(t *testing.T) {
	tests := []struct {
		locale string
		want   float64
	}{
		{"en", 4.0},
		{"ko", 0.6},
		{"ja", 0.7},
		{"zz", defaultCharsPerToken},
		{"", defaultCharsPerToken},
	}
	for _, tt := range tests {
		if got := CharsPerToken(tt.locale); got != tt.want {
			t.Errorf("CharsPerToken(%q) = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate("", "en"); got != 0 {
		t.Errorf("Estimate(\"\") = %d, want 0", got)
	}
}

func TestEstimateCJKDenser(t *testing.T) {
	// The same number of characters in Korean should estimate to more
	// tokens than in English, since Korean packs less meaning per byte
	// into the model's tokenizer.
	en := Estimate("abcdefghij", "en")
	ko := Estimate("가나다라마바사아자차", "ko")
	if ko <= en {
		t.Errorf("expected ko estimate (%d) > en estimate (%d)", ko, en)
	}
}

func TestComputeSectionBudgets(t *testing.T) {
	weights := map[string]float64{"actions": 1, "info": 3}
	got := ComputeSectionBudgets(1000, weights)
	if got["info"] <= got["actions"] {
		t.Errorf("expected info budget > actions budget, got %v", got)
	}
	if got["actions"]+got["info"] > 1000 {
		t.Errorf("budgets overflow total: %v", got)
	}
}

func TestComputeSectionBudgetsZeroWeights(t *testing.T) {
	got := ComputeSectionBudgets(1000, map[string]float64{})
	if len(got) != 0 {
		t.Errorf("expected empty result for empty weights, got %v", got)
	}
}

func TestDetectLocalePathSegment(t *testing.T) {
	if got := DetectLocale("https://example.com/ja/products/1", "", ""); got != "ja" {
		t.Errorf("DetectLocale path segment = %q, want ja", got)
	}
}

func TestDetectLocaleExactDomain(t *testing.T) {
	if got := DetectLocale("https://www.coupang.com/vp/products/1", "", ""); got != "ko" {
		t.Errorf("DetectLocale exact domain = %q, want ko", got)
	}
}

func TestDetectLocaleTLD(t *testing.T) {
	if got := DetectLocale("https://shop.example.de/item/1", "", ""); got != "de" {
		t.Errorf("DetectLocale TLD = %q, want de", got)
	}
}

func TestDetectLocaleDefault(t *testing.T) {
	if got := DetectLocale("not a url at all", "", ""); got != DefaultLocale {
		t.Errorf("DetectLocale malformed = %q, want default %q", got, DefaultLocale)
	}
}

func TestDetectLocaleExplicitOverride(t *testing.T) {
	if got := DetectLocale("https://example.com/ja/products/1", "fr", ""); got != "fr" {
		t.Errorf("DetectLocale override = %q, want fr", got)
	}
}

func TestDetectLocaleHTMLLangFallback(t *testing.T) {
	if got := DetectLocale("https://example.com/products/1", "", "ko-KR"); got != "ko" {
		t.Errorf("DetectLocale html lang = %q, want ko", got)
	}
}

func TestClassifyRuneScripts(t *testing.T) {
	tests := []struct {
		r    rune
		want Script
	}{
		{'a', ScriptLatin},
		{'가', ScriptHangul},
		{'漢', ScriptHan},
		{'あ', ScriptHiragana},
		{'ア', ScriptKatakana},
	}
	for _, tt := range tests {
		if got := ClassifyRune(tt.r); got != tt.want {
			t.Errorf("ClassifyRune(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestDominantTextScript(t *testing.T) {
	if got := DominantTextScript("Hello 안녕 안녕 안녕"); got != ScriptHangul {
		t.Errorf("DominantTextScript = %v, want hangul", got)
	}
}
