package normalize

import "testing"

func TestIsHiddenByStyleFontSizeZero(t *testing.T) {
	if !IsHiddenByStyle("font-size:0;color:red") {
		t.Error("expected font-size:0 to be detected as hidden")
	}
	if !IsHiddenByStyle("font-size: 0px") {
		t.Error("expected font-size: 0px to be detected as hidden")
	}
}

func TestIsHiddenByStyleDoesNotFlagSmallNonzero(t *testing.T) {
	if IsHiddenByStyle("font-size:0.5rem") {
		t.Error("font-size:0.5rem must not be flagged as hidden")
	}
	if IsHiddenByStyle("font-size:10px") {
		t.Error("font-size:10px must not be flagged as hidden")
	}
}

func TestIsHiddenByStyleDisplayNone(t *testing.T) {
	if !IsHiddenByStyle("display:none") {
		t.Error("expected display:none to be detected as hidden")
	}
}

func TestIsOffscreen(t *testing.T) {
	if !IsOffscreen("position:absolute;left:-9999px") {
		t.Error("expected offscreen position to be detected")
	}
	if IsOffscreen("position:relative;top:10px") {
		t.Error("expected normal positioning to not be flagged")
	}
}
