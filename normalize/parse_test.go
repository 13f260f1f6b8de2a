package normalize

import (
	"strings"
	"testing"

	"pagemap/pmerrors"
)

func TestParseRejectsOversizedInput(t *testing.T) {
	raw := []byte(strings.Repeat("a", 100))
	_, err := Parse(raw, ParseOptions{MaxHTMLBytes: 10})
	if _, ok := err.(*pmerrors.InputTooLargeError); !ok {
		t.Fatalf("expected InputTooLargeError, got %v", err)
	}
}

func TestParseRejectsTooManyNodes(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 50; i++ {
		sb.WriteString("<div>")
	}
	sb.WriteString("text")
	for i := 0; i < 50; i++ {
		sb.WriteString("</div>")
	}
	sb.WriteString("</body></html>")
	_, err := Parse([]byte(sb.String()), ParseOptions{MaxDOMNodes: 5})
	if _, ok := err.(*pmerrors.ResourceExhaustedError); !ok {
		t.Fatalf("expected ResourceExhaustedError, got %v", err)
	}
}

func TestParseAcceptsNormalDocument(t *testing.T) {
	doc, err := Parse([]byte("<html><body><p>hi</p></body></html>"), ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected non-nil doc")
	}
}
