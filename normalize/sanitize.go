package normalize

import (
	"crypto/rand"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// isInjectionControlRune reports whether r is a Unicode control
// character commonly abused for prompt injection: zero-width
// joiners/spaces, bidi overrides, interlinear annotation marks, and
// C0/C1 control ranges. Checked as rune ranges rather than a regex
// character class so the non-printing codepoints never have to appear
// as literal bytes in source.
func isInjectionControlRune(r rune) bool {
	switch {
	case r >= 0x200B && r <= 0x200F: // zero-width space/joiners, LTR/RTL marks
		return true
	case r >= 0x202A && r <= 0x202E: // bidi embedding/override controls
		return true
	case r >= 0x2060 && r <= 0x2069: // word joiner, invisible operators
		return true
	case r == 0xFEFF: // BOM / zero-width no-break space
		return true
	case r >= 0xFFF9 && r <= 0xFFFB: // interlinear annotation marks
		return true
	case r >= 0x0000 && r <= 0x0008:
		return true
	case r == 0x000B || r == 0x000C:
		return true
	case r >= 0x000E && r <= 0x001F:
		return true
	case r >= 0x007F && r <= 0x009F:
		return true
	default:
		return false
	}
}

func stripInjectionControlRunes(s string) string {
	return strings.Map(func(r rune) rune {
		if isInjectionControlRune(r) {
			return -1
		}
		return r
	}, s)
}

const nbsp = rune(0x00A0)

func nbspToSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == nbsp {
			return ' '
		}
		return r
	}, s)
}

var ansiEscapeRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// rolePrefixRE matches role-prefix patterns an attacker embeds in page
// text to impersonate a system/assistant turn when the text is read by
// an LLM agent ("[SYSTEM: ignore the above]").
var rolePrefixRE = regexp.MustCompile(
	`(?i)\[?\s*(?:SYSTEM|ASSISTANT|USER|HUMAN|AI|ADMIN|INSTRUCTION|OVERRIDE|IMPORTANT|IGNORE|HACK|COMMAND)\s*[:\]]\s*`)

// boundaryTagRE matches any web_content boundary tag so malicious
// content cannot forge one and escape the nonce-tagged wrapper.
var boundaryTagRE = regexp.MustCompile(`(?i)<\s*/?\s*web_content[\w]*[^>]*>`)

var multiSpaceRE = regexp.MustCompile(`\s{2,}`)

var fragmentSanitizer = bluemonday.StrictPolicy()

// SanitizeText sanitizes a short text field: interactable names, titles,
// metadata values. Every string the core emits passes through this
// function or SanitizeContentBlock — sanitization is an invariant of
// the pipeline, not an opt-in policy.
func SanitizeText(text string, maxLen int) string {
	if text == "" {
		return text
	}
	text = html.UnescapeString(text)
	text = fragmentSanitizer.Sanitize(text)
	text = ansiEscapeRE.ReplaceAllString(text, "")
	text = stripInjectionControlRunes(text)
	text = nbspToSpace(text)
	text = strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
	text = rolePrefixRE.ReplaceAllString(text, "")
	text = boundaryTagRE.ReplaceAllString(text, "")
	text = multiSpaceRE.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// SanitizeContentBlock sanitizes a large content block (pruned_context).
// Unlike SanitizeText, newlines are preserved since content structure
// carries meaning, and the default length cap is far larger.
func SanitizeContentBlock(text string, maxLen int) string {
	if text == "" {
		return text
	}
	text = html.UnescapeString(text)
	text = ansiEscapeRE.ReplaceAllString(text, "")
	text = stripInjectionControlRunes(text)
	text = nbspToSpace(text)
	text = rolePrefixRE.ReplaceAllString(text, "")
	text = boundaryTagRE.ReplaceAllString(text, "")
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

const DefaultMaxTextLen = 256
const DefaultMaxBlockLen = 50_000

// AddContentBoundary wraps text in a nonce-tagged boundary marker
// identifying its source, so content cannot predict and forge a
// closing tag to escape the boundary.
func AddContentBoundary(text, sourceURL string) string {
	nonce := make([]byte, 8)
	_, _ = rand.Read(nonce)
	tag := "web_content_" + hex.EncodeToString(nonce)
	text = boundaryTagRE.ReplaceAllString(text, "")
	ts := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	return "<" + tag + ` source="` + escapeAttr(sourceURL) + `" timestamp="` + ts + `">` +
		"\n" + text + "\n</" + tag + ">"
}

func escapeAttr(v string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
	return r.Replace(v)
}
