package pagecache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"pagemap/pagemaptype"
)

// CompareResult is the three-tier verdict comparing a freshly fetched
// page against its cached fingerprint: cheapest check first, each tier
// only run if the previous tier found no difference.
type CompareResult struct {
	Unchanged       bool
	StructureChanged bool
	ContentChanged  bool
}

// Compare runs the three-tier comparison: DOM structure hash first
// (cheap, catches gross layout changes), then content hash (catches
// text-only edits the structure hash misses).
func Compare(prev, next pagemaptype.Fingerprint) CompareResult {
	if prev.DOMStructureHash != next.DOMStructureHash {
		return CompareResult{StructureChanged: true, ContentChanged: true}
	}
	if prev.ContentHash != next.ContentHash {
		return CompareResult{ContentChanged: true}
	}
	return CompareResult{Unchanged: true}
}

// ComputeFingerprint hashes the DOM structure (tag sequence, ignoring
// text and attributes) and the visible text content separately, so the
// two tiers in Compare can be computed independently and compared
// without re-walking the DOM.
func ComputeFingerprint(structureTokens []string, visibleText string) pagemaptype.Fingerprint {
	return pagemaptype.Fingerprint{
		DOMStructureHash: hashStrings(structureTokens),
		ContentHash:      hashString(visibleText),
	}
}

func hashStrings(tokens []string) string {
	return hashString(strings.Join(tokens, "\x1f"))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
