package pruning

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pagemap/pagemaptype"
)

// xpathSortKey parses an xpath like "/div[2]/span[10]" into a sequence
// of (tag, index) pairs so bracket indices sort numerically: /div[10]
// belongs after /div[2], not before it as a lexicographic sort would
// place it.
type xpathSegment struct {
	tag string
	idx int
}

var xpathSegmentRE = regexp.MustCompile(`([a-zA-Z0-9_-]+)(?:\[(\d+)\])?`)

func xpathSortKey(xpath string) []xpathSegment {
	var key []xpathSegment
	for _, part := range strings.Split(xpath, "/") {
		if part == "" {
			continue
		}
		m := xpathSegmentRE.FindStringSubmatch(part)
		if m == nil {
			key = append(key, xpathSegment{tag: part, idx: 0})
			continue
		}
		idx := 0
		if m[2] != "" {
			idx, _ = strconv.Atoi(m[2])
		}
		key = append(key, xpathSegment{tag: m[1], idx: idx})
	}
	return key
}

func compareXPathKeys(a, b []xpathSegment) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].tag != b[i].tag {
			if a[i].tag < b[i].tag {
				return -1
			}
			return 1
		}
		if a[i].idx != b[i].idx {
			if a[i].idx < b[i].idx {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// RemergeChunks sorts the surviving chunks by document order (via their
// xpath prefix) and concatenates their HTML into one document body, so
// the pruned output reads top-to-bottom the way the original page did
// even though unrelated subtrees were dropped in between.
func RemergeChunks(chunks []pagemaptype.HtmlChunk) string {
	sorted := make([]pagemaptype.HtmlChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareXPathKeys(xpathSortKey(sorted[i].XPathPrefix), xpathSortKey(sorted[j].XPathPrefix)) < 0
	})

	var body strings.Builder
	for _, c := range sorted {
		if c.HTML != "" {
			body.WriteString(c.HTML)
			body.WriteString("\n")
		} else {
			body.WriteString(c.Text)
			body.WriteString("\n")
		}
	}
	return "<html><body>" + body.String() + "</body></html>"
}

var emptyTagRE = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>\s*</\1>`)
var wrapperDivRE = regexp.MustCompile(`<div[^>]*>\s*(<(?:div|section|article)\b[^>]*>.*?</(?:div|section|article)>)\s*</div>`)
var spanWrapperRE = regexp.MustCompile(`<span[^>]*>([^<]*)</span>`)
var blankLineRE = regexp.MustCompile(`\n{3,}`)
var horizontalSpaceRE = regexp.MustCompile(`[ \t]{2,}`)
var tagGapRE = regexp.MustCompile(`>\s+<`)

const emptyTagRemovalPasses = 5

// CompressHTML is the final textual compression pass over the remerged
// document: iteratively removes empty tags, collapses single-child
// wrapper divs, unwraps redundant spans, and normalizes whitespace.
// It never strips <script>/<meta> the way a generic HTML minifier
// would, since those are exactly the tags carrying JSON-LD and Open
// Graph metadata the rest of the pipeline preserves deliberately.
func CompressHTML(htmlText string) string {
	for i := 0; i < emptyTagRemovalPasses; i++ {
		next := emptyTagRE.ReplaceAllString(htmlText, "")
		if next == htmlText {
			break
		}
		htmlText = next
	}

	for i := 0; i < 3; i++ {
		next := wrapperDivRE.ReplaceAllString(htmlText, "$1")
		if next == htmlText {
			break
		}
		htmlText = next
	}

	htmlText = spanWrapperRE.ReplaceAllString(htmlText, "$1")
	htmlText = tagGapRE.ReplaceAllString(htmlText, "><")
	htmlText = horizontalSpaceRE.ReplaceAllString(htmlText, " ")
	htmlText = blankLineRE.ReplaceAllString(htmlText, "\n")

	return strings.TrimSpace(htmlText)
}
