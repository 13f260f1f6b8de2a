package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// rscPushRE matches a Next.js React Server Component streaming chunk:
// self.__next_f.push([1,"...json-ish payload..."]). These chunks carry
// the same product/article data the page renders, serialized in a
// framework-specific shape rather than JSON-LD, so C5's chunking stage
// preserves them verbatim (ChunkRSCData) and this pass only flags
// candidates worth a future structured pass rather than parsing them.
var rscPushRE = regexp.MustCompile(`self\.__next_f\.push\(\s*\[\s*1\s*,\s*"((?:[^"\\]|\\.)*)"\s*\]\s*\)`)

// rscPayloads scans inline <script> text for Next.js RSC push calls and
// returns the raw escaped payload strings found, for downstream passes
// that want to attempt a best-effort structured read.
func rscPayloads(doc *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if typ, ok := attrVal(n, "type"); ok && typ != "" && !strings.Contains(typ, "javascript") {
				// Explicit non-JS type (e.g. ld+json) is handled elsewhere.
			} else if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				for _, m := range rscPushRE.FindAllStringSubmatch(n.FirstChild.Data, -1) {
					out = append(out, m[1])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}
