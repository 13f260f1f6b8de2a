package pruning

import (
	"strings"

	"golang.org/x/net/html"

	"pagemap/pagemaptype"
)

// scriptChunkType reports the chunk type a <script> is extracted as,
// from its type attribute or its payload text, so JSON-LD and RSC payload scripts
// survive stripping as META/RSC_DATA chunks instead of being discarded
// along with every other inline script.
func scriptChunkType(n *html.Node) (pagemaptype.ChunkType, bool) {
	typ, _ := attrVal(n, "type")
	typ = strings.ToLower(typ)
	if typ == "application/ld+json" {
		return pagemaptype.ChunkMeta, true
	}
	if n.FirstChild != nil && n.FirstChild.Type == html.TextNode &&
		strings.Contains(n.FirstChild.Data, "__next_f.push") {
		return pagemaptype.ChunkRSCData, true
	}
	return "", false
}

// ExtractIslands pulls out every script-island chunk (JSON-LD, RSC
// payload) from doc before the rest of the stripping pipeline runs, so
// they are preserved as standalone chunks rather than risk being
// dropped as noise during AOM filtering.
func ExtractIslands(doc *html.Node) []pagemaptype.HtmlChunk {
	var out []pagemaptype.HtmlChunk
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if ct, ok := scriptChunkType(n); ok {
				text := ""
				if n.FirstChild != nil {
					text = n.FirstChild.Data
				}
				out = append(out, pagemaptype.HtmlChunk{
					Type: ct,
					Text: text,
					Tag:  "script",
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// StripScriptsAndStyles removes every remaining <script> and <style>
// element from doc; islands worth preserving must already have been
// captured by ExtractIslands.
func StripScriptsAndStyles(doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == html.ElementNode && (child.Data == "script" || child.Data == "style" ||
				child.Data == "noscript" || child.Data == "template") {
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	walk(doc)
}
