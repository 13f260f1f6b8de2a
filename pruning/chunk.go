package pruning

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"pagemap/pagemaptype"
)

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}
var chunkBoundaryTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "table": true, "form": true,
	"figure": true, "picture": true, "video": true, "audio": true,
	"pre": true, "article": true, "section": true, "li": true,
}

// Chunk walks the surviving DOM and produces one HtmlChunk per
// chunk-boundary element, tagging each with its xpath prefix and
// whether it sits inside a <main> ancestor.
func Chunk(doc *html.Node) []pagemaptype.HtmlChunk {
	var out []pagemaptype.HtmlChunk
	counters := map[string]int{}

	var walk func(n *html.Node, xpath string, inMain bool)
	walk = func(n *html.Node, xpath string, inMain bool) {
		if n.Type == html.ElementNode && n.Data == "main" {
			inMain = true
		}
		childCounters := map[string]int{}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			childCounters[c.Data]++
			childXPath := fmt.Sprintf("%s/%s[%d]", xpath, c.Data, childCounters[c.Data])

			if chunkBoundaryTags[c.Data] {
				out = append(out, buildChunk(c, childXPath, inMain))
				continue
			}
			walk(c, childXPath, inMain)
		}
	}
	_ = counters
	walk(doc, "", false)
	return out
}

func buildChunk(n *html.Node, xpath string, inMain bool) pagemaptype.HtmlChunk {
	ct := classifyChunk(n)
	text := strings.TrimSpace(textOf(n))
	return pagemaptype.HtmlChunk{
		Type:        ct,
		Text:        text,
		HTML:        renderNode(n),
		Weight:      1.0,
		XPathPrefix: xpath,
		InMain:      inMain,
		Tag:         n.Data,
		Attrs:       attrsMap(n),
	}
}

func classifyChunk(n *html.Node) pagemaptype.ChunkType {
	switch {
	case headingTags[n.Data]:
		return pagemaptype.ChunkHeading
	case n.Data == "ul" || n.Data == "ol" || n.Data == "li":
		return pagemaptype.ChunkList
	case n.Data == "table":
		return pagemaptype.ChunkTable
	case n.Data == "form":
		return pagemaptype.ChunkForm
	case n.Data == "figure" || n.Data == "picture" || n.Data == "video" || n.Data == "audio":
		return pagemaptype.ChunkMedia
	case n.Data == "pre":
		return pagemaptype.ChunkCode
	case n.Data == "article" || n.Data == "section":
		return pagemaptype.ChunkCard
	default:
		return pagemaptype.ChunkParagraph
	}
}

func attrsMap(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.WriteString(textOf(c))
		if c.Type == html.ElementNode {
			s.WriteString(" ")
		}
	}
	return s.String()
}

func renderNode(n *html.Node) string {
	var buf strings.Builder
	_ = html.Render(&buf, n)
	return buf.String()
}
