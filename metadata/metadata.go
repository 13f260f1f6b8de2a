// Package metadata implements C3, the structured-data extractor: a
// JSON-LD pass, a microdata pass, an Open Graph/meta pass, and an
// RSC-payload-shape pass, merged by a last-writer-wins precedence order
// with JSON-LD first.
package metadata

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Extract walks doc and returns the merged metadata map, along with the
// detected schema name ("Product", "Article", ...) used by C6's
// classifier override table.
func Extract(doc *html.Node) (map[string]interface{}, string) {
	merged := map[string]interface{}{}
	schema := ""

	for _, block := range jsonLDBlocks(doc) {
		m, s := parseJSONLD(block)
		if s != "" && schema == "" {
			schema = s
		}
		mergeInto(merged, m)
	}

	for _, m := range microdataItems(doc) {
		mergeInto(merged, m)
	}

	og := openGraphMeta(doc)
	mergeInto(merged, og)

	if rsc := rscPayloads(doc); len(rsc) > 0 {
		merged["_rsc_candidates"] = rsc
	}

	return merged, schema
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		if v == nil {
			continue
		}
		dst[k] = v
	}
}

func jsonLDBlocks(doc *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if v, ok := attrVal(n, "type"); ok && strings.EqualFold(v, "application/ld+json") {
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					out = append(out, n.FirstChild.Data)
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

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

const maxGraphDepth = 5

// parseJSONLD decodes one JSON-LD block, dispatching on @type through
// schemaParsers, and recursing into @graph up to maxGraphDepth.
func parseJSONLD(raw string) (map[string]interface{}, string) {
	var any interface{}
	if err := json.Unmarshal([]byte(raw), &any); err != nil {
		return nil, ""
	}
	return walkJSONLD(any, 0)
}

func walkJSONLD(v interface{}, depth int) (map[string]interface{}, string) {
	if depth > maxGraphDepth {
		return nil, ""
	}
	switch t := v.(type) {
	case map[string]interface{}:
		if graph, ok := t["@graph"]; ok {
			if list, ok := graph.([]interface{}); ok {
				merged := map[string]interface{}{}
				schema := ""
				for _, item := range list {
					m, s := walkJSONLD(item, depth+1)
					mergeInto(merged, m)
					if s != "" && schema == "" {
						schema = s
					}
				}
				return merged, schema
			}
		}
		typ, _ := t["@type"].(string)
		parser, ok := schemaParsers[typ]
		if !ok {
			return flattenLDFields(t), typ
		}
		return parser(t), typ
	case []interface{}:
		merged := map[string]interface{}{}
		schema := ""
		for _, item := range t {
			m, s := walkJSONLD(item, depth+1)
			mergeInto(merged, m)
			if s != "" && schema == "" {
				schema = s
			}
		}
		return merged, schema
	default:
		return nil, ""
	}
}

// flattenLDFields passes through primitive fields of an unrecognized
// @type so generic data (name, description, url) is not lost.
func flattenLDFields(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range t {
		switch v.(type) {
		case string, float64, bool:
			out[k] = v
		}
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := normalizeNumericString(strings.TrimSpace(t))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// normalizeNumericString strips a thousands separator from s before
// parsing, disambiguating the US form ("1,500.99") from the European
// form ("1.500,99") by checking which of ',' or '.' appears last in the
// string — that one is the decimal point, and the other is stripped.
func normalizeNumericString(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	if lastComma == -1 || lastDot == -1 {
		return s
	}
	if lastDot > lastComma {
		return strings.ReplaceAll(s, ",", "")
	}
	return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
}

func toInt(v interface{}) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
