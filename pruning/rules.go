// Package pruning implements C5, the five-stage pruning pipeline:
// attribute stripping, script-island extraction, AOM semantic
// filtering, schema-aware chunking, and compression/ordering.
package pruning

import (
	"strings"

	"pagemap/pagemaptype"
)

// Decision is the verdict rules.go's schema matchers reach for one
// chunk: keep it, and why, plus which schema fields it satisfied.
type Decision struct {
	Keep          bool
	Reason        string
	MatchedFields []string
}

// matchers maps a detected schema name to the field-matching heuristic
// that recognizes chunks belonging to that schema's key fields, the
// same per-schema dispatch pruner.py uses so a Product page's price
// block survives even when it sits outside <main>.
var matchers = map[string]func(pagemaptype.HtmlChunk) (bool, []string){
	"Product":       matchProduct,
	"NewsArticle":    matchNewsArticle,
	"Article":        matchNewsArticle,
	"WikiArticle":    matchWikiArticle,
	"SaasPage":       matchSaasPage,
	"GovernmentPage": matchGovernmentPage,
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func matchProduct(c pagemaptype.HtmlChunk) (bool, []string) {
	var fields []string
	if containsAny(c.Text, priceTerms) {
		fields = append(fields, "price")
	}
	if containsAny(c.Text, ratingTerms) {
		fields = append(fields, "rating")
	}
	if containsAny(c.Text, reviewCountTerms) {
		fields = append(fields, "review_count")
	}
	if containsAny(c.Text, brandTerms) {
		fields = append(fields, "brand")
	}
	return len(fields) > 0, fields
}

func matchNewsArticle(c pagemaptype.HtmlChunk) (bool, []string) {
	var fields []string
	if containsAny(c.Text, reporterTerms) {
		fields = append(fields, "reporter")
	}
	if c.Type == pagemaptype.ChunkHeading {
		fields = append(fields, "headline")
	}
	if c.Type == pagemaptype.ChunkParagraph && len([]rune(c.Text)) > 50 {
		fields = append(fields, "body")
	}
	return len(fields) > 0, fields
}

func matchWikiArticle(c pagemaptype.HtmlChunk) (bool, []string) {
	var fields []string
	if c.Type == pagemaptype.ChunkHeading {
		fields = append(fields, "section_heading")
	}
	if c.Type == pagemaptype.ChunkTable {
		fields = append(fields, "infobox")
	}
	return len(fields) > 0, fields
}

func matchSaasPage(c pagemaptype.HtmlChunk) (bool, []string) {
	var fields []string
	if containsAny(c.Text, featureTerms) {
		fields = append(fields, "feature")
	}
	if containsAny(c.Text, pricingTerms) {
		fields = append(fields, "pricing")
	}
	return len(fields) > 0, fields
}

func matchGovernmentPage(c pagemaptype.HtmlChunk) (bool, []string) {
	var fields []string
	if containsAny(c.Text, contactTerms) {
		fields = append(fields, "contact_info")
	}
	if containsAny(c.Text, departmentTerms) {
		fields = append(fields, "department")
	}
	return len(fields) > 0, fields
}

// PruneChunks applies the rule order pruner.py establishes: META/
// RSC_DATA chunks always survive; a schema field match keeps a chunk
// (subject to the repeated-price-block filter); then in-<main>
// priority rules; then, on pages with no detected <main>, a more
// permissive keep-if-unsure pass; everything else is dropped.
func PruneChunks(chunks []pagemaptype.HtmlChunk, schema string, hasMain bool) []Decision {
	decisions := make([]Decision, len(chunks))
	priceSeenInMain := false
	priceCount := 0

	for i, c := range chunks {
		if c.Type == pagemaptype.ChunkMeta || c.Type == pagemaptype.ChunkRSCData {
			decisions[i] = Decision{Keep: true, Reason: "always_keep_meta"}
			continue
		}

		if matcher, ok := matchers[schema]; ok {
			if keep, fields := matcher(c); keep {
				isPrice := containsString(fields, "price")
				if isPrice {
					priceCount++
					if c.InMain {
						priceSeenInMain = true
					}
					if priceSeenInMain && !c.InMain && priceCount > 1 {
						decisions[i] = Decision{Keep: false, Reason: "repeated_price_block_outside_main"}
						continue
					}
				}
				decisions[i] = Decision{Keep: true, Reason: "schema_field_match", MatchedFields: fields}
				continue
			}
		}

		if hasMain {
			decisions[i] = inMainPriorityRule(c)
			continue
		}

		decisions[i] = keepIfUnsureRule(c)
	}

	return decisions
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// inMainPriorityRule applies when a page has a detected <main>: headings
// always survive, text/table/list blocks over 50 characters survive
// when inside main, and every other chunk, including any chunk outside
// main whatever its length, is dropped as noise.
func inMainPriorityRule(c pagemaptype.HtmlChunk) Decision {
	if c.Type == pagemaptype.ChunkHeading {
		return Decision{Keep: true, Reason: "heading_always_keep"}
	}
	textLen := len([]rune(c.Text))
	if c.InMain {
		switch c.Type {
		case pagemaptype.ChunkParagraph:
			if textLen > 50 {
				return Decision{Keep: true, Reason: "main_text_block"}
			}
		case pagemaptype.ChunkTable, pagemaptype.ChunkList:
			if textLen > 50 {
				return Decision{Keep: true, Reason: "main_structured_block"}
			}
		}
	}
	return Decision{Keep: false, Reason: "default_drop"}
}

// keepIfUnsureRule applies when no <main> was detected at all: the
// pipeline can't tell body text from chrome by position, so it keeps
// more liberally and leans on C5's later stages to trim the rest.
func keepIfUnsureRule(c pagemaptype.HtmlChunk) Decision {
	if c.Type == pagemaptype.ChunkHeading {
		return Decision{Keep: true, Reason: "heading_keep_unsure"}
	}
	if c.Type == pagemaptype.ChunkParagraph && len([]rune(c.Text)) > 30 {
		return Decision{Keep: true, Reason: "text_block_keep_unsure"}
	}
	return Decision{Keep: false, Reason: "default_drop"}
}
