// Package compress implements C7: a registry of schema-aware
// compressors that render the merged metadata map and surviving chunks
// into the locale-aware, agent-facing "## Meta" prose block per page
// type, instead of one generic renderer for every schema.
//
// Every compressor follows the same three-phase contract: a metadata
// summary phase renders whatever structured fields the schema cares
// about; a chunk-structural-extraction phase pulls heading/list/table
// /form text to fill whatever budget the summary didn't use; a
// text-line fallback phase fills anything still left with plain
// paragraph text. Later phases only run if the earlier ones
// underspend the budget.
package compress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pagemap/budget"
	"pagemap/pagemaptype"
)

// DefaultMaxSummaryChars bounds how much text Compress renders across
// all three phases when the caller doesn't pass an explicit budget.
const DefaultMaxSummaryChars = 2000

// Compressor renders meta and the chunks C5 selected into the
// page-type-specific summary block, spending at most maxChars.
type Compressor func(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string

// registry maps a page type string (classify.PageType's string value)
// to its compressor, so a new page type can plug in without touching
// existing ones.
var registry = map[string]Compressor{
	"product":     compressProduct,
	"article":     compressArticle,
	"listing":     compressListing,
	"government":  compressGovernment,
	"video":       compressVideo,
	"news_portal": compressNewsPortal,
	"form":        compressForm,
	"checkout":    compressForm,
	"dashboard":   compressGeneric,
}

// Compress renders meta/chunks for pageType using locale, falling back
// to the generic compressor (a title-only summary plus the chunk and
// text-line phases) for any page type without a dedicated compressor.
// maxChars <= 0 uses DefaultMaxSummaryChars.
func Compress(pageType string, meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxSummaryChars
	}
	if c, ok := registry[pageType]; ok {
		return c(meta, chunks, locale, maxChars)
	}
	return compressGeneric(meta, chunks, locale, maxChars)
}

// metaSummaryFunc renders the metadata-summary phase for one schema;
// threePhase wraps it with the structural-extraction and text-line
// fallback phases shared by every compressor.
type metaSummaryFunc func(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string

func threePhase(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int, metaPhase metaSummaryFunc) string {
	var b strings.Builder
	b.WriteString(metaPhase(meta, chunks, locale))

	if remaining := maxChars - b.Len(); remaining > 0 {
		if structural := structuralExtract(chunks, remaining); structural != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(structural)
		}
	}

	if remaining := maxChars - b.Len(); remaining > 0 {
		if lines := textLineFallback(chunks, remaining); lines != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(lines)
		}
	}

	out := strings.TrimSpace(b.String())
	if len(out) > maxChars {
		out = out[:maxChars]
	}
	return out
}

// structuralExtract fills the second phase with heading/list/table/form
// chunk text — structure the metadata summary didn't already cover.
func structuralExtract(chunks []pagemaptype.HtmlChunk, maxChars int) string {
	var b strings.Builder
	for _, c := range chunks {
		switch c.Type {
		case pagemaptype.ChunkHeading, pagemaptype.ChunkList, pagemaptype.ChunkTable, pagemaptype.ChunkForm, pagemaptype.ChunkCard:
		default:
			continue
		}
		line := strings.TrimSpace(c.Text)
		if line == "" {
			continue
		}
		if b.Len()+len(line)+1 > maxChars {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// textLineFallback is the last-resort third phase: plain paragraph
// text, one line per chunk, until the budget runs out.
func textLineFallback(chunks []pagemaptype.HtmlChunk, maxChars int) string {
	var b strings.Builder
	for _, c := range chunks {
		if c.Type != pagemaptype.ChunkParagraph {
			continue
		}
		line := strings.TrimSpace(c.Text)
		if line == "" {
			continue
		}
		if b.Len()+len(line)+1 > maxChars {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func compressProduct(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, productSummary)
}

func productSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	if brand, ok := meta["brand"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelBrand, brand)
	}
	if price, currency, ok := recoverPrice(meta, chunks); ok {
		if currency == "" {
			currency = locale.DefaultCurrency
		}
		fmt.Fprintf(&b, "%.2f %s\n", price, currency)
	}
	if rating, ok := meta["rating"].(float64); ok {
		count, _ := meta["review_count"].(int)
		fmt.Fprintf(&b, "%s: %.1f %s\n", locale.LabelRating, rating, fmt.Sprintf(locale.ReviewTemplate, count))
	}
	return strings.TrimSpace(b.String())
}

// recoverPrice walks the price-recovery cascade: JSON-LD/microdata
// price (metadata.Extract already merges both into meta["price"]), then
// the Open Graph price meta tag, then a DOM scan of the surviving
// chunks for a price-bearing class — checking Amazon's a-offscreen
// accessibility span (visually hidden, but carrying the real price
// text) before a generic ".*price.*" class match.
func recoverPrice(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk) (float64, string, bool) {
	currency, _ := meta["currency"].(string)

	if p, ok := meta["price"].(float64); ok {
		return p, currency, true
	}
	if s, ok := meta["price"].(string); ok {
		if f, ok := parsePriceText(s); ok {
			return f, currency, true
		}
	}
	if p, ok := meta["og_price"]; ok {
		if f, ok := parsePriceText(fmt.Sprint(p)); ok {
			return f, currency, true
		}
	}
	for _, c := range chunks {
		if strings.Contains(strings.ToLower(c.Attrs["class"]), "a-offscreen") {
			if f, ok := parsePriceText(c.Text); ok {
				return f, currency, true
			}
		}
	}
	for _, c := range chunks {
		if strings.Contains(strings.ToLower(c.Attrs["class"]), "price") {
			if f, ok := parsePriceText(c.Text); ok {
				return f, currency, true
			}
		}
	}
	return 0, "", false
}

var priceNumberRE = regexp.MustCompile(`[0-9][0-9.,]*`)

func parsePriceText(s string) (float64, bool) {
	m := priceNumberRE.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.ReplaceAll(m, ",", "")
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func compressArticle(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, articleSummary)
}

func articleSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	if author, ok := meta["author"].(string); ok {
		fmt.Fprintf(&b, "%s\n", author)
	}
	if date, ok := meta["date_published"].(string); ok {
		fmt.Fprintf(&b, "%s\n", date)
	}
	return strings.TrimSpace(b.String())
}

func compressNewsPortal(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, articleSummary)
}

func compressListing(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, listingSummary)
}

func listingSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	if trail, ok := meta["breadcrumb"].([]string); ok && len(trail) > 0 {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelPagination, strings.Join(trail, " > "))
	} else {
		fmt.Fprintf(&b, "%s\n", locale.LabelPagination)
	}
	return strings.TrimSpace(b.String())
}

func compressGovernment(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, governmentSummary)
}

func governmentSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	if phone, ok := meta["phone"].(string); ok {
		fmt.Fprintf(&b, "%s\n", phone)
	}
	if addr, ok := meta["address"].(string); ok {
		fmt.Fprintf(&b, "%s\n", addr)
	}
	return strings.TrimSpace(b.String())
}

func compressVideo(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, videoSummary)
}

func videoSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	if dur, ok := meta["duration"].(string); ok {
		fmt.Fprintf(&b, "Duration: %s\n", dur)
	}
	if url, ok := meta["content_url"].(string); ok {
		fmt.Fprintf(&b, "URL: %s\n", url)
	}
	return strings.TrimSpace(b.String())
}

func compressForm(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, formSummary)
}

func formSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	var b strings.Builder
	if title, ok := meta["title"].(string); ok {
		fmt.Fprintf(&b, "%s: %s\n", locale.LabelTitle, title)
	}
	return strings.TrimSpace(b.String())
}

func compressGeneric(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig, maxChars int) string {
	return threePhase(meta, chunks, locale, maxChars, genericSummary)
}

func genericSummary(meta map[string]interface{}, chunks []pagemaptype.HtmlChunk, locale budget.LocaleConfig) string {
	if title, ok := meta["title"].(string); ok {
		return fmt.Sprintf("%s: %s", locale.LabelTitle, title)
	}
	return ""
}
