package pruning

import (
	"strings"

	"golang.org/x/net/html"

	"pagemap/budget"
	"pagemap/normalize"
	"pagemap/pagemaptype"
)

// Result carries the outcome of one Prune call, mirroring the
// telemetry surfaced in pagemaptype.Stats.
type Result struct {
	RawTokenCount      int
	PrunedTokenCount   int
	ChunkCountTotal    int
	ChunkCountSelected int
	PrunedHTML         string
	HasMain            bool
	SchemaName         string
	Warnings           []string
	SelectedChunks     []pagemaptype.HtmlChunk
}

// Options configures the pipeline's AOM threshold, locale-aware token
// estimation, and the minimum-content-guarantee's first fallback tier.
type Options struct {
	AOMThreshold float64
	Locale       string

	// OGDescription is the page's Open Graph description, when one was
	// extracted. It is the first tier the minimum-content-guarantee
	// cascade tries when the pruned output is too thin, before falling
	// back to the pruned DOM's head and then the raw HTML.
	OGDescription string
}

func (o Options) defaults() Options {
	if o.AOMThreshold <= 0 {
		o.AOMThreshold = DefaultAOMThreshold
	}
	if o.Locale == "" {
		o.Locale = budget.DefaultLocale
	}
	return o
}

// minContentTokens is the floor the minimum-content-guarantee cascade
// triggers below: a compressed output this thin reads as a pruning
// failure more often than a genuinely sparse page.
const minContentTokens = 10

const prunedHeadFallbackChars = 2000
const rawHTMLFallbackChars = 4000

// Prune runs the pipeline over doc in this order: extract script
// islands, strip the remaining scripts/styles and hidden content,
// AOM-filter the tree, strip attributes, chunk it, rule-prune the
// chunks, and remerge/compress the survivors. Whenever the
// result is too thin to be useful — zero chunks, zero selected chunks,
// or a compressed output under minContentTokens — the
// minimum-content-guarantee cascade falls through: the page's Open
// Graph description, then the pruned DOM's own head, then a raw-HTML
// prefix, the same escape hatch pipeline.py uses for pages the chunker
// can't make sense of.
func Prune(doc *html.Node, rawHTML string, schema string, opts Options) Result {
	opts = opts.defaults()

	islands := ExtractIslands(doc)
	StripScriptsAndStyles(doc)
	normalize.StripHidden(doc)
	AOMFilter(doc, schema, opts.AOMThreshold)
	StripAttributes(doc)

	chunks := Chunk(doc)
	chunks = append(islands, chunks...)

	if len(chunks) == 0 {
		fallback, warning := minimumContentFallback(doc, rawHTML, opts.OGDescription)
		return Result{
			RawTokenCount:    budget.Estimate(rawHTML, opts.Locale),
			PrunedTokenCount: budget.Estimate(fallback, opts.Locale),
			PrunedHTML:       fallback,
			SchemaName:       schema,
			Warnings:         []string{warning},
		}
	}

	hasMain := detectHasMain(chunks)
	decisions := PruneChunks(chunks, schema, hasMain)

	var selected []pagemaptype.HtmlChunk
	for i, d := range decisions {
		if d.Keep {
			selected = append(selected, chunks[i])
		}
	}

	if len(selected) == 0 {
		fallback, warning := minimumContentFallback(doc, rawHTML, opts.OGDescription)
		return Result{
			RawTokenCount:      budget.Estimate(rawHTML, opts.Locale),
			PrunedTokenCount:   budget.Estimate(fallback, opts.Locale),
			PrunedHTML:         fallback,
			SchemaName:         schema,
			HasMain:            hasMain,
			ChunkCountTotal:    len(chunks),
			ChunkCountSelected: 0,
			Warnings:           []string{warning},
		}
	}

	merged := RemergeChunks(selected)
	compressed := CompressHTML(merged)
	prunedTokens := budget.Estimate(compressed, opts.Locale)

	var warnings []string
	if prunedTokens < minContentTokens {
		fallback, warning := minimumContentFallback(doc, rawHTML, opts.OGDescription)
		compressed = fallback
		prunedTokens = budget.Estimate(compressed, opts.Locale)
		warnings = append(warnings, warning)
	}

	return Result{
		RawTokenCount:      budget.Estimate(rawHTML, opts.Locale),
		PrunedTokenCount:   prunedTokens,
		ChunkCountTotal:    len(chunks),
		ChunkCountSelected: len(selected),
		PrunedHTML:         compressed,
		HasMain:            hasMain,
		SchemaName:         schema,
		Warnings:           warnings,
		SelectedChunks:     selected,
	}
}

// minimumContentFallback implements the minimum-content-guarantee
// cascade: Open Graph description first (it's already prose meant for
// display), then a prefix of the pruned DOM's own serialization, then a
// prefix of the untouched raw HTML as the last resort.
func minimumContentFallback(doc *html.Node, rawHTML, ogDescription string) (string, string) {
	if strings.TrimSpace(ogDescription) != "" {
		return ogDescription, "mcg_og_description_fallback"
	}
	if head := prunedHTMLHead(doc); strings.TrimSpace(head) != "" {
		return head, "mcg_pruned_head_fallback"
	}
	if len(rawHTML) > rawHTMLFallbackChars {
		return rawHTML[:rawHTMLFallbackChars], "mcg_raw_html_fallback"
	}
	return rawHTML, "mcg_raw_html_fallback"
}

// prunedHTMLHead renders doc as it stands after stripping/filtering —
// thinner than the raw page but still the actual DOM, not a
// from-scratch re-render — and truncates it to a short prefix.
func prunedHTMLHead(doc *html.Node) string {
	rendered := renderNode(doc)
	if len(rendered) > prunedHeadFallbackChars {
		return rendered[:prunedHeadFallbackChars]
	}
	return rendered
}

func detectHasMain(chunks []pagemaptype.HtmlChunk) bool {
	for _, c := range chunks {
		if c.InMain {
			return true
		}
	}
	return false
}
