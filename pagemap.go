// Package pagemap is the public entry point: Build takes a browser
// Snapshot and produces the agent-facing PageMap, running every
// component (C1 budgeting through C9 caching) in sequence.
package pagemap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"pagemap/assemble"
	"pagemap/budget"
	"pagemap/classify"
	"pagemap/compress"
	"pagemap/interact"
	"pagemap/metadata"
	"pagemap/normalize"
	"pagemap/pagecache"
	"pagemap/pagemaptype"
	"pagemap/pmsafety"
	"pagemap/pruning"
)

// Re-exported types so callers depend only on the top-level package for
// the wire contract, the same alias pattern used to re-export internal
// types from a single package boundary.
type (
	Snapshot     = pagemaptype.Snapshot
	PageMap      = pagemaptype.PageMap
	Interactable = pagemaptype.Interactable
	HtmlChunk    = pagemaptype.HtmlChunk
	Fingerprint  = pagemaptype.Fingerprint
)

// Config governs one Builder's resource ceilings and cache policy.
type Config struct {
	MaxHTMLBytes     int
	MaxDOMNodes      int
	MaxResponseBytes int
	AOMThreshold     float64
	CacheCapacity    int
	CacheTTL         time.Duration
	Logger           *slog.Logger

	// Locale, when set to a supported locale code, overrides the
	// URL/<html lang>-based locale detection entirely. Empty or an
	// unsupported code means no override: DetectLocale falls through to
	// the URL and <html lang> tiers.
	Locale string
}

func (c Config) defaults() Config {
	if c.MaxHTMLBytes <= 0 {
		c.MaxHTMLBytes = normalize.DefaultMaxHTMLBytes
	}
	if c.MaxDOMNodes <= 0 {
		c.MaxDOMNodes = normalize.DefaultMaxDOMNodes
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = assemble.DefaultMaxResponseBytes
	}
	if c.AOMThreshold <= 0 {
		c.AOMThreshold = pruning.DefaultAOMThreshold
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = pagecache.DefaultCapacity
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = pagecache.DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Option configures a Builder at construction time.
type Option func(*Config)

func WithMaxHTMLBytes(n int) Option     { return func(c *Config) { c.MaxHTMLBytes = n } }
func WithMaxDOMNodes(n int) Option      { return func(c *Config) { c.MaxDOMNodes = n } }
func WithMaxResponseBytes(n int) Option { return func(c *Config) { c.MaxResponseBytes = n } }
func WithAOMThreshold(f float64) Option { return func(c *Config) { c.AOMThreshold = f } }
func WithCache(capacity int, ttl time.Duration) Option {
	return func(c *Config) { c.CacheCapacity = capacity; c.CacheTTL = ttl }
}
func WithLogger(l *slog.Logger) Option { return func(c *Config) { c.Logger = l } }
func WithLocale(code string) Option    { return func(c *Config) { c.Locale = code } }

// Builder runs the pipeline against a shared cache, so repeated Build
// calls for the same URL can skip reprocessing an unchanged page.
type Builder struct {
	cfg   Config
	cache *pagecache.Cache
}

// New constructs a Builder with cfg's defaults filled in.
func New(opts ...Option) *Builder {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.defaults()
	return &Builder{
		cfg:   cfg,
		cache: pagecache.New(pagecache.WithCapacity(cfg.CacheCapacity), pagecache.WithTTL(cfg.CacheTTL)),
	}
}

// Build runs the full pipeline over snap and returns the PageMap, or a
// pmerrors-typed error if a resource ceiling was exceeded or the HTML
// could not be parsed, or ctx's own error if ctx is already done when
// parsing is about to start.
//
// The cache is consulted in two tiers before any of C3-C8 run: Tier A
// (fingerprint entirely unchanged) returns the cached PageMap verbatim;
// Tier B (DOM structure unchanged, only content) reuses the cached C4
// interactable table and re-runs only metadata extraction, pruning,
// classification, compression, and assembly instead of detecting
// interactables again.
func (b *Builder) Build(ctx context.Context, snap Snapshot) (PageMap, error) {
	log := b.cfg.Logger.With("component", "pagemap", "url", snap.URL)
	start := time.Now()

	var cachedPM PageMap
	tierB := false
	if cached, ok := b.cache.Get(snap.URL); ok && snap.Fingerprint != nil {
		cmp := pagecache.Compare(cached.Fingerprint, *snap.Fingerprint)
		if cmp.Unchanged {
			log.Debug("cache hit, fingerprint unchanged")
			cached.Stats.CacheTier = "hit"
			return cached, nil
		}
		if !cmp.StructureChanged {
			log.Debug("cache hit, structure unchanged, reusing interactables")
			cachedPM = cached
			tierB = true
		}
	}

	if err := ctx.Err(); err != nil {
		return PageMap{}, err
	}

	doc, err := normalize.Parse(snap.HTML, normalize.ParseOptions{
		MaxHTMLBytes: b.cfg.MaxHTMLBytes,
		MaxDOMNodes:  b.cfg.MaxDOMNodes,
	})
	if err != nil {
		log.Error("parse failed", "err", err)
		return PageMap{}, err
	}

	locale := budget.DetectLocale(snap.URL, b.cfg.Locale, htmlLangAttr(doc))

	var interactables []Interactable
	degraded := false
	if tierB {
		interactables = cachedPM.Interactables
	} else {
		implicit := interact.FromImplicitRoles(doc, xpathOf)
		var axRoot *pagemaptype.AxNode
		if len(snap.AxTree) > 0 {
			axRoot = &pagemaptype.AxNode{Role: "root", Children: snap.AxTree}
		}
		interactables, degraded = interact.Detect(axRoot, implicit, snap.ListenerHits)
	}

	blockedKind, blockedNode, blocked := classify.DetectBlocked(doc, textContent(doc))

	var (
		result        pruning.Result
		pageType      classify.PageType
		sanitizedMeta map[string]interface{}
	)
	if blocked {
		pageType = "blocked"
		sanitizedMeta = map[string]interface{}{}
		result = pruning.Result{
			RawTokenCount: budget.Estimate(string(snap.HTML), locale),
		}
	} else {
		meta, schema := metadata.Extract(doc)
		ogDescription, _ := meta["description"].(string)

		result = pruning.Prune(doc, string(snap.HTML), schema, pruning.Options{
			AOMThreshold:  b.cfg.AOMThreshold,
			Locale:        locale,
			OGDescription: ogDescription,
		})

		pageType = classify.Classify(doc, schema)
		sanitizedMeta = sanitizeMetaStrings(meta)
		localeCfg := budget.GetLocale(locale)
		if summary := compress.Compress(string(pageType), sanitizedMeta, result.SelectedChunks, localeCfg, compress.DefaultMaxSummaryChars); summary != "" {
			sanitizedMeta["_summary"] = summary
		}
		result.SchemaName = schema
	}

	warnings := append([]string{}, result.Warnings...)
	if scan := pmsafety.Scan(result.PrunedHTML); scan.Risk != pmsafety.RiskNone {
		warnings = append(warnings, "prompt_injection_risk:"+string(scan.Risk))
	}
	if degraded {
		warnings = append(warnings, "AX_DEGRADED")
	}

	pm := PageMap{
		URL:           snap.URL,
		FinalURL:      snap.FinalURL,
		Title:         normalize.SanitizeText(snap.Title, normalize.DefaultMaxTextLen),
		Locale:        locale,
		PageType:      string(pageType),
		SchemaName:    result.SchemaName,
		Interactables: interactables,
		PrunedContext: result.PrunedHTML,
		Images:        imagesFromMeta(sanitizedMeta),
		Metadata:      sanitizedMeta,
		Stats: pagemaptype.Stats{
			RawTokenCount:     result.RawTokenCount,
			PrunedTokenCount:  result.PrunedTokenCount,
			GenerationMS:      float64(time.Since(start).Microseconds()) / 1000.0,
			InteractableCount: len(interactables),
			PruningWarnings:   warnings,
			CacheTier:         cacheTierLabel(tierB),
		},
	}
	if blocked {
		pm.BlockedInfo = &pagemaptype.BlockedInfo{
			Kind:      blockedKind,
			VerifyRef: verifyRefFor(blockedNode, interactables),
		}
	}
	if snap.Fingerprint != nil {
		pm.Fingerprint = *snap.Fingerprint
	}

	b.cache.Put(snap.URL, pm)
	log.Info("built page map", "page_type", pm.PageType, "duration_ms", pm.Stats.GenerationMS)
	return pm, nil
}

func cacheTierLabel(tierB bool) string {
	if tierB {
		return "tier_b"
	}
	return "miss"
}

// verifyRefFor resolves node (the DOM element a blocked-page marker
// matched on) to the Ref of the interactable rooted at or under it, so
// an agent can act on the actual verify/challenge control instead of
// just being told the page is blocked. Returns 0 (no ref) when node is
// nil (a text-only block match) or no interactable's xpath falls under
// it.
func verifyRefFor(node *html.Node, interactables []pagemaptype.Interactable) int {
	if node == nil {
		return 0
	}
	prefix := xpathOf(node)
	if prefix == "" || prefix == "/" {
		return 0
	}
	for _, it := range interactables {
		if it.ParentXPath == prefix || strings.HasPrefix(it.ParentXPath, prefix+"/") {
			return it.Ref
		}
	}
	return 0
}

// xpathOf computes n's xpath by counting preceding siblings of the same
// tag at each ancestor level, the same shape the pruning chunker's
// walk produces so dedup keys line up across components.
func xpathOf(n *html.Node) string {
	var segs []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		idx := 1
		for s := cur.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode && s.Data == cur.Data {
				idx++
			}
		}
		segs = append([]string{fmt.Sprintf("%s[%d]", cur.Data, idx)}, segs...)
	}
	return "/" + strings.Join(segs, "/")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.WriteString(textContent(c))
	}
	return s.String()
}

// htmlLangAttr returns the lang attribute of doc's <html> element, the
// last tier DetectLocale consults before falling back to the default.
func htmlLangAttr(doc *html.Node) string {
	var lang string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if lang != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "html" {
			for _, a := range n.Attr {
				if a.Key == "lang" {
					lang = a.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if lang != "" {
				return
			}
		}
	}
	walk(doc)
	return lang
}

func sanitizeMetaStrings(meta map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = normalize.SanitizeText(s, normalize.DefaultMaxTextLen)
			continue
		}
		out[k] = v
	}
	return out
}

func imagesFromMeta(meta map[string]interface{}) []string {
	if v, ok := meta["image"].([]string); ok {
		return v
	}
	return nil
}
