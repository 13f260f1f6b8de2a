// Package assemble implements C8: it renders a PageMap into the
// canonical agent-prompt text format, serializes it to JSON, and
// renders/serializes incremental diffs between two PageMaps of the
// same URL.
package assemble

import (
	"encoding/json"
	"fmt"
	"strings"

	"pagemap/normalize"
	"pagemap/pagemaptype"
	"pagemap/pmerrors"
)

// DefaultMaxResponseBytes guards the serialized response size so a
// pathological page can't produce a multi-megabyte agent prompt.
const DefaultMaxResponseBytes = 256 * 1024

// ToPrompt renders pm into the canonical text block agents parse on: a
// URL/Title/Type header, an Actions section listing every interactable
// reference, an Info section holding the pruned content wrapped in a
// nonce-tagged content boundary, an Images section, and a trailing
// Meta stats line.
func ToPrompt(pm pagemaptype.PageMap) string {
	var sections []string
	if h := strings.TrimRight(buildHeader(pm), "\n"); h != "" {
		sections = append(sections, h)
	}
	if a := strings.TrimRight(buildActionsSection(pm), "\n"); a != "" {
		sections = append(sections, a)
	}
	if i := strings.TrimRight(buildInfoSection(pm), "\n"); i != "" {
		sections = append(sections, i)
	}
	if im := strings.TrimRight(buildImagesSection(pm), "\n"); im != "" {
		sections = append(sections, im)
	}
	sections = append(sections, strings.TrimRight(buildMetaSection(pm), "\n"))
	return strings.Join(sections, "\n\n")
}

func buildHeader(pm pagemaptype.PageMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", pm.URL)
	fmt.Fprintf(&b, "Title: %s\n", normalize.SanitizeText(pm.Title, normalize.DefaultMaxTextLen))
	fmt.Fprintf(&b, "Type: %s\n", pm.PageType)
	if pm.SchemaName != "" {
		fmt.Fprintf(&b, "Schema: %s\n", pm.SchemaName)
	}
	if pm.BlockedInfo != nil {
		fmt.Fprintf(&b, "Blocked: %s\n", pm.BlockedInfo.Kind)
	}
	return b.String()
}

// buildActionsSection renders one line per interactable: its ref,
// role, name, affordances, and — for a combobox/select-type
// interactable carrying a fixed value set — an options= list.
func buildActionsSection(pm pagemaptype.PageMap) string {
	if len(pm.Interactables) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Actions\n")
	for _, it := range pm.Interactables {
		name := normalize.SanitizeText(it.Name, normalize.DefaultMaxTextLen)
		fmt.Fprintf(&b, "[%d] %s: %s (%s)", it.Ref, it.Role, name, affordanceList(it.Affordances))
		if len(it.Options) > 0 {
			fmt.Fprintf(&b, " [options=%s]", strings.Join(it.Options, ","))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func buildInfoSection(pm pagemaptype.PageMap) string {
	if pm.PrunedContext == "" {
		return ""
	}
	block := normalize.SanitizeContentBlock(pm.PrunedContext, normalize.DefaultMaxBlockLen)
	var b strings.Builder
	b.WriteString("## Info\n")
	b.WriteString(normalize.AddContentBoundary(block, pm.URL))
	b.WriteString("\n")
	return b.String()
}

func buildImagesSection(pm pagemaptype.PageMap) string {
	if len(pm.Images) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Images\n")
	for _, img := range pm.Images {
		fmt.Fprintf(&b, "- %s\n", img)
	}
	return b.String()
}

func buildMetaSection(pm pagemaptype.PageMap) string {
	return fmt.Sprintf("## Meta\nTokens: ~%d | Interactables: %d | Generation: %.0fms\n",
		pm.Stats.PrunedTokenCount, pm.Stats.InteractableCount, pm.Stats.GenerationMS)
}

func affordanceList(affs []pagemaptype.Affordance) string {
	parts := make([]string, len(affs))
	for i, a := range affs {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

// ToJSON serializes pm, enforcing DefaultMaxResponseBytes. Returns a
// pmerrors.ResourceExhaustedError if the serialized form exceeds the
// guard rather than silently truncating valid JSON.
func ToJSON(pm pagemaptype.PageMap, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	out, err := json.Marshal(pm)
	if err != nil {
		return nil, err
	}
	if len(out) > maxBytes {
		return nil, &pmerrors.ResourceExhaustedError{Reason: "text_output"}
	}
	return out, nil
}

// Diff is the incremental change surfaced by C9 when a cached PageMap
// is refreshed: only the fields that changed are included, along with
// the fingerprint the diff was computed against.
type Diff struct {
	URL                  string                  `json:"url"`
	PreviousFingerprint  pagemaptype.Fingerprint `json:"previous_fingerprint"`
	CurrentFingerprint   pagemaptype.Fingerprint `json:"current_fingerprint"`
	TitleChanged         bool                    `json:"title_changed,omitempty"`
	ContentChanged       bool                    `json:"content_changed,omitempty"`
	InteractablesChanged bool                    `json:"interactables_changed,omitempty"`
	MetadataChanged      map[string]interface{}  `json:"metadata_changed,omitempty"`
}

// ToDiff computes the incremental Diff between prev and next, the same
// URL's PageMap at two points in time.
func ToDiff(prev, next pagemaptype.PageMap) Diff {
	d := Diff{
		URL:                 next.URL,
		PreviousFingerprint: prev.Fingerprint,
		CurrentFingerprint:  next.Fingerprint,
	}
	if prev.Title != next.Title {
		d.TitleChanged = true
	}
	if prev.Fingerprint.ContentHash != next.Fingerprint.ContentHash {
		d.ContentChanged = true
	}
	if prev.Fingerprint.DOMStructureHash != next.Fingerprint.DOMStructureHash {
		d.InteractablesChanged = true
	}
	changed := map[string]interface{}{}
	for k, v := range next.Metadata {
		if old, ok := prev.Metadata[k]; !ok || fmt.Sprint(old) != fmt.Sprint(v) {
			changed[k] = v
		}
	}
	if len(changed) > 0 {
		d.MetadataChanged = changed
	}
	return d
}

// ToDiffJSON serializes a Diff, enforcing the same response-size guard
// ToJSON does.
func ToDiffJSON(d Diff, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	out, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if len(out) > maxBytes {
		return nil, &pmerrors.ResourceExhaustedError{Reason: "text_output"}
	}
	return out, nil
}

// ToDiffText renders a section-by-section diff between two PageMaps of
// the same URL, reusing ToPrompt's own section builders: a section
// whose rendered text is identical in both (for Info, whose content
// boundary carries a fresh nonce and timestamp on every render: whose
// pruned content is identical) is replaced with "— unchanged", and a
// changed section is fully re-rendered from next, so the diff stays in
// the exact format agents already parse prompts in.
func ToDiffText(prev, next pagemaptype.PageMap) string {
	type namedSection struct {
		label string
		prev  string
		next  string
		same  bool
	}
	secs := []namedSection{
		{"## Header", buildHeader(prev), buildHeader(next), false},
		{"## Actions", buildActionsSection(prev), buildActionsSection(next), false},
		{"## Info", buildInfoSection(prev), buildInfoSection(next), prev.PrunedContext == next.PrunedContext},
		{"## Images", buildImagesSection(prev), buildImagesSection(next), false},
	}

	var parts []string
	for _, s := range secs {
		if s.next == "" {
			continue
		}
		if s.same || s.prev == s.next {
			parts = append(parts, s.label+"\n— unchanged")
			continue
		}
		parts = append(parts, strings.TrimRight(s.next, "\n"))
	}
	parts = append(parts, strings.TrimRight(buildMetaSection(next), "\n"))
	return strings.Join(parts, "\n\n")
}
