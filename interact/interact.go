// Package interact implements C4, the three-tier interactable detector:
// it merges the accessibility tree, implicit HTML roles, and promoted
// event-listener hits into one deduplicated, bucketed Interactable list.
package interact

import (
	"fmt"

	"pagemap/pagemaptype"
)

// Detect merges ax, the implicit-role pass over doc, and listener hits
// into the final Interactable list. If ax is nil (AX_DEGRADED — the
// driver failed to produce an accessibility tree), Detect falls back
// to implicit roles and listener hits alone rather than failing the
// whole pipeline.
func Detect(ax *pagemaptype.AxNode, implicit []pagemaptype.Interactable, hits []pagemaptype.ListenerHit) ([]pagemaptype.Interactable, bool) {
	degraded := ax == nil

	var merged []pagemaptype.Interactable
	seen := map[string]int{} // dedupKey -> index into merged

	addOrMerge := func(it pagemaptype.Interactable) {
		key := dedupKey(it)
		if idx, ok := seen[key]; ok {
			merged[idx] = mergeInteractable(merged[idx], it)
			return
		}
		seen[key] = len(merged)
		merged = append(merged, it)
	}

	if ax != nil {
		for _, it := range fromAxTree(ax) {
			addOrMerge(it)
		}
	}
	for _, it := range implicit {
		addOrMerge(it)
	}
	for _, it := range promoteListeners(hits, merged) {
		addOrMerge(it)
	}

	for i := range merged {
		merged[i].Ref = i + 1
		merged[i].Bucket = assignBucket(merged[i])
		merged[i].SelectorChain = buildSelectorChain(merged[i])
	}

	return merged, degraded
}

func dedupKey(it pagemaptype.Interactable) string {
	return fmt.Sprintf("%s|%s|%s", it.Role, it.Name, it.ParentXPath)
}

// mergeInteractable folds b's affordances and options into a, keeping
// a's role/name/parent (the earlier tier wins identity; later tiers
// only add capability information).
func mergeInteractable(a, b pagemaptype.Interactable) pagemaptype.Interactable {
	for _, aff := range b.Affordances {
		if !hasAffordance(a.Affordances, aff) {
			a.Affordances = append(a.Affordances, aff)
		}
	}
	if len(a.Options) == 0 {
		a.Options = b.Options
	}
	return a
}

func hasAffordance(list []pagemaptype.Affordance, aff pagemaptype.Affordance) bool {
	for _, a := range list {
		if a == aff {
			return true
		}
	}
	return false
}

// fromAxTree flattens the accessibility tree into Interactables for
// every node whose role implies interactivity.
func fromAxTree(root *pagemaptype.AxNode) []pagemaptype.Interactable {
	var out []pagemaptype.Interactable
	var walk func(n *pagemaptype.AxNode)
	walk = func(n *pagemaptype.AxNode) {
		if aff := affordancesForRole(n.Role); len(aff) > 0 {
			it := pagemaptype.Interactable{
				Role:        n.Role,
				Name:        n.Name,
				Affordances: aff,
				ParentXPath: n.XPath,
			}
			out = append(out, it)
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(root)
	return out
}

var axInteractiveRoles = map[string][]pagemaptype.Affordance{
	"button":      {pagemaptype.AffordanceClick},
	"link":        {pagemaptype.AffordanceClick},
	"textbox":     {pagemaptype.AffordanceType},
	"searchbox":   {pagemaptype.AffordanceType},
	"combobox":    {pagemaptype.AffordanceSelect},
	"listbox":     {pagemaptype.AffordanceSelect},
	"checkbox":    {pagemaptype.AffordanceClick},
	"radio":       {pagemaptype.AffordanceClick},
	"switch":      {pagemaptype.AffordanceClick},
	"slider":      {pagemaptype.AffordanceType},
	"tab":         {pagemaptype.AffordanceClick},
	"menuitem":    {pagemaptype.AffordanceClick},
}

func affordancesForRole(role string) []pagemaptype.Affordance {
	return axInteractiveRoles[role]
}

// promoteListeners creates Interactables for event-listener hits whose
// xpath does not already correspond to an entry in existing, rescuing
// click/keydown handlers attached to elements the AX tree and implicit
// scan both missed (custom widgets with no ARIA role).
func promoteListeners(hits []pagemaptype.ListenerHit, existing []pagemaptype.Interactable) []pagemaptype.Interactable {
	known := map[string]bool{}
	for _, it := range existing {
		known[it.ParentXPath] = true
	}
	var out []pagemaptype.Interactable
	seen := map[string]bool{}
	for _, h := range hits {
		if known[h.XPath] || seen[h.XPath] {
			continue
		}
		aff := affordanceForEvent(h.Event)
		if aff == "" {
			continue
		}
		seen[h.XPath] = true
		out = append(out, pagemaptype.Interactable{
			Role:        "generic",
			ParentXPath: h.XPath,
			Affordances: []pagemaptype.Affordance{aff},
		})
	}
	return out
}

func affordanceForEvent(event string) pagemaptype.Affordance {
	switch event {
	case "click", "mousedown", "pointerdown":
		return pagemaptype.AffordanceClick
	case "keydown", "input":
		return pagemaptype.AffordanceType
	case "change":
		return pagemaptype.AffordanceSelect
	case "mouseover", "mouseenter":
		return pagemaptype.AffordanceHover
	default:
		return ""
	}
}

// assignBucket classifies it into a priority bucket for budget-aware
// filtering when the interactable count exceeds the page's allotment.
func assignBucket(it pagemaptype.Interactable) pagemaptype.Bucket {
	switch {
	case it.Role == "button" && it.Name != "":
		return pagemaptype.BucketPrimary
	case it.Role == "textbox" || it.Role == "searchbox" || it.Role == "combobox":
		return pagemaptype.BucketInputish
	case it.Name != "":
		return pagemaptype.BucketNamed
	case it.Role == "link" && it.Name == "":
		return pagemaptype.BucketChrome
	case it.Role == "generic":
		return pagemaptype.BucketRest
	default:
		return pagemaptype.BucketTableNoise
	}
}

// buildSelectorChain orders candidate locators from most to least
// precise: role+name exact match, then a CSS fallback derived from the
// xpath, then a last-resort role-only match.
func buildSelectorChain(it pagemaptype.Interactable) []pagemaptype.Selector {
	var chain []pagemaptype.Selector
	if it.Name != "" {
		chain = append(chain, pagemaptype.Selector{Kind: "role_name", Role: it.Role, Name: it.Name})
	}
	if it.ParentXPath != "" {
		chain = append(chain, pagemaptype.Selector{Kind: "css", CSS: xpathToCSSHint(it.ParentXPath)})
	}
	chain = append(chain, pagemaptype.Selector{Kind: "role_first_match", Role: it.Role})
	return chain
}

// xpathToCSSHint produces a best-effort CSS selector hint from an
// xpath for drivers that prefer CSS locators; it is advisory only, the
// role_name and role_first_match entries are the reliable fallbacks.
func xpathToCSSHint(xpath string) string {
	return fmt.Sprintf("[data-pagemap-xpath=%q]", xpath)
}
