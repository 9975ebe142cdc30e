// Package query applies compound predicate filters, sorting and offset
// pagination to in-memory collections of inventory items and history entries.
// Filters are fully-formed values built by the caller; debouncing or other
// input coalescing happens before this package is invoked.
package query

import (
	"fmt"
	"strings"

	"serium/internal/model"
)

type Predicate[T any] func(T) bool

// Apply keeps the records that pass every predicate. Filtering is idempotent:
// applying the same predicates to the result returns the same set.
func Apply[T any](records []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		keep := true
		for _, p := range preds {
			if !p(r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

type ItemScope string

const (
	ItemScopeAll         ItemScope = "all"
	ItemScopeName        ItemScope = "name"
	ItemScopeSKU         ItemScope = "sku"
	ItemScopeLocation    ItemScope = "location"
	ItemScopeDescription ItemScope = "description"
)

// ItemFilter combines a free-text search with exact-match facet sets. Values
// within one facet are OR'd, distinct facets and the search term are AND'd.
// An empty search term means no text restriction.
type ItemFilter struct {
	Search     string
	Scope      ItemScope
	Categories []string
	Statuses   []string
	Locations  []string
}

func (f ItemFilter) Match(i model.Item) bool {
	if !matchFacet(f.Categories, i.Category) {
		return false
	}
	if !matchFacet(f.Statuses, i.Status) {
		return false
	}
	if !matchFacet(f.Locations, i.Location) {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	switch f.Scope {
	case ItemScopeName:
		return contains(i.Name, term)
	case ItemScopeSKU:
		return contains(i.SKU, term)
	case ItemScopeLocation:
		return contains(i.Location, term)
	case ItemScopeDescription:
		return contains(i.Description, term)
	default:
		return contains(i.Name, term) ||
			contains(i.SKU, term) ||
			contains(i.Location, term) ||
			contains(i.Description, term)
	}
}

func FilterItems(items []model.Item, f ItemFilter) []model.Item {
	return Apply(items, f.Match)
}

type HistoryScope string

const (
	HistoryScopeAll     HistoryScope = "all"
	HistoryScopeItemID  HistoryScope = "itemId"
	HistoryScopeAction  HistoryScope = "action"
	HistoryScopeChanges HistoryScope = "changes"
)

type HistoryFilter struct {
	Search string
	Scope  HistoryScope
	Action string
	ItemID string
}

func (f HistoryFilter) Match(e model.HistoryEntry) bool {
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.ItemID != "" && e.ItemID != f.ItemID {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	switch f.Scope {
	case HistoryScopeItemID:
		return contains(e.ItemID, term)
	case HistoryScopeAction:
		return contains(e.Action, term)
	case HistoryScopeChanges:
		return matchChanges(e.Changes, term)
	default:
		return contains(e.ItemID, term) ||
			contains(e.Action, term) ||
			matchChanges(e.Changes, term)
	}
}

func FilterHistory(entries []model.HistoryEntry, f HistoryFilter) []model.HistoryEntry {
	return Apply(entries, f.Match)
}

// matchChanges matches when any change's field name or stringified old/new
// value contains the term.
func matchChanges(cs []model.FieldChange, term string) bool {
	for _, c := range cs {
		if contains(c.Field, term) || contains(stringify(c.OldValue), term) || contains(stringify(c.NewValue), term) {
			return true
		}
	}
	return false
}

// matchFacet passes everything when no values are selected.
func matchFacet(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

func contains(s string, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
