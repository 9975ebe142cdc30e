package query

import (
	"golang.org/x/exp/slices"

	"serium/internal/misc"
	"serium/internal/model"
)

// Paginate returns the window [pageIndex*pageSize, pageIndex*pageSize+pageSize)
// over the given records. An out-of-range window yields an empty slice; the
// caller clamps pageIndex (see ClampPage) before requesting a window it wants
// to be non-empty.
func Paginate[T any](records []T, pageIndex int, pageSize int) []T {
	if pageIndex < 0 || pageSize <= 0 {
		return []T{}
	}
	start := pageIndex * pageSize
	if start >= len(records) {
		return []T{}
	}
	return records[start:misc.Min(start+pageSize, len(records))]
}

// PageCount is ceil(total/pageSize), never less than 1: an empty collection
// still renders as a single empty page.
func PageCount(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage clamps a page index into [0, pageCount-1].
func ClampPage(pageIndex int, pageCount int) int {
	return misc.Max(0, misc.Min(pageIndex, pageCount-1))
}

type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortItems stable-sorts items in place on a single column. SortNone and
// unknown fields leave the order untouched. A new sort column replaces any
// previous one; callers keep at most one active sort.
func SortItems(items []model.Item, field string, dir SortDirection) {
	if dir == SortNone {
		return
	}
	less := itemLess(field)
	if less == nil {
		return
	}
	slices.SortStableFunc(items, func(a, b model.Item) bool {
		if dir == SortDescending {
			return less(b, a)
		}
		return less(a, b)
	})
}

func itemLess(field string) func(a, b model.Item) bool {
	switch field {
	case "name":
		return func(a, b model.Item) bool { return a.Name < b.Name }
	case "sku":
		return func(a, b model.Item) bool { return a.SKU < b.SKU }
	case "description":
		return func(a, b model.Item) bool { return a.Description < b.Description }
	case "quantity":
		return func(a, b model.Item) bool { return a.Quantity < b.Quantity }
	case "price":
		return func(a, b model.Item) bool { return a.Price < b.Price }
	case "category":
		return func(a, b model.Item) bool { return a.Category < b.Category }
	case "location":
		return func(a, b model.Item) bool { return a.Location < b.Location }
	case "status":
		return func(a, b model.Item) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
