package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serium/internal/model"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 4, PageCount(25, 8))
	assert.Equal(t, 2, PageCount(16, 8))
	assert.Equal(t, 1, PageCount(8, 8))
	assert.Equal(t, 1, PageCount(1, 8))
	assert.Equal(t, 1, PageCount(0, 8), "an empty collection is one empty page")
	assert.Equal(t, 1, PageCount(25, 0))
}

func TestPaginate(t *testing.T) {
	records := make([]int, 25)
	for i := range records {
		records[i] = i
	}

	assert.Len(t, Paginate(records, 0, 8), 8)
	assert.Len(t, Paginate(records, 2, 8), 8)
	assert.Len(t, Paginate(records, 3, 8), 1, "last page holds the remainder")
	assert.Equal(t, 24, Paginate(records, 3, 8)[0])

	assert.Empty(t, Paginate(records, 4, 8), "out-of-range page is empty")
	assert.Empty(t, Paginate(records, -1, 8))
	assert.Empty(t, Paginate(records, 0, 0))
}

func TestPaginateWindowsCoverCollection(t *testing.T) {
	records := make([]int, 25)
	for i := range records {
		records[i] = i
	}

	var concatenated []int
	for p := 0; p < PageCount(len(records), 8); p++ {
		concatenated = append(concatenated, Paginate(records, p, 8)...)
	}
	assert.Equal(t, records, concatenated)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-3, 4))
	assert.Equal(t, 2, ClampPage(2, 4))
	assert.Equal(t, 3, ClampPage(9, 4))
	assert.Equal(t, 0, ClampPage(0, 1))
}

func TestSortItems(t *testing.T) {
	items := func() []model.Item {
		return []model.Item{
			{Name: "Tape", Price: 3.5, Quantity: 12},
			{Name: "Hammer", Price: 10, Quantity: 5},
			{Name: "Screws", Price: 3.5, Quantity: 200},
		}
	}

	is := items()
	SortItems(is, "name", SortAscending)
	assert.Equal(t, "Hammer", is[0].Name)
	assert.Equal(t, "Tape", is[2].Name)

	is = items()
	SortItems(is, "quantity", SortDescending)
	assert.Equal(t, 200, is[0].Quantity)
	assert.Equal(t, 5, is[2].Quantity)

	is = items()
	SortItems(is, "price", SortAscending)
	// Stable: equal prices keep their input order.
	assert.Equal(t, "Tape", is[0].Name)
	assert.Equal(t, "Screws", is[1].Name)

	is = items()
	SortItems(is, "name", SortNone)
	assert.Equal(t, items(), is)

	is = items()
	SortItems(is, "nonexistent", SortAscending)
	assert.Equal(t, items(), is)
}

func TestFilterSortPaginatePipeline(t *testing.T) {
	var items []model.Item
	for i := 0; i < 30; i++ {
		items = append(items, model.Item{
			Name:     fmt.Sprintf("Widget %02d", i),
			Category: "Tools",
			Quantity: 30 - i,
		})
	}

	filtered := FilterItems(items, ItemFilter{Categories: []string{"Tools"}})
	SortItems(filtered, "quantity", SortAscending)
	pageCount := PageCount(len(filtered), 8)
	require.Equal(t, 4, pageCount)

	page := Paginate(filtered, ClampPage(99, pageCount), 8)
	require.Len(t, page, 6)
	assert.Equal(t, 25, page[0].Quantity)
	assert.Equal(t, 30, page[5].Quantity)
}
