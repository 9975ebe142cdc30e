package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serium/internal/model"
)

func changeFor(t *testing.T, cs []model.FieldChange, field string) model.FieldChange {
	t.Helper()
	for _, c := range cs {
		if c.Field == field {
			return c
		}
	}
	t.Fatalf("no change found for field %q in %+v", field, cs)
	return model.FieldChange{}
}

func TestDiffCreate(t *testing.T) {
	i := model.Item{
		Name:     "Hammer",
		SKU:      "HM-01",
		Quantity: 5,
		Price:    10,
		Category: "Tools",
		CustomFields: map[string]any{
			"supplier": "Acme",
		},
	}

	cs := DiffCreate(i)
	require.Len(t, cs, 10)

	assert.Equal(t, "name", cs[0].Field)
	for _, c := range cs {
		assert.Nil(t, c.OldValue, "create changes must have no old value, field: %s", c.Field)
	}
	assert.Equal(t, 5, changeFor(t, cs, "quantity").NewValue)
	assert.Equal(t, "Acme", changeFor(t, cs, "custom:supplier").NewValue)
	assert.Nil(t, changeFor(t, cs, "last_verified").NewValue)
}

func TestDiffDelete(t *testing.T) {
	i := model.Item{Name: "Hammer", Quantity: 5}

	cs := DiffDelete(i)
	require.Len(t, cs, 9)
	for _, c := range cs {
		assert.Nil(t, c.NewValue, "delete changes must have no new value, field: %s", c.Field)
	}
	assert.Equal(t, "Hammer", changeFor(t, cs, "name").OldValue)
	assert.Equal(t, 5, changeFor(t, cs, "quantity").OldValue)
}

func TestDiffUpdateIdentical(t *testing.T) {
	i := model.Item{Name: "Hammer", SKU: "HM-01", Quantity: 5, Price: 10.5}
	assert.Empty(t, DiffUpdate(i, i))
}

func TestDiffUpdateSingleField(t *testing.T) {
	old := model.Item{Name: "Hammer", Quantity: 5, Price: 10, Category: "Tools"}
	updated := old
	updated.Quantity = 3

	cs := DiffUpdate(old, updated)
	require.Len(t, cs, 1)
	assert.Equal(t, "quantity", cs[0].Field)
	assert.Equal(t, 5, cs[0].OldValue)
	assert.Equal(t, 3, cs[0].NewValue)
}

func TestDiffUpdateComparesRepresentations(t *testing.T) {
	old := model.Item{Name: "Hammer", CustomFields: map[string]any{"weight": "10.0"}}
	updated := model.Item{Name: "Hammer", CustomFields: map[string]any{"weight": "10"}}

	// Same numeric value, different formatting: registers as a change.
	cs := DiffUpdate(old, updated)
	require.Len(t, cs, 1)
	assert.Equal(t, "custom:weight", cs[0].Field)

	// Different types, same representation: no change.
	old.CustomFields = map[string]any{"weight": 10}
	updated.CustomFields = map[string]any{"weight": "10"}
	assert.Empty(t, DiffUpdate(old, updated))
}

func TestDiffUpdateIteratesOldFieldSet(t *testing.T) {
	old := model.Item{Name: "Hammer", CustomFields: map[string]any{"supplier": "Acme"}}
	updated := model.Item{Name: "Hammer", CustomFields: map[string]any{"color": "red"}}

	cs := DiffUpdate(old, updated)
	require.Len(t, cs, 1)
	assert.Equal(t, "custom:supplier", cs[0].Field)
	assert.Equal(t, "Acme", cs[0].OldValue)
	assert.Nil(t, cs[0].NewValue)
}
