package history

import (
	"fmt"
	"sort"
	"time"

	"serium/internal/model"
)

type field struct {
	name  string
	value any
}

// trackedFields lists an item's loggable fields in a stable order: fixed
// fields in declaration order, then custom fields sorted by column id under a
// "custom:" prefix. LastVerified is recorded as an RFC 3339 string, nil when
// the item was never verified.
func trackedFields(i model.Item) []field {
	var lastVerified any
	if i.LastVerified != nil {
		lastVerified = i.LastVerified.Time().UTC().Format(time.RFC3339)
	}
	fs := []field{
		{name: "name", value: i.Name},
		{name: "sku", value: i.SKU},
		{name: "description", value: i.Description},
		{name: "quantity", value: i.Quantity},
		{name: "price", value: i.Price},
		{name: "category", value: i.Category},
		{name: "location", value: i.Location},
		{name: "status", value: i.Status},
		{name: "last_verified", value: lastVerified},
	}
	keys := make([]string, 0, len(i.CustomFields))
	for k := range i.CustomFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fs = append(fs, field{name: "custom:" + k, value: i.CustomFields[k]})
	}
	return fs
}

// DiffCreate emits one change per field of the new item, with no old value.
func DiffCreate(newItem model.Item) []model.FieldChange {
	var cs []model.FieldChange
	for _, f := range trackedFields(newItem) {
		cs = append(cs, model.FieldChange{Field: f.name, NewValue: f.value})
	}
	return cs
}

// DiffDelete emits one change per field of the old item, with no new value.
func DiffDelete(oldItem model.Item) []model.FieldChange {
	var cs []model.FieldChange
	for _, f := range trackedFields(oldItem) {
		cs = append(cs, model.FieldChange{Field: f.name, OldValue: f.value})
	}
	return cs
}

// DiffUpdate iterates the old item's field set and emits a change wherever the
// string-coerced values differ. Custom fields added by the new item only are
// not reported. Coercion compares representations, not typed values, so a
// value that merely changed formatting still registers as a change; existing
// audit logs depend on this.
func DiffUpdate(oldItem, newItem model.Item) []model.FieldChange {
	newValues := make(map[string]any)
	for _, f := range trackedFields(newItem) {
		newValues[f.name] = f.value
	}

	var cs []model.FieldChange
	for _, f := range trackedFields(oldItem) {
		nv := newValues[f.name]
		if coerce(f.value) == coerce(nv) {
			continue
		}
		cs = append(cs, model.FieldChange{Field: f.name, OldValue: f.value, NewValue: nv})
	}
	return cs
}

func coerce(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
