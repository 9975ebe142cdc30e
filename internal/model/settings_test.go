package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationWindow(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 7*24*time.Hour, s.VerificationWindow())

	s.Features.VerificationTimeout = 30
	s.Features.VerificationTimeoutUnit = "minutes"
	assert.Equal(t, 30*time.Minute, s.VerificationWindow())

	s.Features.VerificationTimeoutUnit = "hours"
	assert.Equal(t, 30*time.Hour, s.VerificationWindow())

	s.Features.VerificationTimeoutUnit = "fortnights"
	assert.Equal(t, 30*24*time.Hour, s.VerificationWindow(), "unknown units fall back to days")
}

func TestColumnVisible(t *testing.T) {
	s := DefaultSettings()
	s.VisibleColumns = map[string]bool{"price": false, "sku": true}

	assert.True(t, s.ColumnVisible("sku"))
	assert.False(t, s.ColumnVisible("price"))
	assert.True(t, s.ColumnVisible("quantity"), "fields without a toggle default to visible")

	s.VisibleColumns["name"] = false
	assert.True(t, s.ColumnVisible("name"), "the name column cannot be hidden")
}

func TestValidateCustomFields(t *testing.T) {
	s := DefaultSettings()
	s.CustomColumns = []CustomColumn{
		{ID: "supplier", Label: "Supplier", Type: ColumnText, Required: true},
		{ID: "weight", Label: "Weight", Type: ColumnNumber},
		{ID: "fragile", Label: "Fragile", Type: ColumnBoolean},
	}

	assert.NoError(t, s.ValidateCustomFields(map[string]any{
		"supplier": "Acme",
		"weight":   2.5,
		"fragile":  true,
	}))

	assert.Error(t, s.ValidateCustomFields(map[string]any{}), "required column missing")
	assert.Error(t, s.ValidateCustomFields(map[string]any{"supplier": nil}), "nil counts as missing")
	assert.Error(t, s.ValidateCustomFields(map[string]any{"supplier": 42}), "wrong type for text column")
	assert.Error(t, s.ValidateCustomFields(map[string]any{"supplier": "Acme", "weight": "heavy"}))
	assert.Error(t, s.ValidateCustomFields(map[string]any{"supplier": "Acme", "fragile": "yes"}))

	assert.NoError(t, s.ValidateCustomFields(map[string]any{"supplier": "Acme"}),
		"optional columns may be absent")
	assert.NoError(t, s.ValidateCustomFields(map[string]any{"supplier": "Acme", "legacy": 1}),
		"keys from removed columns pass through")
}
