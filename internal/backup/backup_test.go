package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serium/internal/model"
)

type fakeStore struct {
	items    []model.Item
	history  []model.HistoryEntry
	settings model.SiteSettings

	itemsCleared   bool
	historyCleared bool
	settingsSaved  bool
}

func (s *fakeStore) ItemsFindAll(_ context.Context) ([]model.Item, error) {
	return s.items, nil
}

func (s *fakeStore) ItemsBulkAdd(_ context.Context, is []model.Item) (int, error) {
	s.items = append(s.items, is...)
	return len(is), nil
}

func (s *fakeStore) ItemsClear(_ context.Context) error {
	s.items = nil
	s.itemsCleared = true
	return nil
}

func (s *fakeStore) HistoryFindAll(_ context.Context) ([]model.HistoryEntry, error) {
	return s.history, nil
}

func (s *fakeStore) HistoryBulkAdd(_ context.Context, es []model.HistoryEntry) (int, error) {
	s.history = append(s.history, es...)
	return len(es), nil
}

func (s *fakeStore) HistoryClear(_ context.Context) error {
	s.history = nil
	s.historyCleared = true
	return nil
}

func (s *fakeStore) SettingsFind(_ context.Context) (model.SiteSettings, error) {
	return s.settings, nil
}

func (s *fakeStore) SettingsUpsert(_ context.Context, settings model.SiteSettings) error {
	s.settings = settings
	s.settingsSaved = true
	return nil
}

func TestExport(t *testing.T) {
	store := &fakeStore{
		items:    []model.Item{{Name: "Hammer", Quantity: 5}},
		history:  []model.HistoryEntry{{ItemID: "a1", Action: model.ActionCreate}},
		settings: model.DefaultSettings(),
	}

	f, err := Export(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, Version, f.Meta.Version)
	assert.False(t, f.Meta.CreatedAt.IsZero())
	require.NotNil(t, f.Settings)
	assert.Equal(t, store.settings, *f.Settings)
	require.Len(t, f.Inventory, 1)
	assert.Equal(t, "Hammer", f.Inventory[0].Name)
	require.Len(t, f.History, 1)
	assert.Equal(t, "a1", f.History[0].ItemID)
}

func TestExportEmptyStore(t *testing.T) {
	f, err := Export(context.Background(), &fakeStore{settings: model.DefaultSettings()})
	require.NoError(t, err)
	assert.NotNil(t, f.Inventory, "inventory must serialize as [], not null")
	assert.NotNil(t, f.History)
}

func TestImport(t *testing.T) {
	payload := []byte(`{
		"meta": {"version": "1.0", "createdAt": "2024-03-01T10:00:00Z"},
		"settings": {"id": "site-settings", "low_stock_threshold": 7},
		"inventory": [
			{"name": "Hammer", "sku": "HM-01", "quantity": 5},
			{"name": "Tape", "sku": "TP-01", "quantity": 12}
		],
		"history": [
			{
				"item_id": "a1",
				"action": "update",
				"changes": [{"field": "quantity", "old_value": 5, "new_value": 3}],
				"timestamp": "2024-03-01T09:30:00Z"
			}
		]
	}`)

	store := &fakeStore{
		items:   []model.Item{{Name: "Leftover"}},
		history: []model.HistoryEntry{{ItemID: "stale"}},
	}
	stats, err := Import(context.Background(), store, payload)
	require.NoError(t, err)

	assert.Equal(t, ImportStats{Items: 2, HistoryEntries: 1, SettingsRestored: true}, stats)
	assert.True(t, store.itemsCleared, "import replaces the inventory, it does not merge")
	assert.True(t, store.historyCleared)
	assert.True(t, store.settingsSaved)
	assert.Equal(t, 7, store.settings.LowStockThreshold)

	require.Len(t, store.items, 2)
	assert.Equal(t, "HM-01", store.items[0].SKU)

	require.Len(t, store.history, 1)
	e := store.history[0]
	assert.Equal(t, "a1", e.ItemID)
	assert.Equal(t, model.ActionUpdate, e.Action)
	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, want, e.Timestamp.Time().UTC())
}

func TestImportLegacyArray(t *testing.T) {
	payload := []byte(`[{"name": "Hammer", "quantity": 5}]`)

	store := &fakeStore{}
	stats, err := Import(context.Background(), store, payload)
	require.NoError(t, err)

	assert.Equal(t, ImportStats{Items: 1}, stats)
	assert.False(t, store.settingsSaved)
	require.Len(t, store.items, 1)
	assert.Equal(t, "Hammer", store.items[0].Name)
	assert.Empty(t, store.history)
}

func TestImportInvalidPayload(t *testing.T) {
	store := &fakeStore{items: []model.Item{{Name: "Hammer"}}}

	for _, payload := range []string{
		`"just a string"`,
		`{"foo": 1}`,
		`not json at all`,
	} {
		_, err := Import(context.Background(), store, []byte(payload))
		assert.ErrorIs(t, err, ErrInvalidBackup, "payload: %s", payload)
	}
	assert.False(t, store.itemsCleared, "invalid payloads must not touch the store")
}

func TestExportImportRoundTrip(t *testing.T) {
	original := &fakeStore{
		items: []model.Item{
			{Name: "Hammer", SKU: "HM-01", Quantity: 5, CustomFields: map[string]any{"supplier": "Acme"}},
		},
		history: []model.HistoryEntry{
			{ItemID: "a1", Action: model.ActionCreate, Changes: []model.FieldChange{{Field: "name", NewValue: "Hammer"}}},
		},
		settings: model.DefaultSettings(),
	}

	f, err := Export(context.Background(), original)
	require.NoError(t, err)
	data, err := json.Marshal(f)
	require.NoError(t, err)

	restored := &fakeStore{}
	stats, err := Import(context.Background(), restored, data)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Items: 1, HistoryEntries: 1, SettingsRestored: true}, stats)
	assert.Equal(t, original.settings, restored.settings)
	require.Len(t, restored.items, 1)
	assert.Equal(t, original.items[0].Name, restored.items[0].Name)
	require.Len(t, restored.history, 1)
	assert.Equal(t, original.history[0].Action, restored.history[0].Action)
}
