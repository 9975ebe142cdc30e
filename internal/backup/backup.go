// Package backup reads and writes the JSON backup file format:
// {meta:{version,createdAt}, settings, inventory:[], history:[]}. Legacy
// single-collection files, a bare JSON array, are treated as the inventory
// collection alone.
package backup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"serium/internal/model"
)

const Version = "1.0"

var ErrInvalidBackup = errors.New("invalid backup payload")

// Store is the slice of the record store backup needs.
type Store interface {
	ItemsFindAll(ctx context.Context) ([]model.Item, error)
	ItemsBulkAdd(ctx context.Context, is []model.Item) (int, error)
	ItemsClear(ctx context.Context) error
	HistoryFindAll(ctx context.Context) ([]model.HistoryEntry, error)
	HistoryBulkAdd(ctx context.Context, es []model.HistoryEntry) (int, error)
	HistoryClear(ctx context.Context) error
	SettingsFind(ctx context.Context) (model.SiteSettings, error)
	SettingsUpsert(ctx context.Context, s model.SiteSettings) error
}

type Meta struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

type File struct {
	Meta      Meta                `json:"meta"`
	Settings  *model.SiteSettings `json:"settings,omitempty"`
	Inventory []model.Item        `json:"inventory"`
	History   []historyRecord     `json:"history"`
}

// historyRecord is the wire form of a HistoryEntry; timestamps travel as
// RFC 3339 strings and are parsed back into date values on import.
type historyRecord struct {
	ID        string              `json:"id,omitempty"`
	ItemID    string              `json:"item_id"`
	Action    string              `json:"action"`
	Changes   []model.FieldChange `json:"changes"`
	Timestamp time.Time           `json:"timestamp"`
	UserID    string              `json:"user_id,omitempty"`
}

func toRecord(e model.HistoryEntry) historyRecord {
	return historyRecord{
		ID:        e.ID.Hex(),
		ItemID:    e.ItemID,
		Action:    e.Action,
		Changes:   e.Changes,
		Timestamp: e.Timestamp.Time().UTC(),
		UserID:    e.UserID,
	}
}

func (r historyRecord) toEntry() model.HistoryEntry {
	e := model.HistoryEntry{
		ItemID:    r.ItemID,
		Action:    r.Action,
		Changes:   r.Changes,
		Timestamp: primitive.NewDateTimeFromTime(r.Timestamp),
		UserID:    r.UserID,
	}
	if id, err := primitive.ObjectIDFromHex(r.ID); err == nil {
		e.ID = id
	}
	return e
}

// Export snapshots all three collections into a backup file value.
func Export(ctx context.Context, store Store) (File, error) {
	is, err := store.ItemsFindAll(ctx)
	if err != nil {
		return File{}, errors.Wrap(err, "error reading inventory for export")
	}
	es, err := store.HistoryFindAll(ctx)
	if err != nil {
		return File{}, errors.Wrap(err, "error reading history for export")
	}
	settings, err := store.SettingsFind(ctx)
	if err != nil {
		return File{}, errors.Wrap(err, "error reading settings for export")
	}

	if is == nil {
		is = []model.Item{}
	}
	records := make([]historyRecord, 0, len(es))
	for _, e := range es {
		records = append(records, toRecord(e))
	}
	return File{
		Meta:      Meta{Version: Version, CreatedAt: time.Now().UTC()},
		Settings:  &settings,
		Inventory: is,
		History:   records,
	}, nil
}

type ImportStats struct {
	Items            int  `json:"items"`
	HistoryEntries   int  `json:"history_entries"`
	SettingsRestored bool `json:"settings_restored"`
}

// Import replaces the persisted collections with the backup contents. The
// restore is clear-then-bulk-add and not transactional: a failure partway
// through can leave a partially imported store. The returned stats report how
// far the restore got.
func Import(ctx context.Context, store Store, data []byte) (ImportStats, error) {
	f, err := parse(data)
	if err != nil {
		return ImportStats{}, err
	}

	var stats ImportStats
	if err := store.ItemsClear(ctx); err != nil {
		return stats, errors.Wrap(err, "error clearing inventory before import")
	}
	n, err := store.ItemsBulkAdd(ctx, f.Inventory)
	stats.Items = n
	if err != nil {
		return stats, errors.Wrap(err, "error importing inventory")
	}

	if f.Settings != nil {
		if err := store.SettingsUpsert(ctx, *f.Settings); err != nil {
			return stats, errors.Wrap(err, "error importing settings")
		}
		stats.SettingsRestored = true
	}

	if err := store.HistoryClear(ctx); err != nil {
		return stats, errors.Wrap(err, "error clearing history before import")
	}
	entries := make([]model.HistoryEntry, 0, len(f.History))
	for _, r := range f.History {
		entries = append(entries, r.toEntry())
	}
	n, err = store.HistoryBulkAdd(ctx, entries)
	stats.HistoryEntries = n
	if err != nil {
		return stats, errors.Wrap(err, "error importing history")
	}
	return stats, nil
}

func parse(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err == nil {
		if f.Inventory == nil && f.Settings == nil && f.History == nil {
			return f, errors.Wrap(ErrInvalidBackup, "no inventory, settings or history keys found")
		}
		return f, nil
	}

	// Legacy export: the whole payload is the inventory array.
	var is []model.Item
	if err := json.Unmarshal(data, &is); err != nil {
		return File{}, errors.Wrap(ErrInvalidBackup, "payload is neither a backup object nor an inventory array")
	}
	return File{Inventory: is}, nil
}
