package history

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"serium/internal/model"
	"serium/internal/query"
)

// Store is the slice of the record store the history log needs. Implemented
// by database.Database.
type Store interface {
	HistoryInsert(ctx context.Context, e model.HistoryEntry) error
	HistoryFindAll(ctx context.Context) ([]model.HistoryEntry, error)
}

type Log struct {
	Store Store
}

// ReasonDisabled is reported when a write is skipped because history tracking
// is turned off. A skipped write is a successful outcome, not an error.
const ReasonDisabled = "disabled"

type TrackResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// TrackingEnabled reads the history tracking feature flag from the given
// settings snapshot.
func TrackingEnabled(settings model.SiteSettings) bool {
	return settings.Features.HistoryTracking
}

// TrackChange diffs the item snapshots per the action kind and appends a
// HistoryEntry. oldData is required for update and delete, newData for create
// and update. The settings snapshot is injected by the caller; the log never
// reads configuration on its own.
func (l Log) TrackChange(
	ctx context.Context, settings model.SiteSettings,
	itemID string, action string, oldData *model.Item, newData *model.Item, userID string,
) (TrackResult, error) {
	if !TrackingEnabled(settings) {
		return TrackResult{Success: false, Reason: ReasonDisabled}, nil
	}

	var changes []model.FieldChange
	switch action {
	case model.ActionCreate:
		if newData == nil {
			return TrackResult{}, errors.Errorf("missing new item data for action %q, ItemID: %s", action, itemID)
		}
		changes = DiffCreate(*newData)
	case model.ActionUpdate:
		if oldData == nil || newData == nil {
			return TrackResult{}, errors.Errorf("missing item data for action %q, ItemID: %s", action, itemID)
		}
		changes = DiffUpdate(*oldData, *newData)
	case model.ActionDelete:
		if oldData == nil {
			return TrackResult{}, errors.Errorf("missing old item data for action %q, ItemID: %s", action, itemID)
		}
		changes = DiffDelete(*oldData)
	default:
		return TrackResult{}, errors.Errorf("unknown history action: %s", action)
	}

	e := model.HistoryEntry{
		ItemID:    itemID,
		Action:    action,
		Changes:   changes,
		Timestamp: primitive.NewDateTimeFromTime(time.Now()),
		UserID:    userID,
	}
	if err := l.Store.HistoryInsert(ctx, e); err != nil {
		return TrackResult{}, errors.Wrapf(err, "error appending HistoryEntry for ItemID: %s", itemID)
	}
	return TrackResult{Success: true}, nil
}

// GetHistory returns all entries matching the filter, sorted by timestamp
// ascending. Callers wanting reverse-chronological order re-sort the result.
func (l Log) GetHistory(ctx context.Context, filter query.HistoryFilter) ([]model.HistoryEntry, error) {
	es, err := l.Store.HistoryFindAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.FilterHistory(es, filter), nil
}
