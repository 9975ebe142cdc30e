package history

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serium/internal/model"
	"serium/internal/query"
)

var errTest = errors.New("store unavailable")

type fakeStore struct {
	entries   []model.HistoryEntry
	insertErr error
}

func (s *fakeStore) HistoryInsert(_ context.Context, e model.HistoryEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeStore) HistoryFindAll(_ context.Context) ([]model.HistoryEntry, error) {
	return s.entries, nil
}

func enabledSettings() model.SiteSettings {
	settings := model.DefaultSettings()
	settings.Features.HistoryTracking = true
	return settings
}

func TestTrackChangeDisabled(t *testing.T) {
	store := &fakeStore{}
	l := Log{Store: store}
	settings := enabledSettings()
	settings.Features.HistoryTracking = false

	i := model.Item{Name: "Hammer"}
	res, err := l.TrackChange(context.Background(), settings, "a1", model.ActionCreate, nil, &i, "")
	require.NoError(t, err)
	assert.Equal(t, TrackResult{Success: false, Reason: ReasonDisabled}, res)
	assert.Empty(t, store.entries)
}

func TestTrackChangeCreateThenUpdate(t *testing.T) {
	store := &fakeStore{}
	l := Log{Store: store}
	settings := enabledSettings()
	ctx := context.Background()

	created := model.Item{Name: "Hammer", Quantity: 5, Price: 10, Category: "Tools"}
	res, err := l.TrackChange(ctx, settings, "a1", model.ActionCreate, nil, &created, "u1")
	require.NoError(t, err)
	assert.Equal(t, TrackResult{Success: true}, res)

	updated := created
	updated.Quantity = 3
	res, err = l.TrackChange(ctx, settings, "a1", model.ActionUpdate, &created, &updated, "u1")
	require.NoError(t, err)
	assert.Equal(t, TrackResult{Success: true}, res)

	require.Len(t, store.entries, 2)

	e := store.entries[0]
	assert.Equal(t, "a1", e.ItemID)
	assert.Equal(t, model.ActionCreate, e.Action)
	assert.Equal(t, "u1", e.UserID)
	q := changeFor(t, e.Changes, "quantity")
	assert.Nil(t, q.OldValue)
	assert.Equal(t, 5, q.NewValue)

	e = store.entries[1]
	assert.Equal(t, model.ActionUpdate, e.Action)
	require.Len(t, e.Changes, 1)
	assert.Equal(t, model.FieldChange{Field: "quantity", OldValue: 5, NewValue: 3}, e.Changes[0])

	assert.LessOrEqual(t, int64(store.entries[0].Timestamp), int64(store.entries[1].Timestamp))
}

func TestTrackChangeMissingData(t *testing.T) {
	l := Log{Store: &fakeStore{}}
	settings := enabledSettings()
	ctx := context.Background()
	i := model.Item{Name: "Hammer"}

	_, err := l.TrackChange(ctx, settings, "a1", model.ActionCreate, nil, nil, "")
	assert.Error(t, err)
	_, err = l.TrackChange(ctx, settings, "a1", model.ActionUpdate, nil, &i, "")
	assert.Error(t, err)
	_, err = l.TrackChange(ctx, settings, "a1", model.ActionDelete, nil, nil, "")
	assert.Error(t, err)
}

func TestTrackChangeUnknownAction(t *testing.T) {
	l := Log{Store: &fakeStore{}}
	i := model.Item{Name: "Hammer"}

	res, err := l.TrackChange(context.Background(), enabledSettings(), "a1", "rename", &i, &i, "")
	assert.Error(t, err)
	assert.Equal(t, TrackResult{}, res)
}

func TestTrackChangeStoreError(t *testing.T) {
	store := &fakeStore{insertErr: errTest}
	l := Log{Store: store}
	i := model.Item{Name: "Hammer"}

	res, err := l.TrackChange(context.Background(), enabledSettings(), "a1", model.ActionCreate, nil, &i, "")
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, TrackResult{}, res)
}

func TestGetHistoryFilters(t *testing.T) {
	store := &fakeStore{}
	l := Log{Store: store}
	settings := enabledSettings()
	ctx := context.Background()

	a := model.Item{Name: "Hammer", Quantity: 5}
	b := a
	b.Quantity = 3
	_, err := l.TrackChange(ctx, settings, "a1", model.ActionCreate, nil, &a, "")
	require.NoError(t, err)
	_, err = l.TrackChange(ctx, settings, "a1", model.ActionUpdate, &a, &b, "")
	require.NoError(t, err)
	_, err = l.TrackChange(ctx, settings, "b2", model.ActionCreate, nil, &a, "")
	require.NoError(t, err)

	es, err := l.GetHistory(ctx, query.HistoryFilter{Action: model.ActionUpdate})
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, "a1", es[0].ItemID)

	es, err = l.GetHistory(ctx, query.HistoryFilter{ItemID: "a1"})
	require.NoError(t, err)
	assert.Len(t, es, 2)

	es, err = l.GetHistory(ctx, query.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, es, 3)
}
