package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"serium/internal/model"
)

func (db Database) HistoryInsert(ctx context.Context, e model.HistoryEntry) error {
	_, err := db.Collection(CollectionHistory).InsertOne(ctx, e)
	return errors.Wrapf(err, "error inserting HistoryEntry: %+v", e)
}

// HistoryFindAll returns every history entry sorted by timestamp ascending.
// ObjectIDs break ties between entries written in the same millisecond, so the
// order matches insertion order.
func (db Database) HistoryFindAll(ctx context.Context) ([]model.HistoryEntry, error) {
	var es []model.HistoryEntry
	opts := options.Find().SetSort(bson.D{{Key: "ts", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection(CollectionHistory).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all HistoryEntries")
	}
	if err = cur.All(ctx, &es); err != nil {
		return nil, errors.Wrap(err, "error getting all HistoryEntries from cursor")
	}
	return es, nil
}

func (db Database) HistoryFindByItem(ctx context.Context, itemID string) ([]model.HistoryEntry, error) {
	var es []model.HistoryEntry
	opts := options.Find().SetSort(bson.D{{Key: "ts", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection(CollectionHistory).Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find HistoryEntries for ItemID: %s", itemID)
	}
	if err = cur.All(ctx, &es); err != nil {
		return nil, errors.Wrapf(err, "error getting HistoryEntries from cursor for ItemID: %s", itemID)
	}
	return es, nil
}

func (db Database) HistoryBulkAdd(ctx context.Context, es []model.HistoryEntry) (int, error) {
	if len(es) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(es))
	for _, e := range es {
		docs = append(docs, e)
	}
	r, err := db.Collection(CollectionHistory).InsertMany(ctx, docs)
	if err != nil {
		var inserted int
		if r != nil {
			inserted = len(r.InsertedIDs)
		}
		return inserted, errors.Wrapf(err, "error bulk adding %d HistoryEntries, inserted: %d", len(es), inserted)
	}
	return len(r.InsertedIDs), nil
}

func (db Database) HistoryClear(ctx context.Context) error {
	_, err := db.Collection(CollectionHistory).DeleteMany(ctx, bson.M{})
	return errors.Wrap(err, "error clearing HistoryEntries")
}
