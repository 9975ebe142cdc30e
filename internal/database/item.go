package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"serium/internal/model"
)

func (db Database) ItemInsert(ctx context.Context, i model.Item) (id string, err error) {
	i.ID = primitive.NilObjectID
	i.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	i.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	r, err := db.Collection(CollectionInventory).InsertOne(ctx, i)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting Item: %+v", i)
	}
	return r.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) ItemUpdate(ctx context.Context, i model.Item) error {
	i.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	res, err := db.Collection(CollectionInventory).ReplaceOne(ctx, bson.M{"_id": i.ID}, i)
	if err != nil {
		return errors.Wrapf(err, "error updating Item with ID: %s", i.ID.Hex())
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Item matched when updating Item with ID: %s", i.ID.Hex())
	}
	return nil
}

func (db Database) ItemDelete(ctx context.Context, itemID string) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", itemID)
	}

	res, err := db.Collection(CollectionInventory).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "error deleting Item with ID: %s", itemID)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Item deleted with ID: %s", itemID)
	}
	return nil
}

func (db Database) ItemFindOne(ctx context.Context, itemID string) (model.Item, error) {
	var i model.Item
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return i, errors.Wrapf(err, "error creating ObjectID from hex: %s", itemID)
	}
	err = db.Collection(CollectionInventory).FindOne(ctx, bson.M{"_id": objID}).Decode(&i)
	return i, errors.Wrapf(err, "error finding Item with ID: %s", itemID)
}

func (db Database) ItemFindBySKU(ctx context.Context, sku string) (model.Item, error) {
	var i model.Item
	err := db.Collection(CollectionInventory).FindOne(ctx, bson.M{"sku": sku}).Decode(&i)
	return i, errors.Wrapf(err, "error finding Item with SKU: %s", sku)
}

func (db Database) ItemsFindAll(ctx context.Context) ([]model.Item, error) {
	var is []model.Item
	cur, err := db.Collection(CollectionInventory).Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all Items")
	}
	if err = cur.All(ctx, &is); err != nil {
		return nil, errors.Wrap(err, "error getting all Items from cursor")
	}
	return is, nil
}

func (db Database) ItemsBulkAdd(ctx context.Context, is []model.Item) (int, error) {
	if len(is) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(is))
	for _, i := range is {
		i.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
		i.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())
		docs = append(docs, i)
	}
	r, err := db.Collection(CollectionInventory).InsertMany(ctx, docs)
	if err != nil {
		var inserted int
		if r != nil {
			inserted = len(r.InsertedIDs)
		}
		return inserted, errors.Wrapf(err, "error bulk adding %d Item(s), inserted: %d", len(is), inserted)
	}
	return len(r.InsertedIDs), nil
}

func (db Database) ItemsClear(ctx context.Context) error {
	_, err := db.Collection(CollectionInventory).DeleteMany(ctx, bson.M{})
	return errors.Wrap(err, "error clearing Items")
}
