package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"serium/internal/model"
)

// SettingsFind returns the singleton settings record, or the defaults when
// none has been saved yet.
func (db Database) SettingsFind(ctx context.Context) (model.SiteSettings, error) {
	var s model.SiteSettings
	err := db.Collection(CollectionSettings).FindOne(ctx, bson.M{"_id": model.SettingsID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.DefaultSettings(), nil
		}
		return s, errors.Wrap(err, "error finding SiteSettings")
	}
	return s, nil
}

func (db Database) SettingsUpsert(ctx context.Context, s model.SiteSettings) error {
	s.ID = model.SettingsID
	opts := options.Replace().SetUpsert(true)
	_, err := db.Collection(CollectionSettings).ReplaceOne(ctx, bson.M{"_id": model.SettingsID}, s, opts)
	return errors.Wrap(err, "error upserting SiteSettings")
}
