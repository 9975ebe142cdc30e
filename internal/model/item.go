package model

import (
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	SKU          string              `bson:"sku" json:"sku"`
	Description  string              `bson:"description" json:"description"`
	Quantity     int                 `bson:"quantity" json:"quantity"`
	Price        float64             `bson:"price" json:"price"`
	Category     string              `bson:"category" json:"category"`
	Location     string              `bson:"location" json:"location"`
	Status       string              `bson:"status" json:"status"`
	LastVerified *primitive.DateTime `bson:"last_verified,omitempty" json:"last_verified,omitempty"`
	CustomFields map[string]any      `bson:"custom_fields,omitempty" json:"custom_fields,omitempty"`
	CreatedAt    primitive.DateTime  `bson:"created_at" json:"-"`
	UpdatedAt    primitive.DateTime  `bson:"updated_at" json:"-"`
}

func (i Item) Validate() error {
	if i.Name == "" {
		return errors.New("item name is required")
	}
	if i.Quantity < 0 {
		return errors.Errorf("item quantity must not be negative, got: %d", i.Quantity)
	}
	if i.Price < 0 {
		return errors.Errorf("item price must not be negative, got: %v", i.Price)
	}
	return nil
}

// Verified reports whether the item was verified within the freshness window.
// An item with no verification timestamp is never verified.
func (i Item) Verified(window time.Duration) bool {
	if i.LastVerified == nil {
		return false
	}
	return time.Since(i.LastVerified.Time()) <= window
}
