package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// FieldChange is one field-level delta inside a HistoryEntry. OldValue and
// NewValue may be nil (field absent on create/delete).
type FieldChange struct {
	Field    string `bson:"field" json:"field"`
	OldValue any    `bson:"old_value" json:"old_value"`
	NewValue any    `bson:"new_value" json:"new_value"`
}

// HistoryEntry records one tracked item mutation. Entries are immutable once
// written; ItemID is not a foreign key and may outlive the item it references.
type HistoryEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID    string             `bson:"item_id" json:"item_id"`
	Action    string             `bson:"action" json:"action"`
	Changes   []FieldChange      `bson:"changes" json:"changes"`
	Timestamp primitive.DateTime `bson:"ts" json:"ts"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
}
