package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setting is a key/value configuration row, used for editable prompts.
// Collection: settings
type Setting struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string             `bson:"key" json:"key"`
	Value     string             `bson:"value" json:"value"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
