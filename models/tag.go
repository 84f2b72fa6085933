package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TagType distinguishes user-authored tags from AI-generated ones.
type TagType string

const (
	TagTypeUser   TagType = "user"
	TagTypeSystem TagType = "system"
)

// Tag is a canonical vocabulary entry.
// Collection: tags
//
// NameKey is the lower-cased canonical form and carries the unique index;
// Name keeps the presentable casing. UsageCount must equal the number of
// bookmark_tags rows referencing the tag.
type Tag struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	Name       string             `bson:"name" json:"name"`
	NameKey    string             `bson:"name_key" json:"name_key"`
	Type       TagType            `bson:"type" json:"type"`
	UsageCount int64              `bson:"usage_count" json:"usage_count"`
}

// BookmarkTag is the many-to-many join between bookmarks and tags.
// Collection: bookmark_tags
// A (bookmark_id, tag_id) pair appears at most once.
type BookmarkTag struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	BookmarkID primitive.ObjectID `bson:"bookmark_id" json:"bookmark_id"`
	TagID      primitive.ObjectID `bson:"tag_id" json:"tag_id"`
}
