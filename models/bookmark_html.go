package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookmarkHTML stores the raw rendered HTML of a bookmarked page so a
// reprocess run does not have to refetch it.
// Collection: bookmark_htmls
type BookmarkHTML struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookmarkID      primitive.ObjectID `bson:"bookmark_id" json:"bookmark_id"`
	RawHTML         string             `bson:"raw_html" json:"raw_html"`
	FetchedAt       time.Time          `bson:"fetched_at" json:"fetched_at"`
	FetchDurationMs int64              `bson:"fetch_duration_ms" json:"fetch_duration_ms"`
	HTMLSizeBytes   int64              `bson:"html_size_bytes" json:"html_size_bytes"`
}
