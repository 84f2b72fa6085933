package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkhive/models"
)

type BookmarkHTMLRepository struct {
	col *mongo.Collection
}

func NewBookmarkHTMLRepository(db *mongo.Database) *BookmarkHTMLRepository {
	return &BookmarkHTMLRepository{col: db.Collection("bookmark_htmls")}
}

// UpsertByBookmark stores the raw HTML for a bookmark, replacing any
// previous capture.
func (r *BookmarkHTMLRepository) UpsertByBookmark(ctx context.Context, h *models.BookmarkHTML) error {
	if h.FetchedAt.IsZero() {
		h.FetchedAt = time.Now()
	}
	filter := bson.M{"bookmark_id": h.BookmarkID}
	update := bson.M{"$set": bson.M{
		"bookmark_id":       h.BookmarkID,
		"raw_html":          h.RawHTML,
		"fetched_at":        h.FetchedAt,
		"fetch_duration_ms": h.FetchDurationMs,
		"html_size_bytes":   h.HTMLSizeBytes,
	}}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByBookmarkID returns the stored HTML for a bookmark, or (nil, nil)
// when none was captured.
func (r *BookmarkHTMLRepository) FindByBookmarkID(ctx context.Context, bookmarkID primitive.ObjectID) (*models.BookmarkHTML, error) {
	var h models.BookmarkHTML
	err := r.col.FindOne(ctx, bson.M{"bookmark_id": bookmarkID}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
