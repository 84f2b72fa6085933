package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookmarkTagRepository struct {
	col *mongo.Collection
}

func NewBookmarkTagRepository(db *mongo.Database) *BookmarkTagRepository {
	return &BookmarkTagRepository{col: db.Collection("bookmark_tags")}
}

// Add creates the (bookmark, tag) association if it does not exist yet.
// Returns true when a new row was inserted, so the caller knows whether
// to bump the tag's usage counter.
func (r *BookmarkTagRepository) Add(ctx context.Context, bookmarkID, tagID primitive.ObjectID) (bool, error) {
	filter := bson.M{"bookmark_id": bookmarkID, "tag_id": tagID}
	update := bson.M{"$setOnInsert": bson.M{
		"bookmark_id": bookmarkID,
		"tag_id":      tagID,
		"created_at":  time.Now(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedID != nil, nil
}

// CountByTag counts the associations referencing a tag.
func (r *BookmarkTagRepository) CountByTag(ctx context.Context, tagID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"tag_id": tagID})
}

// ListByBookmark returns the tag ids associated with a bookmark.
func (r *BookmarkTagRepository) ListByBookmark(ctx context.Context, bookmarkID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := r.col.Find(ctx, bson.M{"bookmark_id": bookmarkID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			TagID primitive.ObjectID `bson:"tag_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.TagID)
	}
	return out, cur.Err()
}
