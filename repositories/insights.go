package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkhive/models"
)

type InsightRepository struct {
	col *mongo.Collection
}

func NewInsightRepository(db *mongo.Database) *InsightRepository {
	return &InsightRepository{col: db.Collection("insights")}
}

// UpsertByBookmark writes the full insight for a bookmark, overwriting
// any previous one. The document is never partially written: every field
// is set in a single update.
func (r *InsightRepository) UpsertByBookmark(ctx context.Context, in *models.Insight) error {
	now := time.Now()
	filter := bson.M{"bookmark_id": in.BookmarkID}
	update := bson.M{
		"$setOnInsert": bson.M{"created_at": now},
		"$set": bson.M{
			"updated_at":    now,
			"bookmark_id":   in.BookmarkID,
			"ai_log_id":     in.AILogID,
			"summary":       in.Summary,
			"sentiment":     in.Sentiment,
			"depth_level":   in.DepthLevel,
			"tags":          in.Tags,
			"related_links": in.RelatedLinks,
			"model_name":    in.ModelName,
			"generated_at":  in.GeneratedAt,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByBookmarkID returns the insight for a bookmark.
func (r *InsightRepository) FindByBookmarkID(ctx context.Context, bookmarkID primitive.ObjectID) (*models.Insight, error) {
	var in models.Insight
	if err := r.col.FindOne(ctx, bson.M{"bookmark_id": bookmarkID}).Decode(&in); err != nil {
		return nil, err
	}
	return &in, nil
}
