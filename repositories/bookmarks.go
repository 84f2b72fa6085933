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

type BookmarkRepository struct {
	col *mongo.Collection
}

func NewBookmarkRepository(db *mongo.Database) *BookmarkRepository {
	return &BookmarkRepository{col: db.Collection("bookmarks")}
}

// UpsertByUserAndURL inserts a bookmark uniquely identified by
// (user_id, url). New rows start in pending; an existing row keeps its
// processing status. Returns true when a new row was created.
func (r *BookmarkRepository) UpsertByUserAndURL(ctx context.Context, b *models.Bookmark) (bool, error) {
	now := time.Now()
	filter := bson.M{"user_id": b.UserID, "url": b.URL}
	update := bson.M{
		"$setOnInsert": bson.M{
			"created_at":           now,
			"ai_processing_status": models.AIStatusPending,
			"user_id":              b.UserID,
			"url":                  b.URL,
		},
		"$set": bson.M{
			"updated_at": now,
			"title":      b.Title,
		},
	}
	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	if res.UpsertedID != nil {
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			b.ID = oid
		}
		return true, nil
	}
	return false, nil
}

// FindByID returns one bookmark by its ObjectID.
func (r *BookmarkRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByUserAndURL returns a bookmark by its natural key.
func (r *BookmarkRepository) FindByUserAndURL(ctx context.Context, userID, url string) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID, "url": url}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByStatus lists bookmarks in the given processing state, oldest
// first, optionally scoped to one user.
func (r *BookmarkRepository) GetByStatus(ctx context.Context, status models.AIStatus, limit int, userID string) ([]models.Bookmark, error) {
	filter := bson.M{"ai_processing_status": status}
	if userID != "" {
		filter["user_id"] = userID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Bookmark
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimPending atomically flips the oldest pending bookmark to
// processing and returns it, so selecting and claiming are one
// indivisible operation even with concurrent drains. Returns (nil, nil)
// when nothing is pending.
func (r *BookmarkRepository) ClaimPending(ctx context.Context, userID string) (*models.Bookmark, error) {
	filter := bson.M{"ai_processing_status": models.AIStatusPending}
	if userID != "" {
		filter["user_id"] = userID
	}
	update := bson.M{"$set": bson.M{
		"ai_processing_status": models.AIStatusProcessing,
		"updated_at":           time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetReturnDocument(options.After)

	var b models.Bookmark
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus sets the processing status of one bookmark.
func (r *BookmarkRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AIStatus) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"ai_processing_status": status,
		"updated_at":           time.Now(),
	}})
	return err
}

// SetInsightSnapshot stores the denormalized insight copy and reading
// time on the bookmark document.
func (r *BookmarkRepository) SetInsightSnapshot(ctx context.Context, id primitive.ObjectID, snap models.InsightSnapshot, readingTimeMinutes int) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"insight":              snap,
		"reading_time_minutes": readingTimeMinutes,
		"updated_at":           time.Now(),
	}})
	return err
}

// ResetFailed flips failed bookmarks back to pending so an explicit
// re-trigger can pick them up. Returns the number of rows reset.
func (r *BookmarkRepository) ResetFailed(ctx context.Context, userID string) (int64, error) {
	filter := bson.M{"ai_processing_status": models.AIStatusFailed}
	if userID != "" {
		filter["user_id"] = userID
	}
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"ai_processing_status": models.AIStatusPending,
		"updated_at":           time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ResetStaleProcessing returns bookmarks stuck in processing (a previous
// run died mid-claim) to pending.
func (r *BookmarkRepository) ResetStaleProcessing(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{
		"ai_processing_status": models.AIStatusProcessing,
		"updated_at":           bson.M{"$lt": olderThan},
	}, bson.M{"$set": bson.M{
		"ai_processing_status": models.AIStatusPending,
		"updated_at":           time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
