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
	"linkhive/tagnorm"
)

type TagRepository struct {
	col *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{col: db.Collection("tags")}
}

// GetByKey looks up a tag by its canonical name key. Returns (nil, nil)
// when the tag does not exist.
func (r *TagRepository) GetByKey(ctx context.Context, key string) (*models.Tag, error) {
	var t models.Tag
	err := r.col.FindOne(ctx, bson.M{"name_key": key}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tag. name must already be canonical. A concurrent
// insert of the same key is resolved by re-reading the winner, so two
// workers creating the same tag both end up with the same row.
func (r *TagRepository) Create(ctx context.Context, name string, typ models.TagType) (*models.Tag, error) {
	now := time.Now()
	t := models.Tag{
		CreatedAt:  now,
		UpdatedAt:  now,
		Name:       name,
		NameKey:    tagnorm.Key(name),
		Type:       typ,
		UsageCount: 0,
	}
	res, err := r.col.InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return r.GetByKey(ctx, t.NameKey)
	}
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return &t, nil
}

// IncrementUsage adjusts a tag's usage counter by delta.
func (r *TagRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID, delta int64) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"usage_count": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

// List returns the whole vocabulary ordered by descending usage.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "usage_count", Value: -1}, {Key: "name_key", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
