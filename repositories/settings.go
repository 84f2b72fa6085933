package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkhive/logger"
	"linkhive/models"
)

type SettingRepository struct {
	col *mongo.Collection
}

func NewSettingRepository(db *mongo.Database) *SettingRepository {
	return &SettingRepository{col: db.Collection("settings")}
}

// GetPromptOrDefault resolves an editable prompt by key. Missing keys
// and storage errors both fall back to the given default, so prompt
// lookup can never break an analysis run.
func (r *SettingRepository) GetPromptOrDefault(ctx context.Context, key, fallback string) string {
	var s models.Setting
	err := r.col.FindOne(ctx, bson.M{"key": key}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fallback
	}
	if err != nil {
		logger.Log.Warnf("failed to load setting %s, using default: %v", key, err)
		return fallback
	}
	if s.Value == "" {
		return fallback
	}
	return s.Value
}

// Set stores a setting value by key.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"key": key, "value": value, "updated_at": time.Now()}},
		options.Update().SetUpsert(true))
	return err
}
