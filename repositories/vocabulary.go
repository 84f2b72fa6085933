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

// VocabularyRepository bundles the tag and association collections for
// the vocabulary migration, which needs both inside one transaction.
// The transaction requires a replica-set MongoDB deployment.
type VocabularyRepository struct {
	client *mongo.Client
	tags   *mongo.Collection
	links  *mongo.Collection
}

func NewVocabularyRepository(client *mongo.Client, db *mongo.Database) *VocabularyRepository {
	return &VocabularyRepository{
		client: client,
		tags:   db.Collection("tags"),
		links:  db.Collection("bookmark_tags"),
	}
}

// InTransaction runs fn inside a single multi-document transaction. Any
// error aborts the transaction and every write in it.
func (r *VocabularyRepository) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *VocabularyRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	cur, err := r.tags.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
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

func (r *VocabularyRepository) RenameTag(ctx context.Context, id primitive.ObjectID, name, nameKey string) error {
	_, err := r.tags.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_key":   nameKey,
		"updated_at": time.Now(),
	}})
	return err
}

func (r *VocabularyRepository) DeleteTag(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.tags.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *VocabularyRepository) SetUsageCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	_, err := r.tags.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"usage_count": count,
		"updated_at":  time.Now(),
	}})
	return err
}

func (r *VocabularyRepository) ListAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) ([]models.BookmarkTag, error) {
	cur, err := r.links.Find(ctx, bson.M{"tag_id": tagID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BookmarkTag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertAssociation creates the pair if absent, keeping the
// (bookmark, tag) uniqueness invariant while repointing collapsed tags.
func (r *VocabularyRepository) UpsertAssociation(ctx context.Context, bookmarkID, tagID primitive.ObjectID) error {
	_, err := r.links.UpdateOne(ctx,
		bson.M{"bookmark_id": bookmarkID, "tag_id": tagID},
		bson.M{"$setOnInsert": bson.M{
			"bookmark_id": bookmarkID,
			"tag_id":      tagID,
			"created_at":  time.Now(),
		}},
		options.Update().SetUpsert(true))
	return err
}

func (r *VocabularyRepository) DeleteAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) error {
	_, err := r.links.DeleteMany(ctx, bson.M{"tag_id": tagID})
	return err
}

func (r *VocabularyRepository) CountAssociations(ctx context.Context, tagID primitive.ObjectID) (int64, error) {
	return r.links.CountDocuments(ctx, bson.M{"tag_id": tagID})
}
