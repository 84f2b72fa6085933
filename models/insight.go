package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Insight is the AI-derived artifact of a bookmark, one-to-one by
// bookmark_id. It is always written whole; a reanalysis overwrites the
// previous document rather than appending.
// Collection: insights
type Insight struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	BookmarkID   primitive.ObjectID `bson:"bookmark_id" json:"bookmark_id"`
	AILogID      primitive.ObjectID `bson:"ai_log_id,omitempty" json:"ai_log_id"`
	Summary      string             `bson:"summary" json:"summary"`
	Sentiment    int                `bson:"sentiment" json:"sentiment"`
	DepthLevel   int                `bson:"depth_level" json:"depth_level"`
	Tags         []string           `bson:"tags" json:"tags"`
	RelatedLinks []string           `bson:"related_links" json:"related_links"`
	ModelName    string             `bson:"model_name" json:"model_name"`
	GeneratedAt  time.Time          `bson:"generated_at" json:"generated_at"`
}
