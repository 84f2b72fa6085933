package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AIStatus is the processing state of a bookmark's AI pipeline run.
type AIStatus string

const (
	AIStatusPending    AIStatus = "pending"
	AIStatusProcessing AIStatus = "processing"
	AIStatusCompleted  AIStatus = "completed"
	AIStatusFailed     AIStatus = "failed"
)

// Bookmark represents one saved item.
// Collection: bookmarks
//
// At most one worker may hold a bookmark in "processing" at a time; the
// claim is a single atomic status flip, not a lock held across the run.
type Bookmark struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
	UserID             string             `bson:"user_id" json:"user_id"`
	URL                string             `bson:"url" json:"url"`
	Title              string             `bson:"title" json:"title"`
	AIProcessingStatus AIStatus           `bson:"ai_processing_status" json:"ai_processing_status"`
	ReadingTimeMinutes int                `bson:"reading_time_minutes" json:"reading_time_minutes"`
	Insight            *InsightSnapshot   `bson:"insight,omitempty" json:"insight,omitempty"`
}

// InsightSnapshot is the denormalized copy of the latest insight kept on
// the bookmark document for cheap list reads.
type InsightSnapshot struct {
	Summary      string    `bson:"summary" json:"summary"`
	Sentiment    int       `bson:"sentiment" json:"sentiment"`
	DepthLevel   int       `bson:"depth_level" json:"depth_level"`
	Tags         []string  `bson:"tags" json:"tags"`
	RelatedLinks []string  `bson:"related_links" json:"related_links"`
	ModelName    string    `bson:"model_name" json:"model_name"`
	GeneratedAt  time.Time `bson:"generated_at" json:"generated_at"`
}
