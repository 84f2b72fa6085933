package dto

import (
	"time"

	"linkhive/models"
)

// CreateBookmarkRequest is the body of POST /bookmarks.
type CreateBookmarkRequest struct {
	UserID string `json:"user_id" binding:"required"`
	URL    string `json:"url" binding:"required,url"`
	Title  string `json:"title"`
}

// BookmarkDTO exposes a bookmark to API consumers.
// IDs are hex strings to keep transport simple.
type BookmarkDTO struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	URL                string      `json:"url"`
	Title              string      `json:"title"`
	AIProcessingStatus string      `json:"ai_processing_status"`
	ReadingTimeMinutes int         `json:"reading_time_minutes"`
	CreatedAt          time.Time   `json:"created_at"`
	Insight            *InsightDTO `json:"insight,omitempty"`
}

// InsightDTO is the AI analysis attached to a bookmark.
type InsightDTO struct {
	Summary      string    `json:"summary"`
	Sentiment    int       `json:"sentiment"`
	DepthLevel   int       `json:"depth_level"`
	Tags         []string  `json:"tags"`
	RelatedLinks []string  `json:"related_links"`
	ModelName    string    `json:"model_name"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// TagDTO exposes a vocabulary entry.
type TagDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	UsageCount int64  `json:"usage_count"`
}

// MigrationReportDTO summarizes a vocabulary migration run.
type MigrationReportDTO struct {
	Scanned  int `json:"scanned"`
	Renamed  int `json:"renamed"`
	Merged   int `json:"merged"`
	Skipped  int `json:"skipped"`
	Survived int `json:"survived"`
}

// UpdatePromptRequest is the body of PUT /settings/prompts/:name.
type UpdatePromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// FromBookmark maps a model to its transport shape.
func FromBookmark(b *models.Bookmark) BookmarkDTO {
	out := BookmarkDTO{
		ID:                 b.ID.Hex(),
		UserID:             b.UserID,
		URL:                b.URL,
		Title:              b.Title,
		AIProcessingStatus: string(b.AIProcessingStatus),
		ReadingTimeMinutes: b.ReadingTimeMinutes,
		CreatedAt:          b.CreatedAt,
	}
	if b.Insight != nil {
		out.Insight = &InsightDTO{
			Summary:      b.Insight.Summary,
			Sentiment:    b.Insight.Sentiment,
			DepthLevel:   b.Insight.DepthLevel,
			Tags:         b.Insight.Tags,
			RelatedLinks: b.Insight.RelatedLinks,
			ModelName:    b.Insight.ModelName,
			GeneratedAt:  b.Insight.GeneratedAt,
		}
	}
	return out
}

// FromTag maps a vocabulary entry to its transport shape.
func FromTag(t *models.Tag) TagDTO {
	return TagDTO{
		ID:         t.ID.Hex(),
		Name:       t.Name,
		Type:       string(t.Type),
		UsageCount: t.UsageCount,
	}
}
