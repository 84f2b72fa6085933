package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType names the domain events flowing through the bus.
type EventType string

const (
	BookmarkCreated    EventType = "bookmark.created"
	SyncCompleted      EventType = "bookmark.sync_completed"
	ReprocessRequested EventType = "bookmark.reprocess_requested"
)

// BaseEvent is the envelope shared by every event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "worker", "scheduler"
	Version   string    `json:"version"`
}

// GetType returns the event type.
func (e BaseEvent) GetType() EventType {
	return e.Type
}

// BookmarkCreatedEvent is published when a new bookmark is saved.
type BookmarkCreatedEvent struct {
	BaseEvent
	BookmarkID primitive.ObjectID `json:"bookmark_id"`
	UserID     string             `json:"user_id"`
	URL        string             `json:"url"`
	Title      string             `json:"title"`
}

// SyncCompletedEvent is published when an external import finishes, so
// the worker can drain the freshly created pending bookmarks.
type SyncCompletedEvent struct {
	BaseEvent
	UserID       string `json:"user_id"`
	ImportedNew  int    `json:"imported_new"`
	TotalScanned int    `json:"total_scanned"`
}

// ReprocessRequestedEvent asks the worker to flip failed bookmarks back
// to pending and run the pipeline again.
type ReprocessRequestedEvent struct {
	BaseEvent
	UserID      string `json:"user_id"`
	RequestedBy string `json:"requested_by"`
}
