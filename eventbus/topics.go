package eventbus

// Global topic declarations. Kept in one place so they can later be
// replaced by configuration.

var (
	TopicBookmarkEvents = NewTopic("linkhive.bookmark.events")
)

var AllTopics = []Topic{
	TopicBookmarkEvents,
}
