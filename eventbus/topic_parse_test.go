package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRetryDelayFromTopicName(t *testing.T) {
	d, ok := ParseRetryDelayFromTopicName("linkhive.bookmark.events.retry.10s")
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, d)

	d, ok = ParseRetryDelayFromTopicName("linkhive.bookmark.events.retry.1m0s")
	assert.True(t, ok)
	assert.Equal(t, time.Minute, d)

	_, ok = ParseRetryDelayFromTopicName("linkhive.bookmark.events")
	assert.False(t, ok)

	_, ok = ParseRetryDelayFromTopicName("linkhive.bookmark.events.retry.")
	assert.False(t, ok)

	_, ok = ParseRetryDelayFromTopicName("linkhive.bookmark.events.retry.notaduration")
	assert.False(t, ok)
}

func TestTopicNamesRoundTrip(t *testing.T) {
	topic := NewTopic("linkhive.bookmark.events")
	for i, name := range topic.GetRetryTopics() {
		d, ok := ParseRetryDelayFromTopicName(name)
		assert.True(t, ok, name)
		assert.Equal(t, RetryDelays[i], d)
	}
	assert.Equal(t, "linkhive.bookmark.events.dlq", topic.DLQ())
}
