package contentproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsightPayloadAliases(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"canonical keys", `{"summary":"a post","sentiment":7,"tags":["Go"],"related_links":["https://x.test/a"]}`},
		{"capitalized keys", `{"Summary":"a post","Sentiment":7,"Tags":["Go"],"relatedLinks":["https://x.test/a"]}`},
		{"score alias", `{"summary":"a post","score":7,"keywords":["Go"],"links":["https://x.test/a"]}`},
		{"numeric string", `{"summary":"a post","sentiment":"7","tags":["Go"],"related":["https://x.test/a"]}`},
		{"float sentiment", `{"summary":"a post","sentiment":7.4,"tags":["Go"],"related_links":["https://x.test/a"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := parseInsightPayload(tc.raw)
			require.True(t, ok)
			assert.Equal(t, "a post", p.Summary)
			assert.True(t, p.HasSentiment)
			assert.Equal(t, 7, p.Sentiment)
			assert.Equal(t, []string{"Go"}, p.Tags)
			assert.Equal(t, []string{"https://x.test/a"}, p.RelatedLinks)
		})
	}
}

func TestParseInsightPayloadFenced(t *testing.T) {
	raw := "```json\n{\"summary\":\"fenced\",\"sentiment\":3}\n```"
	p, ok := parseInsightPayload(raw)
	require.True(t, ok)
	assert.Equal(t, "fenced", p.Summary)
	assert.Equal(t, 3, p.Sentiment)
}

func TestParseInsightPayloadCommaSeparatedTags(t *testing.T) {
	p, ok := parseInsightPayload(`{"summary":"s","tags":"go, docker , kubernetes"}`)
	require.True(t, ok)
	assert.Equal(t, []string{"go", "docker", "kubernetes"}, p.Tags)
}

func TestParseInsightPayloadNotJSON(t *testing.T) {
	_, ok := parseInsightPayload("Sorry, I cannot analyze this page.")
	assert.False(t, ok)
}

func TestParseInsightPayloadMissingFields(t *testing.T) {
	p, ok := parseInsightPayload(`{"summary":"only a summary"}`)
	require.True(t, ok)
	assert.False(t, p.HasSentiment)
	assert.Empty(t, p.Tags)
	assert.Empty(t, p.RelatedLinks)
}

func TestClampSentiment(t *testing.T) {
	assert.Equal(t, 0, clampSentiment(-3))
	assert.Equal(t, 10, clampSentiment(42))
	assert.Equal(t, 6, clampSentiment(6))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
	assert.Equal(t, "ab", truncateRunes("ab", 5))
	assert.Equal(t, "가나", truncateRunes("가나다라", 2))
}
