package contentproc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/contentproc"
	"linkhive/llm"
)

type fakeClient struct {
	resp  string
	err   error
	calls int

	lastSystemPrompt string
	lastUserContent  string
}

func (f *fakeClient) Complete(ctx context.Context, systemPrompt, userContent string) (string, *llm.RequestLog, error) {
	f.calls++
	f.lastSystemPrompt = systemPrompt
	f.lastUserContent = userContent
	if f.err != nil {
		return "", nil, f.err
	}
	return f.resp, &llm.RequestLog{
		Response:    f.resp,
		ModelName:   "fake-model",
		GeneratedAt: time.Now(),
	}, nil
}

func TestGenerateInsightsHappyPath(t *testing.T) {
	client := &fakeClient{resp: `{"summary":"A deep dive into Go schedulers.","sentiment":8,"tags":["Go","go","Schedulers"],"related_links":["https://example.test/more"]}`}
	p := contentproc.NewProcessor(client, nil)

	longContent := make([]byte, 0, 600)
	for i := 0; i < 60; i++ {
		longContent = append(longContent, []byte("scheduler ")...)
	}

	res, err := p.GenerateInsights(context.Background(), "https://example.test/post", string(longContent), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "A deep dive into Go schedulers.", res.Summary)
	assert.Equal(t, 8, res.Sentiment)
	// model tags must come back normalized and deduplicated
	assert.Equal(t, []string{"Go", "Scheduler"}, res.Tags)
	assert.Equal(t, []string{"https://example.test/more"}, res.RelatedLinks)
	assert.Equal(t, "fake-model", res.ModelName)
	assert.Contains(t, client.lastUserContent, "scheduler")
}

func TestGenerateInsightsURLDirectBranch(t *testing.T) {
	client := &fakeClient{resp: `{"summary":"s","sentiment":5}`}
	p := contentproc.NewProcessor(client, nil)

	_, err := p.GenerateInsights(context.Background(), "https://example.test/post", "too short", 1, "")
	require.NoError(t, err)
	assert.Contains(t, client.lastUserContent, "https://example.test/post")
	assert.NotContains(t, client.lastUserContent, "too short")
}

func TestGenerateInsightsUpstreamFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}
	p := contentproc.NewProcessor(client, nil)

	res, err := p.GenerateInsights(context.Background(), "https://down.test", "", 1, "")
	assert.Error(t, err)

	// the result stays well-formed so the batch loop is never interrupted
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Summary)
	assert.GreaterOrEqual(t, res.Sentiment, 0)
	assert.LessOrEqual(t, res.Sentiment, 10)
	assert.NotNil(t, res.Tags)
	assert.NotNil(t, res.RelatedLinks)
}

func TestGenerateInsightsUnparseableResponse(t *testing.T) {
	client := &fakeClient{resp: "I could not produce JSON but here is a description of the page."}
	p := contentproc.NewProcessor(client, nil)

	res, err := p.GenerateInsights(context.Background(), "https://example.test", "", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "I could not produce JSON but here is a description of the page.", res.Summary)
	assert.Equal(t, 5, res.Sentiment)
	assert.Empty(t, res.Tags)
	assert.Empty(t, res.RelatedLinks)
}

func TestGenerateInsightsSentimentClamped(t *testing.T) {
	client := &fakeClient{resp: `{"summary":"s","sentiment":97,"tags":[]}`}
	p := contentproc.NewProcessor(client, nil)

	res, err := p.GenerateInsights(context.Background(), "https://example.test", "", 1, "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Sentiment)
}

func TestGenerateInsightsCustomPrompt(t *testing.T) {
	client := &fakeClient{resp: `{"summary":"s"}`}
	p := contentproc.NewProcessor(client, nil)

	_, err := p.GenerateInsights(context.Background(), "https://example.test", "", 1, "my custom instruction")
	require.NoError(t, err)
	assert.Equal(t, "my custom instruction", client.lastSystemPrompt)
}

func TestGenerateTags(t *testing.T) {
	client := &fakeClient{resp: `{"tags":["Docker","docker","Compose"]}`}
	p := contentproc.NewProcessor(client, nil)

	tags, _, err := p.GenerateTags(context.Background(), "https://example.test", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker", "Compose"}, tags)
}

func TestGenerateTagsPlainTextFallback(t *testing.T) {
	client := &fakeClient{resp: "docker, compose\nkubernetes"}
	p := contentproc.NewProcessor(client, nil)

	tags, _, err := p.GenerateTags(context.Background(), "https://example.test", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker", "Compose", "Kubernetes"}, tags)
}

func TestSummarizeContent(t *testing.T) {
	client := &fakeClient{resp: `{"summary":"short version"}`}
	p := contentproc.NewProcessor(client, nil)

	s, _, err := p.SummarizeContent(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "short version", s)
}
