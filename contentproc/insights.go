package contentproc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"linkhive/llm"
	"linkhive/logger"
	"linkhive/tagnorm"
)

// Settings keys for the editable prompts.
const (
	SettingKeyInsightsPrompt = "prompt.insights"
	SettingKeyTagsPrompt     = "prompt.tags"
	SettingKeySummaryPrompt  = "prompt.summary"
)

// minContentLength is the threshold below which extracted text is
// considered insufficient and the URL alone is sent for analysis.
const minContentLength = 200

// maxPromptChars bounds the content portion of a completion request.
const maxPromptChars = 24000

// maxRawSummaryChars bounds the summary taken from an unparseable
// response body.
const maxRawSummaryChars = 500

// neutralSentiment is the midpoint of the [0,10] scale, used whenever
// the model gives nothing usable.
const neutralSentiment = 5

const defaultInsightsPrompt = `
You are a bookmark analysis assistant. Analyze the provided web content (or, if only a URL is given, what you know about that page) and produce a structured result.
The response MUST be a valid JSON object with four keys:

1. summary: A concise summary of the page, no more than 600 characters.
2. sentiment: An integer from 0 (very negative) to 10 (very positive) describing the overall tone of the content.
3. tags: A list of 3-7 keywords naming the specific technologies, tools, topics or concepts covered.
   - Tags MUST be short reusable terms (e.g., "Kubernetes", "React"), not phrases.
   - Remove duplicates.
4. related_links: A list of 0-5 absolute URLs to pages closely related to the content. Use an empty list when unsure.

Additional constraints:
- You MUST NOT wrap the JSON output in a markdown code block (e.g., ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string.
`

const defaultTagsPrompt = `
You are a tagging assistant. Read the provided web content and return a JSON object with a single key "tags": a list of 3-7 short keywords naming the specific technologies, tools or topics covered. Respond with ONLY the raw JSON string, no markdown fences.
`

const defaultSummaryPrompt = `
You are a summarization assistant. Read the provided web content and return a JSON object with a single key "summary": a concise summary of no more than 600 characters. Respond with ONLY the raw JSON string, no markdown fences.
`

// InsightResult is the full analysis outcome for one bookmark. It is
// always well-formed: Tags and RelatedLinks are non-nil and Sentiment is
// within [0,10] even on upstream failure.
type InsightResult struct {
	Summary      string
	Sentiment    int
	DepthLevel   int
	Tags         []string
	RelatedLinks []string
	ModelName    string
	GeneratedAt  time.Time
	Log          *llm.RequestLog
}

// PromptSource resolves an editable prompt, falling back to the given
// default when the key is absent or the settings store is unreachable.
type PromptSource interface {
	GetPromptOrDefault(ctx context.Context, key, fallback string) string
}

// Processor turns bookmark content into insights via the completion
// service.
type Processor struct {
	client  llm.Client
	prompts PromptSource
}

// NewProcessor builds a Processor. prompts may be nil, in which case the
// hardcoded defaults are used.
func NewProcessor(client llm.Client, prompts PromptSource) *Processor {
	return &Processor{client: client, prompts: prompts}
}

// GenerateInsights produces summary, sentiment, tags and related links
// for a bookmark. Content-based analysis is used when enough extracted
// text is available, otherwise the URL alone is sent.
//
// The returned result is always usable; a non-nil error only reports why
// it is degraded (so the caller can count rate-limit hits or mark the
// item failed) and never invalidates the result itself.
func (p *Processor) GenerateInsights(ctx context.Context, url, content string, depthLevel int, customPrompt string) (*InsightResult, error) {
	if depthLevel < 1 || depthLevel > 3 {
		depthLevel = 1
	}

	systemPrompt := customPrompt
	if systemPrompt == "" {
		systemPrompt = p.promptOrDefault(ctx, SettingKeyInsightsPrompt, defaultInsightsPrompt)
	}

	userContent := buildUserContent(url, content, depthLevel)

	result := &InsightResult{
		Sentiment:    neutralSentiment,
		DepthLevel:   depthLevel,
		Tags:         []string{},
		RelatedLinks: []string{},
		GeneratedAt:  time.Now(),
	}

	raw, reqLog, err := p.client.Complete(ctx, systemPrompt, userContent)
	if reqLog != nil {
		result.Log = reqLog
		result.ModelName = reqLog.ModelName
		result.GeneratedAt = reqLog.GeneratedAt
	}
	if err != nil {
		result.Summary = fmt.Sprintf("Analysis is unavailable for %s: the completion service could not be reached.", url)
		return result, fmt.Errorf("generate insights for %s: %w", url, err)
	}

	payload, ok := parseInsightPayload(raw)
	if !ok {
		// Not JSON at all: treat the raw text as the summary.
		logger.Log.Warnf("insight response for %s is not valid JSON, using raw text", url)
		result.Summary = truncateRunes(strings.TrimSpace(raw), maxRawSummaryChars)
		return result, nil
	}

	result.Summary = payload.Summary
	if payload.HasSentiment {
		result.Sentiment = clampSentiment(payload.Sentiment)
	}
	result.Tags = tagnorm.ProcessAITags(payload.Tags)
	result.RelatedLinks = cleanLinks(payload.RelatedLinks)
	return result, nil
}

// GenerateTags is the tags-only variant of GenerateInsights and shares
// its contract: the slice is always non-nil and normalized.
func (p *Processor) GenerateTags(ctx context.Context, url, content string) ([]string, *llm.RequestLog, error) {
	systemPrompt := p.promptOrDefault(ctx, SettingKeyTagsPrompt, defaultTagsPrompt)
	userContent := buildUserContent(url, content, 1)

	raw, reqLog, err := p.client.Complete(ctx, systemPrompt, userContent)
	if err != nil {
		return []string{}, reqLog, fmt.Errorf("generate tags for %s: %w", url, err)
	}

	if payload, ok := parseInsightPayload(raw); ok && len(payload.Tags) > 0 {
		return tagnorm.ProcessAITags(payload.Tags), reqLog, nil
	}

	// fall back to splitting the raw response on commas and newlines
	fields := strings.FieldsFunc(stripCodeFence(raw), func(r rune) bool {
		return r == ',' || r == '\n'
	})
	return tagnorm.ProcessAITags(fields), reqLog, nil
}

// SummarizeContent is the summary-only variant and shares the same
// call-and-defensively-parse contract.
func (p *Processor) SummarizeContent(ctx context.Context, content string) (string, *llm.RequestLog, error) {
	systemPrompt := p.promptOrDefault(ctx, SettingKeySummaryPrompt, defaultSummaryPrompt)

	raw, reqLog, err := p.client.Complete(ctx, systemPrompt, truncateRunes(content, maxPromptChars))
	if err != nil {
		return "", reqLog, fmt.Errorf("summarize content: %w", err)
	}

	if payload, ok := parseInsightPayload(raw); ok && payload.Summary != "" {
		return payload.Summary, reqLog, nil
	}
	return truncateRunes(strings.TrimSpace(raw), maxRawSummaryChars), reqLog, nil
}

func (p *Processor) promptOrDefault(ctx context.Context, key, fallback string) string {
	if p.prompts == nil {
		return fallback
	}
	return p.prompts.GetPromptOrDefault(ctx, key, fallback)
}

// buildUserContent chooses between content-based and URL-direct analysis.
// This is a single binary branch: either enough text exists or it does
// not.
func buildUserContent(url, content string, depthLevel int) string {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minContentLength {
		return fmt.Sprintf("Analyze the page at this URL based on what you know about it: %s", url)
	}

	depthHint := ""
	switch depthLevel {
	case 2:
		depthHint = "Provide a detailed summary covering the main arguments.\n"
	case 3:
		depthHint = "Provide an in-depth summary covering arguments, evidence and conclusions.\n"
	}
	return fmt.Sprintf("%sURL: %s\n\nContent:\n%s", depthHint, url, truncateRunes(trimmed, maxPromptChars))
}

func cleanLinks(links []string) []string {
	out := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" || !strings.Contains(l, "://") {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
