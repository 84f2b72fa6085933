package contentproc

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The completion service is asked for strict JSON but does not reliably
// produce it: keys drift between runs (tags/Tags/keywords), numbers come
// back as strings, and the whole payload is sometimes wrapped in a
// markdown fence. Each logical field therefore resolves through an
// ordered list of (key, coercion) candidates instead of a fixed schema.

var (
	summaryKeys   = []string{"summary", "Summary", "description", "overview"}
	sentimentKeys = []string{"sentiment", "Sentiment", "score", "sentiment_score"}
	tagsKeys      = []string{"tags", "Tags", "keywords", "labels"}
	linksKeys     = []string{"related_links", "relatedLinks", "related", "links"}
)

type insightPayload struct {
	Summary      string
	Sentiment    int
	HasSentiment bool
	Tags         []string
	RelatedLinks []string
}

// parseInsightPayload decodes the model response into an insightPayload.
// ok is false only when the payload is not JSON at all; missing or
// oddly-typed fields degrade to zero values instead.
func parseInsightPayload(raw string) (insightPayload, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &m); err != nil {
		return insightPayload{}, false
	}

	var p insightPayload
	p.Summary = firstString(m, summaryKeys)
	p.Sentiment, p.HasSentiment = firstInt(m, sentimentKeys)
	p.Tags = firstStringSlice(m, tagsKeys)
	p.RelatedLinks = firstStringSlice(m, linksKeys)
	return p, true
}

// stripCodeFence unwraps ```json ... ``` style fences the model emits
// despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language hint line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstInt(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return int(f), true
			}
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return int(f), true
			}
		}
	}
	return 0, false
}

func firstStringSlice(m map[string]any, keys []string) []string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch arr := v.(type) {
		case []any:
			out := make([]string, 0, len(arr))
			for _, item := range arr {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			// single comma-separated string
			parts := strings.Split(arr, ",")
			out := make([]string, 0, len(parts))
			for _, part := range parts {
				if s := strings.TrimSpace(part); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// clampSentiment pins a sentiment score to the [0,10] scale regardless
// of what the model returned.
func clampSentiment(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// truncateRunes bounds s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
