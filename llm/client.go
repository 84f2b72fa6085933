// Package llm wraps the external completion service. Callers treat it as
// a black-box text completer: one system prompt, one user payload, one
// raw text response.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"linkhive/config"
)

// RequestLog captures per-call metadata for the ai_logs collection.
type RequestLog struct {
	Prompt       string     `json:"prompt"`
	Response     string     `json:"response"`
	LatencyMs    int64      `json:"latency_ms"`
	TokenUsage   TokenUsage `json:"token_usage"`
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// Client is the completion-service contract consumed by the pipeline.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, *RequestLog, error)
}

// GeminiClient talks to the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	modelName string
	timeout   time.Duration
}

func NewGeminiClient(cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.Provider != "" && cfg.Provider != "gemini" && cfg.Provider != "google" {
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiClient{
		modelName: modelName,
		timeout:   cfg.RequestTimeout(),
	}, nil
}

// Complete sends one completion request. The call is bounded by the
// configured request timeout so a hung upstream cannot stall a worker
// slot indefinitely.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userContent string) (string, *RequestLog, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return "", nil, err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userContent),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		},
	)
	if err != nil {
		return "", nil, err
	}

	reqLog := &RequestLog{
		Prompt:      fmt.Sprintf("%s\n\n%s", systemPrompt, userContent),
		Response:    result.Text(),
		LatencyMs:   time.Since(startTime).Milliseconds(),
		ModelName:   c.modelName,
		GeneratedAt: time.Now(),
	}
	reqLog.ModelVersion = result.ModelVersion
	if result.UsageMetadata != nil {
		reqLog.TokenUsage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}

	return result.Text(), reqLog, nil
}
