package llm_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"linkhive/llm"
)

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, llm.IsRateLimitError(nil))
	assert.False(t, llm.IsRateLimitError(errors.New("connection refused")))

	hits := []error{
		errors.New("googleapi: Error 429: Too Many Requests"),
		errors.New("rpc error: code = ResourceExhausted desc = quota exceeded"),
		fmt.Errorf("generate content: %w", errors.New("Rate limit reached")),
	}
	for _, err := range hits {
		assert.True(t, llm.IsRateLimitError(err), "expected rate-limit match for %v", err)
	}
}
