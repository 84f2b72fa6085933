package llm

import "strings"

// rateLimitMarkers are the error-text phrases the completion service is
// known to emit when throttling.
var rateLimitMarkers = []string{
	"rate limit",
	"ratelimit",
	"too many requests",
	"resource exhausted",
	"resource_exhausted",
	"resourceexhausted",
	"quota exceeded",
	"429",
}

// IsRateLimitError reports whether err looks like an upstream throttle
// response. Detection is text-based because the service surfaces limits
// through several error shapes.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
