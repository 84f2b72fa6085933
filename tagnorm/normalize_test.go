package tagnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkhive/tagnorm"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  machine   learning ": "Machine Learning",
		"JavaScript":            "Javascript",
		"open-source":           "Open-Source",
		"libraries":             "Library",
		"classes":               "Class",
		"unit tests":            "Unit Test",
		"k8s":                   "K8s",
		"kubernetes":            "Kubernetes",
		"news":                  "News",
		"c++":                   "C",
		"devops!":               "Devops",
		"":                      "",
		"   ":                   "",
		"###":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, tagnorm.Normalize(in), "input %q", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"", "  ", "AI", "ai", " Ai ", "JavaScript", "javascript",
		"machine   learning", "Libraries", "best-practices", "k8s",
		"News", "series", "C++ Templates", "графы", "데이터베이스",
		"unit-tests", "HTTPS", "postgres",
	}
	for _, s := range samples {
		once := tagnorm.Normalize(s)
		assert.Equal(t, once, tagnorm.Normalize(once), "not idempotent for %q", s)
	}
}

func TestProcessAITags(t *testing.T) {
	out := tagnorm.ProcessAITags([]string{"AI", "ai", " Ai "})
	assert.Equal(t, []string{"Ai"}, out)
}

func TestProcessAITagsOrderAndBounds(t *testing.T) {
	in := []string{"Go", "react", "GO", "  ", "React", "gRPC", "###", "grpc"}
	out := tagnorm.ProcessAITags(in)

	assert.Equal(t, []string{"Go", "React", "Grpc"}, out)
	assert.LessOrEqual(t, len(out), len(in))

	// no two outputs may share a canonical key
	seen := map[string]struct{}{}
	for _, tag := range out {
		k := tagnorm.Key(tag)
		_, dup := seen[k]
		assert.False(t, dup, "duplicate canonical form %q", k)
		seen[k] = struct{}{}
	}
}

func TestProcessAITagsEmpty(t *testing.T) {
	assert.Empty(t, tagnorm.ProcessAITags(nil))
	assert.Empty(t, tagnorm.ProcessAITags([]string{"", "  ", "\t"}))
}
