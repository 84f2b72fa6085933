package contentproc_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"linkhive/contentproc"
)

func TestProcessContentEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		out := contentproc.ProcessContent(in)
		assert.Empty(t, out.Text)
		assert.Zero(t, out.ReadingTimeMinutes)
	}
}

func TestProcessContentStripsMarkup(t *testing.T) {
	htmlStr := `<html><head><title>t</title></head><body>
		<article><h1>Heading</h1><p>Some body text about Go concurrency patterns
		and how channels compose with select loops in long running services.</p></article>
	</body></html>`

	out := contentproc.ProcessContent(htmlStr)
	assert.Contains(t, out.Text, "Go concurrency patterns")
	assert.NotContains(t, out.Text, "<p>")
	assert.Equal(t, 1, out.ReadingTimeMinutes)
}

func TestProcessContentReadingTimeRoundsUp(t *testing.T) {
	// 300 words at 225 wpm must round up to 2 minutes
	var b strings.Builder
	b.WriteString("<html><body><article><p>")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "word%d ", i)
	}
	b.WriteString("</p></article></body></html>")

	out := contentproc.ProcessContent(b.String())
	assert.Equal(t, 2, out.ReadingTimeMinutes)
}

func TestProcessContentNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		contentproc.ProcessContent("<<<not html at all>>><div <span")
	})
}
