package contentproc

import (
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// readingSpeedWPM is the assumed reading speed for the reading-time
// estimate.
const readingSpeedWPM = 225

// ProcessedContent is the plain-text reduction of a bookmarked page.
type ProcessedContent struct {
	Text               string
	ReadingTimeMinutes int
}

// ProcessContent strips markup down to plain text and estimates reading
// time. It is pure and total: empty or unparseable input produces empty
// text and zero reading time, never an error.
func ProcessContent(htmlStr string) ProcessedContent {
	if strings.TrimSpace(htmlStr) == "" {
		return ProcessedContent{}
	}

	text := strings.TrimSpace(extractText(htmlStr))
	return ProcessedContent{
		Text:               text,
		ReadingTimeMinutes: readingTimeMinutes(text),
	}
}

// extractText runs the extraction chain: readability first, trafilatura
// when readability yields nothing, GoOse as the last resort.
func extractText(htmlStr string) string {
	if text := extractWithReadability(htmlStr); text != "" {
		return text
	}
	if text := extractWithTrafilatura(htmlStr); text != "" {
		return text
	}
	return extractWithGoose(htmlStr)
}

func extractWithReadability(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return ""
	}
	return article.TextContent
}

func extractWithTrafilatura(htmlStr string) string {
	article, err := trafilatura.Extract(strings.NewReader(htmlStr), trafilatura.Options{})
	if err != nil {
		return ""
	}
	return article.ContentText
}

func extractWithGoose(htmlStr string) string {
	defer func() {
		// GoOse panics on some malformed documents
		recover()
	}()
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil || article == nil {
		return ""
	}
	return article.CleanedText
}

func readingTimeMinutes(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	// round up
	return (words + readingSpeedWPM - 1) / readingSpeedWPM
}
