// Package tagnorm canonicalizes freeform tag labels into a shared
// vocabulary form. Everything here is pure string policy: no I/O, and
// Normalize is idempotent so already-canonical names pass through
// unchanged.
package tagnorm

import (
	"strings"
	"unicode"
)

// singularKeep lists words that end in "s" but must never be
// singularized because the trailing "s" is part of the term itself.
var singularKeep = map[string]struct{}{
	"news":       {},
	"series":     {},
	"kubernetes": {},
	"postgres":   {},
	"nodejs":     {},
	"jenkins":    {},
	"sass":       {},
	"gps":        {},
	"https":      {},
	"cors":       {},
}

// Normalize maps a raw label to its canonical form. Canonical form keeps
// only letters, digits, spaces and hyphens, collapses runs of
// whitespace, title-cases each word and conservatively singularizes the
// final word. Degenerate input yields the empty string.
func Normalize(raw string) string {
	cleaned := stripDisallowed(raw)
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	last := len(words) - 1
	words[last] = singularize(words[last])

	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// Key returns the case-insensitive comparison basis of a canonical name.
func Key(name string) string {
	return strings.ToLower(name)
}

// ProcessAITags normalizes a batch of model-generated labels: each entry
// is canonicalized, empties are dropped, and duplicates (by Key) are
// removed keeping first-seen order. len(out) <= len(in) always holds.
func ProcessAITags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		n := Normalize(r)
		if n == "" {
			continue
		}
		k := Key(n)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}

func stripDisallowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// titleWord upper-cases the first letter of each hyphen segment and
// lower-cases the rest, so "OPEN-SOURCE" and "open-source" both land on
// "Open-Source".
func titleWord(w string) string {
	segs := strings.Split(w, "-")
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		runes := []rune(strings.ToLower(seg))
		runes[0] = unicode.ToUpper(runes[0])
		segs[i] = string(runes)
	}
	return strings.Join(segs, "-")
}

// singularize strips a naive plural suffix from the final hyphen segment
// of a word. The heuristic is deliberately conservative: it only touches
// well-understood suffix shapes and leaves anything ambiguous alone.
func singularize(w string) string {
	segs := strings.Split(w, "-")
	last := len(segs) - 1
	segs[last] = singularizeSegment(segs[last])
	return strings.Join(segs, "-")
}

func singularizeSegment(s string) string {
	// titleWord recases afterwards, so working on the lowered form is
	// safe and keeps the suffix byte math honest.
	lower := strings.ToLower(s)
	if _, keep := singularKeep[lower]; keep {
		return lower
	}
	n := len(lower)

	switch {
	case n > 4 && strings.HasSuffix(lower, "sses"):
		// classes -> class
		return lower[:n-2]
	case n > 4 && strings.HasSuffix(lower, "ies"):
		// libraries -> library
		return lower[:n-3] + "y"
	case n > 3 && strings.HasSuffix(lower, "s"):
		prev := rune(lower[n-2])
		// Leave "ss", "us", "is", "os" endings and anything where the
		// "s" follows a non-letter (k8s) untouched.
		if prev == 's' || prev == 'u' || prev == 'i' || prev == 'o' {
			return lower
		}
		if !unicode.IsLetter(prev) {
			return lower
		}
		return lower[:n-1]
	default:
		return lower
	}
}
