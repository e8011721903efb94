package profile

import (
	"strings"

	"github.com/poiesic/semanalyzer/core"
)

// Lexical computes the model-free metrics of text. It never fails: ratios
// whose denominator is zero are reported as 0.
func Lexical(text string) core.LexicalMetrics {
	words := len(strings.Fields(text))
	sentences := countSegments(text, ".")
	lines := countSegments(text, "\n")

	m := core.LexicalMetrics{
		WordCount:     words,
		SentenceCount: sentences,
		LineCount:     lines,
	}
	if sentences > 0 {
		m.Complexity = float64(words) / float64(sentences)
	}
	if lines > 0 {
		m.Readability = float64(words) / float64(lines)
	}
	return m
}

// countSegments counts the non-blank pieces of text split on sep.
func countSegments(text, sep string) int {
	n := 0
	for _, segment := range strings.Split(text, sep) {
		if strings.TrimSpace(segment) != "" {
			n++
		}
	}
	return n
}

// summaryBounds picks the summary window for a text of the given length.
func summaryBounds(wordCount int) (minWords, maxWords int) {
	if wordCount > LongTextWords {
		return 10, 30
	}
	return 5, 10
}
