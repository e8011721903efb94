package local

import (
	"regexp"
	"strings"
)

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// tokens returns the lower-cased word tokens of text.
func tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// contentTokens returns tokens with stopwords removed.
func contentTokens(text string) []string {
	raw := tokens(text)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// sentences splits text into sentences. Trailing text without terminal
// punctuation forms a final sentence.
func sentences(text string) []string {
	found := sentencePattern.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(found)+1)
	end := 0
	for _, loc := range found {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		end = loc[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

var stopwords = toSet(
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
	"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these",
	"those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into",
	"about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own",
	"same", "too", "very", "can", "will", "just", "don", "should", "now", "i", "we", "you", "he", "she",
	"they", "my", "our", "your", "his", "her", "their", "has", "have", "had", "do", "does", "did",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
