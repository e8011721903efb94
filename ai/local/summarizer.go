package local

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/semanalyzer/ai"
)

// Summarizer is an extractive summarizer that ranks sentences by the
// normalized frequency of their content words.
type Summarizer struct{}

var _ ai.Summarizer = (*Summarizer)(nil)

// Summarize picks the highest ranked sentences until minWords is reached,
// restores their original order and cuts the result at maxWords.
func (s *Summarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sents := sentences(text)
	if len(sents) == 0 {
		return limitWords(strings.TrimSpace(text), maxWords), nil
	}

	freq := map[string]float64{}
	for _, sent := range sents {
		for _, tok := range contentTokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sents))
	for i, sent := range sents {
		score := 0.0
		toks := tokens(sent)
		for _, tok := range toks {
			score += freq[tok]
		}
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = ranked{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	var selected []int
	words := 0
	for _, r := range scores {
		selected = append(selected, r.idx)
		words += len(strings.Fields(sents[r.idx]))
		if words >= minWords {
			break
		}
	}
	sort.Ints(selected)

	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sents[idx]
	}
	return limitWords(strings.Join(out, " "), maxWords), nil
}

func limitWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
