package local

import (
	"context"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
)

// SentimentClassifier scores text against small positive and negative
// lexicons. A negator flips the polarity of the word that follows it.
type SentimentClassifier struct{}

var _ ai.SentimentClassifier = (*SentimentClassifier)(nil)

// ClassifySentiment returns POSITIVE or NEGATIVE with a confidence that grows
// with the imbalance of lexicon hits, or NEUTRAL at 0.5 when the hits cancel.
func (s *SentimentClassifier) ClassifySentiment(ctx context.Context, text string) (core.Label, error) {
	if err := ctx.Err(); err != nil {
		return core.Label{}, err
	}

	var pos, neg int
	negate := false
	for _, tok := range tokens(text) {
		if _, ok := negators[tok]; ok {
			negate = true
			continue
		}
		_, isPos := positiveWords[tok]
		_, isNeg := negativeWords[tok]
		switch {
		case isPos && !negate, isNeg && negate:
			pos++
		case isNeg, isPos:
			neg++
		}
		negate = false
	}

	if pos == neg {
		return core.Label{Label: ai.SentimentNeutral, Confidence: 0.5}, nil
	}

	balance := float64(pos-neg) / float64(pos+neg)
	label := ai.SentimentPositive
	if balance < 0 {
		label = ai.SentimentNegative
		balance = -balance
	}
	return core.Label{Label: label, Confidence: 0.5 + balance/2}, nil
}

var negators = toSet("not", "no", "never", "nothing", "hardly", "isn't", "wasn't", "don't", "doesn't", "didn't", "can't", "won't")

var positiveWords = toSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic", "love", "loved", "lovely", "like",
	"liked", "enjoy", "enjoyed", "happy", "glad", "delight", "delightful", "pleasant", "beautiful", "best",
	"better", "brilliant", "superb", "awesome", "nice", "perfect", "success", "successful", "win", "won",
	"benefit", "improve", "improved", "hope", "hopeful", "kind", "calm", "fun", "incredible", "impressive",
	"recommend", "thrilled", "grateful", "proud", "positive", "strong", "safe", "favorite", "joy",
)

var negativeWords = toSet(
	"bad", "terrible", "awful", "horrible", "hate", "hated", "dislike", "poor", "worst", "worse", "sad",
	"angry", "upset", "disappointing", "disappointed", "boring", "ugly", "broken", "fail", "failed",
	"failure", "lose", "lost", "loss", "problem", "problems", "wrong", "pain", "painful", "fear", "afraid",
	"late", "slow", "dangerous", "cruel", "heinous", "crisis", "weak", "negative", "annoying", "rude",
	"dirty", "sick", "death", "war", "damage", "harm", "unfortunately", "miserable", "waste",
)
