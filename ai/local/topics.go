package local

import (
	"context"
	"strings"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
)

// TopicLabeler scores candidate labels by counting topic keywords. Labels
// without a keyword list never match.
type TopicLabeler struct{}

var _ ai.TopicLabeler = (*TopicLabeler)(nil)

// ClassifyTopics returns each label's share of keyword hits. When nothing
// matches, the probability mass is spread evenly.
func (t *TopicLabeler) ClassifyTopics(ctx context.Context, text string, labels []string) ([]core.Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make([]int, len(labels))
	total := 0
	for _, tok := range tokens(text) {
		for i, label := range labels {
			if _, ok := topicKeywords[strings.ToLower(label)][tok]; ok {
				hits[i]++
				total++
			}
		}
	}

	result := make([]core.Label, len(labels))
	for i, label := range labels {
		confidence := 0.0
		switch {
		case total > 0:
			confidence = float64(hits[i]) / float64(total)
		case len(labels) > 0:
			confidence = 1 / float64(len(labels))
		}
		result[i] = core.Label{Label: label, Confidence: confidence}
	}
	return result, nil
}

var topicKeywords = map[string]map[string]struct{}{
	"politics": toSet("government", "election", "vote", "voters", "president", "minister", "parliament",
		"congress", "senate", "policy", "law", "party", "campaign", "democracy", "political", "mayor", "treaty"),
	"technology": toSet("software", "computer", "internet", "app", "data", "digital", "ai", "algorithm",
		"code", "device", "smartphone", "network", "cloud", "robot", "technology", "startup", "chip"),
	"science": toSet("research", "scientist", "scientists", "study", "experiment", "physics", "chemistry",
		"biology", "space", "planet", "theory", "discovery", "laboratory", "climate", "species", "telescope"),
	"arts": toSet("art", "music", "painting", "film", "movie", "theater", "theatre", "novel", "poetry",
		"artist", "concert", "gallery", "museum", "band", "dance", "sculpture", "song"),
	"business": toSet("market", "company", "companies", "stock", "economy", "bank", "investment", "investors",
		"profit", "revenue", "sales", "trade", "inflation", "price", "prices", "business", "rates"),
	"sports": toSet("game", "match", "team", "player", "players", "score", "league", "championship",
		"tournament", "coach", "goal", "football", "soccer", "basketball", "tennis", "season", "olympic"),
	"health": toSet("health", "doctor", "hospital", "patient", "patients", "disease", "medicine", "vaccine",
		"treatment", "virus", "diet", "exercise", "medical", "symptoms", "nurse", "therapy", "illness"),
	"education": toSet("school", "student", "students", "teacher", "teachers", "university", "college",
		"class", "classroom", "learning", "education", "course", "exam", "degree", "curriculum", "lesson"),
}
