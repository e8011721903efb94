package ai

// TopicLabels is the fixed candidate set for topic classification.
var TopicLabels = []string{
	"Politics",
	"Technology",
	"Science",
	"Arts",
	"Business",
	"Sports",
	"Health",
	"Education",
}

// Sentiment labels produced by the bundled classifiers.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)
