package ai

import (
	"context"

	"github.com/poiesic/semanalyzer/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains one embedding per input, in input order,
	// including duplicates.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SentimentClassifier labels the overall sentiment of a text.
// Implementations must be thread-safe for concurrent use.
type SentimentClassifier interface {
	// ClassifySentiment returns the dominant sentiment label and its
	// confidence in [0, 1].
	ClassifySentiment(ctx context.Context, text string) (core.Label, error)
}

// Summarizer condenses a text into a short theme statement.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize returns a summary of roughly minWords to maxWords words.
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// TopicLabeler scores a text against a fixed set of candidate labels.
// Implementations must be thread-safe for concurrent use.
type TopicLabeler interface {
	// ClassifyTopics returns a confidence in [0, 1] for candidate labels.
	// Order of the result is not significant.
	ClassifyTopics(ctx context.Context, text string, labels []string) ([]core.Label, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages each capability, ensuring they share
// configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// SentimentClassifier returns the sentiment service.
	SentimentClassifier() SentimentClassifier

	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// TopicLabeler returns the zero-shot topic service.
	TopicLabeler() TopicLabeler

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
