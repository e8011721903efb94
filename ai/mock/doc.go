// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of every ai capability and of
// ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
// All mocks are safe for concurrent use, so they can back worker-pool tests.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	sentiment := mock.NewMockSentimentClassifier()
//	sentiment.ClassifySentimentFunc = func(ctx context.Context, text string) (core.Label, error) {
//	    return core.Label{}, errors.New("model offline")
//	}
//
//	// Check call counts
//	count := sentiment.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockSentimentClassifier: POSITIVE with confidence 0.75
//   - MockSummarizer: The first maxWords words of the text
//   - MockTopicLabeler: Equal confidence for every candidate label
//   - MockProvider: Aggregates one of each
package mock
