package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/semanalyzer/core"
)

// MockSentimentClassifier is a test double for ai.SentimentClassifier.
type MockSentimentClassifier struct {
	// ClassifySentimentFunc is called by ClassifySentiment if set.
	// If nil, every text is POSITIVE with confidence 0.75.
	ClassifySentimentFunc func(ctx context.Context, text string) (core.Label, error)

	mu        sync.Mutex
	callCount int
}

// NewMockSentimentClassifier creates a mock sentiment classifier with default behavior.
func NewMockSentimentClassifier() *MockSentimentClassifier {
	return &MockSentimentClassifier{}
}

// ClassifySentiment returns the injected result or a fixed positive label.
func (m *MockSentimentClassifier) ClassifySentiment(ctx context.Context, text string) (core.Label, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ClassifySentimentFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return core.Label{Label: "POSITIVE", Confidence: 0.75}, nil
}

// CallCount returns the number of times ClassifySentiment was called.
func (m *MockSentimentClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSentimentClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ClassifySentimentFunc = nil
}

// SummarizeCall records the arguments of one Summarize call.
type SummarizeCall struct {
	Text     string
	MinWords int
	MaxWords int
}

// MockSummarizer is a test double for ai.Summarizer.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns the first maxWords words of the text.
	SummarizeFunc func(ctx context.Context, text string, minWords, maxWords int) (string, error)

	mu    sync.Mutex
	calls []SummarizeCall
}

// NewMockSummarizer creates a mock summarizer with default behavior.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns the injected result or a truncation of text.
func (m *MockSummarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, SummarizeCall{Text: text, MinWords: minWords, MaxWords: maxWords})
	fn := m.SummarizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, minWords, maxWords)
	}
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " "), nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the recorded Summarize arguments in call order.
func (m *MockSummarizer) Calls() []SummarizeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SummarizeCall(nil), m.calls...)
}

// Reset clears the call history and custom functions.
func (m *MockSummarizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.SummarizeFunc = nil
}

// MockTopicLabeler is a test double for ai.TopicLabeler.
type MockTopicLabeler struct {
	// ClassifyTopicsFunc is called by ClassifyTopics if set.
	// If nil, every label receives an equal share of confidence.
	ClassifyTopicsFunc func(ctx context.Context, text string, labels []string) ([]core.Label, error)

	mu        sync.Mutex
	callCount int
}

// NewMockTopicLabeler creates a mock topic labeler with default behavior.
func NewMockTopicLabeler() *MockTopicLabeler {
	return &MockTopicLabeler{}
}

// ClassifyTopics returns the injected result or a uniform distribution.
func (m *MockTopicLabeler) ClassifyTopics(ctx context.Context, text string, labels []string) ([]core.Label, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ClassifyTopicsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, labels)
	}
	result := make([]core.Label, len(labels))
	for i, label := range labels {
		result[i] = core.Label{Label: label, Confidence: 1 / float64(len(labels))}
	}
	return result, nil
}

// CallCount returns the number of times ClassifyTopics was called.
func (m *MockTopicLabeler) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTopicLabeler) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ClassifyTopicsFunc = nil
}
