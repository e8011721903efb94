// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"sync/atomic"

	"github.com/poiesic/semanalyzer/ai"
)

// MockProvider is a test double for ai.AIProvider.
// It aggregates one mock per capability.
type MockProvider struct {
	embedder   *MockEmbedder
	sentiment  *MockSentimentClassifier
	summarizer *MockSummarizer
	topics     *MockTopicLabeler
	closed     atomic.Int32
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMockX accessors to reach concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		sentiment:  NewMockSentimentClassifier(),
		summarizer: NewMockSummarizer(),
		topics:     NewMockTopicLabeler(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil arguments are replaced with default mocks.
func NewMockProviderWithServices(
	embedder *MockEmbedder,
	sentiment *MockSentimentClassifier,
	summarizer *MockSummarizer,
	topics *MockTopicLabeler,
) *MockProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if sentiment == nil {
		sentiment = NewMockSentimentClassifier()
	}
	if summarizer == nil {
		summarizer = NewMockSummarizer()
	}
	if topics == nil {
		topics = NewMockTopicLabeler()
	}
	return &MockProvider{
		embedder:   embedder,
		sentiment:  sentiment,
		summarizer: summarizer,
		topics:     topics,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// SentimentClassifier returns the mock sentiment classifier.
func (p *MockProvider) SentimentClassifier() ai.SentimentClassifier {
	return p.sentiment
}

// Summarizer returns the mock summarizer.
func (p *MockProvider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// TopicLabeler returns the mock topic labeler.
func (p *MockProvider) TopicLabeler() ai.TopicLabeler {
	return p.topics
}

// Close records the call for assertions.
func (p *MockProvider) Close() error {
	p.closed.Add(1)
	return nil
}

// CloseCount returns how many times Close was called.
func (p *MockProvider) CloseCount() int {
	return int(p.closed.Load())
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockSentiment returns the underlying mock sentiment classifier.
func (p *MockProvider) GetMockSentiment() *MockSentimentClassifier {
	return p.sentiment
}

// GetMockSummarizer returns the underlying mock summarizer.
func (p *MockProvider) GetMockSummarizer() *MockSummarizer {
	return p.summarizer
}

// GetMockTopics returns the underlying mock topic labeler.
func (p *MockProvider) GetMockTopics() *MockTopicLabeler {
	return p.topics
}
