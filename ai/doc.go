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


// Package ai provides abstractions for the model capabilities used in semanalyzer.
//
// Analysis code depends only on the narrow interfaces defined here, never on a
// concrete model, so every capability can be swapped or replaced by a test double.
//
// # Capabilities
//
//   - Embedder: Generates vector embeddings from text
//   - SentimentClassifier: Labels the sentiment of a text
//   - Summarizer: Produces a short theme summary within word bounds
//   - TopicLabeler: Scores a text against candidate topic labels
//   - AIProvider: Aggregates the capabilities for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible services via langchaingo
//   - ai/local: Offline heuristics requiring no model server
//   - ai/cache: An Embedder decorator that persists embeddings in BadgerDB
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, local.NewProvider, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockSummarizer)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (CallCount, Reset, etc.).
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	label, err := provider.SentimentClassifier().ClassifySentiment(ctx, "What a lovely day")
//	topics, err := provider.TopicLabeler().ClassifyTopics(ctx, text, ai.TopicLabels)
package ai
