// Package local provides an ai.AIProvider that runs entirely in process.
//
// The capabilities are a feature-hashing embedder,
// lexicon sentiment, a frequency-ranked extractive summarizer and a keyword
// topic labeler. Results are deterministic.
//
//	provider, err := local.NewProvider(ai.NewConfig(ai.WithProvider(ai.ProviderLocal)))
package local
