// Package similarity scores every unordered pair in a set of text units by
// the cosine similarity of their embeddings.
//
// The embedder is called once per computation with all texts in input
// order, so embedding cost grows linearly while scoring covers n(n-1)/2
// pairs. Each pair is scored exactly once and the lookup on the resulting
// core.SimilarityMatrix is symmetric.
//
//	scorer, err := similarity.NewScorer(provider.Embedder(), similarity.WithWorkers(4))
//	defer scorer.Release()
//	matrix, err := scorer.Compute(ctx, []string{"a cat", "a kitten", "a truck"})
package similarity
