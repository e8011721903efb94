// Package analogy answers "king − man + woman ≈ ?" style queries.
//
// A search averages the positive exemplar vectors, subtracts the average of
// the negative ones, and ranks every other vocabulary entry by cosine
// similarity to the result. Only the best k candidates are kept in memory
// while the vocabulary is scanned.
//
//	engine, _ := analogy.NewEngine()
//	result, err := engine.Search(ctx, index, core.ExemplarSet{
//	    Positive: []string{"king", "woman"},
//	    Negative: []string{"man"},
//	}, 5)
package analogy
