// Package vectors loads pretrained word vectors and serves them as an
// immutable, process-wide cached index.
//
// Both word2vec layouts are supported: the binary format used by the
// GoogleNews vectors and the plain-text format (with or without a
// "<count> <dim>" header line). Norms are computed once at load time so
// similarity scans only pay for dot products.
//
//	cache := vectors.NewCache()
//	index, err := cache.Load("GoogleNews-vectors-negative300.bin", vectors.WithLimit(500000))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	king, ok := index.Lookup("king")
package vectors
