// Package semanalyzer analyzes text at four granularities.
//
// Words are ranked against near and far exemplars in a pre-trained vector
// space. Sentences and paragraphs are compared pairwise by embedding cosine
// similarity. Whole texts are profiled for sentiment, key themes, topics and
// lexical metrics.
//
// A Session owns the models behind these operations. Vector indexes are loaded
// on first use per path and shared; the embedding and classification provider
// is built once on the first operation that needs it and released by Close.
//
//	s, err := semanalyzer.NewSession(
//	    semanalyzer.WithAIConfig(ai.NewConfig(ai.WithProvider(ai.ProviderLocal))),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	r, err := s.CompareTexts(ctx, core.GranularitySentence, near, far)
package semanalyzer
