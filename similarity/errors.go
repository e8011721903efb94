package similarity

import "errors"

// ErrEmbedderRequired is returned when NewScorer is given a nil embedder.
var ErrEmbedderRequired = errors.New("embedder is required")
