package analogy

import "errors"

var (
	// ErrVectorSpaceRequired is returned when a search is given no vector space.
	ErrVectorSpaceRequired = errors.New("vector space required")
)
