package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for text units.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Granularity identifies the kind of text an analysis operates on.
type Granularity int

const (
	// GranularityWord is a single vocabulary token.
	GranularityWord Granularity = iota + 1
	// GranularitySentence is a single sentence.
	GranularitySentence
	// GranularityParagraph is a paragraph of one or more sentences.
	GranularityParagraph
	// GranularityText is a free-form block of text.
	GranularityText
)

var granularityNames = map[Granularity]string{
	GranularityWord:      "word",
	GranularitySentence:  "sentence",
	GranularityParagraph: "paragraph",
	GranularityText:      "text",
}

func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// ParseGranularity converts a name such as "sentence" into a Granularity.
func ParseGranularity(name string) (Granularity, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range granularityNames {
		if n == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGranularity, name)
}

// WordVector is a vocabulary token and its embedding.
// All vectors in one index share the same dimensionality.
type WordVector struct {
	Token  string
	Vector []float32
}

// ExemplarSet holds the tokens that pull a search toward (Positive)
// or push it away from (Negative) a region of the vector space.
type ExemplarSet struct {
	Positive []string
	Negative []string
}

// Empty reports whether both sides of the set are empty.
func (e ExemplarSet) Empty() bool {
	return len(e.Positive) == 0 && len(e.Negative) == 0
}

// Contains reports whether token appears on either side of the set.
func (e ExemplarSet) Contains(token string) bool {
	for _, t := range e.Positive {
		if t == token {
			return true
		}
	}
	for _, t := range e.Negative {
		if t == token {
			return true
		}
	}
	return false
}

// RankedMatch is a vocabulary entry scored against a search target.
type RankedMatch struct {
	Token string
	Score float64 // cosine similarity in [-1, 1]
}

// TextUnit is one input text at a given granularity.
// Identity is its position in the input plus its content.
type TextUnit struct {
	ID          ID
	Index       int
	Content     string
	Granularity Granularity
}

// NewTextUnit creates a TextUnit with a content-derived ID.
func NewTextUnit(index int, content string, granularity Granularity) TextUnit {
	return TextUnit{
		ID:          IDFromContent(content),
		Index:       index,
		Content:     content,
		Granularity: granularity,
	}
}

// NewTextUnits wraps each text in a TextUnit, preserving input order.
func NewTextUnits(texts []string, granularity Granularity) []TextUnit {
	units := make([]TextUnit, len(texts))
	for i, text := range texts {
		units[i] = NewTextUnit(i, text, granularity)
	}
	return units
}

// PairwiseScore is the similarity between the units at positions A and B, A < B.
type PairwiseScore struct {
	A     int
	B     int
	Score float64
}

// SimilarityMatrix holds the upper triangle of a symmetric similarity matrix.
// Scores are ordered (0,1), (0,2), ... (n-2,n-1).
type SimilarityMatrix struct {
	Units  []TextUnit
	Scores []PairwiseScore
}

// Size returns the number of units in the matrix.
func (m *SimilarityMatrix) Size() int {
	return len(m.Units)
}

// Score returns the similarity between the units at positions a and b.
// The lookup is symmetric; the diagonal is not stored.
func (m *SimilarityMatrix) Score(a, b int) (float64, error) {
	n := m.Size()
	if a == b || a < 0 || b < 0 || a >= n || b >= n {
		return 0, fmt.Errorf("%w: (%d, %d) in matrix of size %d", ErrInvalidPair, a, b, n)
	}
	if a > b {
		a, b = b, a
	}
	return m.Scores[PairOffset(n, a, b)].Score, nil
}

// PairOffset returns the position of pair (a, b), a < b, in the row-major
// upper triangle of an n×n matrix.
func PairOffset(n, a, b int) int {
	return a*(2*n-a-1)/2 + (b - a - 1)
}

// PairCount returns the number of unordered pairs among n units.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Stage names a step of the qualitative profiling pipeline.
type Stage string

const (
	StageSentiment Stage = "sentiment"
	StageTheme     Stage = "theme"
	StageTopic     Stage = "topic"
	StageLexical   Stage = "lexical"
)

// Stages lists the profiling stages in execution order.
var Stages = []Stage{StageSentiment, StageTheme, StageTopic, StageLexical}

// Label is a classifier output with its confidence in [0, 1].
type Label struct {
	Label      string
	Confidence float64
}

// LexicalMetrics are counts and ratios computed directly from text.
type LexicalMetrics struct {
	WordCount     int
	SentenceCount int
	LineCount     int
	Complexity    float64 // words per sentence
	Readability   float64 // words per line
}

// QualitativeProfile is the fused result of all profiling stages for one unit.
// A nil Sentiment or Theme, or nil Topics, means that stage did not produce a result.
type QualitativeProfile struct {
	Unit         TextUnit
	Sentiment    *Label
	Theme        *string
	Topics       []Label
	Lexical      LexicalMetrics
	FailedStages []Stage
}

// Complete reports whether every stage produced a result.
func (p *QualitativeProfile) Complete() bool {
	return len(p.FailedStages) == 0
}
