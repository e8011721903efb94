package report

import (
	"github.com/poiesic/semanalyzer/analogy"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/profile"
)

// WordMatch is one ranked vocabulary entry of a word report.
type WordMatch struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// WordReport is the result of an exemplar word search.
type WordReport struct {
	NearWords    []string    `json:"near_words"`
	FarWords     []string    `json:"far_words"`
	SimilarWords []WordMatch `json:"similar_words"`
	Warnings     []string    `json:"warnings,omitempty"`
}

// NewWordReport assembles a WordReport from the requested exemplars and the
// search result. The exemplars are reported as requested, including any the
// vocabulary did not know; those appear in Warnings.
func NewWordReport(set core.ExemplarSet, result *analogy.Result) *WordReport {
	r := &WordReport{
		NearWords:    nonNil(set.Positive),
		FarWords:     nonNil(set.Negative),
		SimilarWords: []WordMatch{},
	}
	if result == nil {
		return r
	}
	for _, m := range result.Matches {
		r.SimilarWords = append(r.SimilarWords, WordMatch{Word: m.Token, Similarity: m.Score})
	}
	for _, w := range result.Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	return r
}

// PairScore is the similarity between two input texts.
type PairScore struct {
	Text1      string
	Text2      string
	Similarity float64
}

// SimilarityReport is the result of comparing near and far texts of one
// granularity. Every unordered pair of the combined near+far list appears
// exactly once, in matrix order.
type SimilarityReport struct {
	Granularity core.Granularity
	Near        []string
	Far         []string
	Scores      []PairScore
}

// NewSimilarityReport assembles a SimilarityReport. The matrix must have
// been computed over near followed by far.
func NewSimilarityReport(granularity core.Granularity, near, far []string, matrix *core.SimilarityMatrix) *SimilarityReport {
	r := &SimilarityReport{
		Granularity: granularity,
		Near:        nonNil(near),
		Far:         nonNil(far),
		Scores:      []PairScore{},
	}
	if matrix == nil {
		return r
	}
	for _, s := range matrix.Scores {
		r.Scores = append(r.Scores, PairScore{
			Text1:      matrix.Units[s.A].Content,
			Text2:      matrix.Units[s.B].Content,
			Similarity: s.Score,
		})
	}
	return r
}

// LabelScore is a classifier label with its confidence.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// TextAnalysis is the rendered profile of one text.
// Stage results are nil when the stage failed.
type TextAnalysis struct {
	Index        int          `json:"index"`
	Text         string       `json:"text"`
	Sentiment    *LabelScore  `json:"sentiment"`
	KeyThemes    *string      `json:"key_themes"`
	MainTopics   []LabelScore `json:"main_topics"`
	Length       int          `json:"length"`
	Sentences    int          `json:"sentences"`
	Lines        int          `json:"lines"`
	Complexity   float64      `json:"complexity"`
	Readability  float64      `json:"readability"`
	FailedStages []string     `json:"failed_stages,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// ProfileReport is the result of profiling a batch of texts.
type ProfileReport struct {
	Texts    []string       `json:"texts"`
	Analyses []TextAnalysis `json:"analyses"`
}

// NewProfileReport assembles a ProfileReport from profiling outcomes,
// one analysis per outcome in outcome order.
func NewProfileReport(texts []string, outcomes []profile.Outcome) *ProfileReport {
	r := &ProfileReport{
		Texts:    nonNil(texts),
		Analyses: make([]TextAnalysis, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		a := TextAnalysis{Index: o.Index}
		if o.Index >= 0 && o.Index < len(texts) {
			a.Text = texts[o.Index]
		}
		if o.Err != nil {
			a.Error = o.Err.Error()
		}
		if p := o.Profile; p != nil {
			a.Text = p.Unit.Content
			if p.Sentiment != nil {
				a.Sentiment = &LabelScore{Label: p.Sentiment.Label, Score: p.Sentiment.Confidence}
			}
			a.KeyThemes = p.Theme
			if p.Topics != nil {
				a.MainTopics = make([]LabelScore, len(p.Topics))
				for i, t := range p.Topics {
					a.MainTopics[i] = LabelScore{Label: t.Label, Score: t.Confidence}
				}
			}
			a.Length = p.Lexical.WordCount
			a.Sentences = p.Lexical.SentenceCount
			a.Lines = p.Lexical.LineCount
			a.Complexity = p.Lexical.Complexity
			a.Readability = p.Lexical.Readability
			for _, stage := range p.FailedStages {
				a.FailedStages = append(a.FailedStages, string(stage))
			}
		}
		r.Analyses = append(r.Analyses, a)
	}
	return r
}

// Failed returns the number of analyses that reported an error.
func (r *ProfileReport) Failed() int {
	n := 0
	for _, a := range r.Analyses {
		if a.Error != "" {
			n++
		}
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
