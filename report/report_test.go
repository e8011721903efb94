package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/analogy"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/profile"
)

func TestNewWordReport(t *testing.T) {
	set := core.ExemplarSet{Positive: []string{"king", "woman"}, Negative: []string{"man"}}
	result := &analogy.Result{
		Matches: []core.RankedMatch{
			{Token: "queen", Score: 0.71},
			{Token: "monarch", Score: 0.62},
		},
		Positive: []string{"king", "woman"},
		Negative: []string{"man"},
		Warnings: []error{&core.UnknownTokenError{Token: "zzz", Side: "positive"}},
	}

	r := NewWordReport(set, result)
	assert.Equal(t, []string{"king", "woman"}, r.NearWords)
	assert.Equal(t, []string{"man"}, r.FarWords)
	assert.Equal(t, []WordMatch{{Word: "queen", Similarity: 0.71}, {Word: "monarch", Similarity: 0.62}}, r.SimilarWords)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "zzz")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "near_words")
	assert.Contains(t, decoded, "far_words")
	words := decoded["similar_words"].([]any)
	require.Len(t, words, 2)
	assert.Equal(t, "queen", words[0].(map[string]any)["word"])
	assert.Equal(t, 0.71, words[0].(map[string]any)["similarity"])

	table := r.Table()
	assert.Contains(t, table, "Word Similarity Analysis")
	assert.Contains(t, table, "Near words: king, woman")
	assert.Contains(t, table, "queen")
	assert.Contains(t, table, "0.7100")
}

func TestNewWordReportEmpty(t *testing.T) {
	r := NewWordReport(core.ExemplarSet{Positive: []string{"a"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.Contains(t, buf.String(), `"far_words": []`)
	assert.Contains(t, buf.String(), `"similar_words": []`)
	assert.NotContains(t, buf.String(), "warnings")
}

func TestNewSimilarityReport(t *testing.T) {
	near := []string{"The cat sat.", "A cat was sitting."}
	far := []string{"Stocks fell sharply."}
	matrix := &core.SimilarityMatrix{
		Units: core.NewTextUnits(append(append([]string{}, near...), far...), core.GranularitySentence),
		Scores: []core.PairwiseScore{
			{A: 0, B: 1, Score: 0.9},
			{A: 0, B: 2, Score: 0.1},
			{A: 1, B: 2, Score: 0.2},
		},
	}

	r := NewSimilarityReport(core.GranularitySentence, near, far, matrix)
	require.Len(t, r.Scores, 3)
	assert.Equal(t, PairScore{Text1: "The cat sat.", Text2: "Stocks fell sharply.", Similarity: 0.1}, r.Scores[1])

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["near_sentences"], 2)
	assert.Len(t, decoded["far_sentences"], 1)
	scores := decoded["similarity_scores"].([]any)
	require.Len(t, scores, 3)
	first := scores[0].(map[string]any)
	assert.Equal(t, "The cat sat.", first["sentence1"])
	assert.Equal(t, "A cat was sitting.", first["sentence2"])
	assert.Equal(t, 0.9, first["similarity"])
}

func TestSimilarityReportParagraphKeys(t *testing.T) {
	r := NewSimilarityReport(core.GranularityParagraph, []string{"p1"}, nil, nil)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"near_paragraphs":["p1"]`)
	assert.Contains(t, string(data), `"far_paragraphs":[]`)
	assert.Contains(t, string(data), `"similarity_scores":[]`)
}

func TestSimilarityReportTable(t *testing.T) {
	long := strings.Repeat("x", 60)
	r := &SimilarityReport{
		Granularity: core.GranularityParagraph,
		Near:        []string{"first"},
		Scores:      []PairScore{{Text1: long, Text2: "short", Similarity: 0.5}},
	}

	table := r.Table()
	assert.Contains(t, table, "Paragraph Similarity Analysis")
	assert.Contains(t, table, "Paragraph 1")
	assert.Contains(t, table, strings.Repeat("x", CellWidth)+"...")
	assert.NotContains(t, table, strings.Repeat("x", CellWidth+1))
	assert.Contains(t, table, "0.5000")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))
	exact := strings.Repeat("a", CellWidth)
	assert.Equal(t, exact, Truncate(exact))
	assert.Equal(t, exact+"...", Truncate(exact+"b"))
	assert.Equal(t, strings.Repeat("é", CellWidth)+"...", Truncate(strings.Repeat("é", CellWidth+5)))
}

func TestNewProfileReport(t *testing.T) {
	theme := "a good day"
	texts := []string{"Good news today. Great results.", "Broken.", "Dropped."}
	outcomes := []profile.Outcome{
		{
			Index: 0,
			Profile: &core.QualitativeProfile{
				Unit:      core.NewTextUnit(0, texts[0], core.GranularityText),
				Sentiment: &core.Label{Label: "POSITIVE", Confidence: 0.9},
				Theme:     &theme,
				Topics:    []core.Label{{Label: "Business", Confidence: 0.6}, {Label: "Arts", Confidence: 0.4}},
				Lexical:   core.LexicalMetrics{WordCount: 5, SentenceCount: 2, LineCount: 1, Complexity: 2.5, Readability: 5},
			},
		},
		{
			Index: 1,
			Profile: &core.QualitativeProfile{
				Unit:         core.NewTextUnit(1, texts[1], core.GranularityText),
				Sentiment:    &core.Label{Label: "NEGATIVE", Confidence: 0.7},
				Topics:       []core.Label{{Label: "Arts", Confidence: 1}},
				Lexical:      core.LexicalMetrics{WordCount: 1, SentenceCount: 1, LineCount: 1, Complexity: 1, Readability: 1},
				FailedStages: []core.Stage{core.StageTheme},
			},
			Err: &core.StageError{Stage: core.StageTheme, Cause: errors.New("timeout")},
		},
		{
			Index: 2,
			Err:   &core.StageError{Stage: core.StageSentiment, Cause: errors.New("offline")},
		},
	}

	r := NewProfileReport(texts, outcomes)
	require.Len(t, r.Analyses, 3)
	assert.Equal(t, 2, r.Failed())

	ok := r.Analyses[0]
	assert.Equal(t, texts[0], ok.Text)
	assert.Equal(t, &LabelScore{Label: "POSITIVE", Score: 0.9}, ok.Sentiment)
	assert.Equal(t, &theme, ok.KeyThemes)
	assert.Equal(t, "Business", ok.MainTopics[0].Label)
	assert.Equal(t, 5, ok.Length)
	assert.Equal(t, 2.5, ok.Complexity)
	assert.Equal(t, 5.0, ok.Readability)
	assert.Empty(t, ok.Error)

	partial := r.Analyses[1]
	assert.Nil(t, partial.KeyThemes)
	assert.Equal(t, []string{"theme"}, partial.FailedStages)
	assert.Contains(t, partial.Error, "theme stage")

	dropped := r.Analyses[2]
	assert.Equal(t, "Dropped.", dropped.Text)
	assert.Nil(t, dropped.Sentiment)
	assert.Contains(t, dropped.Error, "offline")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.Contains(t, buf.String(), `"key_themes": "a good day"`)
	assert.Contains(t, buf.String(), `"key_themes": null`)

	table := r.Table()
	assert.Contains(t, table, "Qualitative Text Analysis")
	assert.Contains(t, table, "POSITIVE (0.90)")
	assert.Contains(t, table, "Business (0.60)")
	assert.Contains(t, table, "Text 3:")
}
