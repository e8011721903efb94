package core

import (
	"errors"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "king"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input   string
		want    Granularity
		wantErr bool
	}{
		{input: "word", want: GranularityWord},
		{input: "Sentence", want: GranularitySentence},
		{input: " paragraph ", want: GranularityParagraph},
		{input: "text", want: GranularityText},
		{input: "chapter", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGranularity(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGranularity) {
					t.Fatalf("ParseGranularity(%q) error = %v, want ErrInvalidGranularity", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGranularity(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseGranularity(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.want.String() {
				t.Errorf("String() = %q, want %q", got.String(), tt.want.String())
			}
		})
	}
}

func TestExemplarSet(t *testing.T) {
	set := ExemplarSet{Positive: []string{"king", "woman"}, Negative: []string{"man"}}
	if set.Empty() {
		t.Error("set with exemplars reported empty")
	}
	if !set.Contains("woman") || !set.Contains("man") {
		t.Error("Contains() missed an exemplar")
	}
	if set.Contains("queen") {
		t.Error("Contains() reported a non-exemplar")
	}
	if !(ExemplarSet{}).Empty() {
		t.Error("zero set should be empty")
	}
}

func TestNewTextUnits(t *testing.T) {
	units := NewTextUnits([]string{"a", "b", "a"}, GranularitySentence)
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}
	for i, u := range units {
		if u.Index != i {
			t.Errorf("unit %d has index %d", i, u.Index)
		}
		if u.Granularity != GranularitySentence {
			t.Errorf("unit %d has granularity %v", i, u.Granularity)
		}
	}
	if units[0].ID != units[2].ID {
		t.Error("duplicate content should share a content ID")
	}
}

func TestPairOffset(t *testing.T) {
	n := 5
	offset := 0
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if got := PairOffset(n, a, b); got != offset {
				t.Errorf("PairOffset(%d, %d, %d) = %d, want %d", n, a, b, got, offset)
			}
			offset++
		}
	}
	if offset != PairCount(n) {
		t.Errorf("PairCount(%d) = %d, want %d", n, PairCount(n), offset)
	}
	if PairCount(1) != 0 || PairCount(0) != 0 {
		t.Error("PairCount below 2 should be 0")
	}
}

func TestSimilarityMatrix_Score(t *testing.T) {
	m := &SimilarityMatrix{
		Units: NewTextUnits([]string{"x", "y", "z"}, GranularitySentence),
		Scores: []PairwiseScore{
			{A: 0, B: 1, Score: 0.5},
			{A: 0, B: 2, Score: -0.25},
			{A: 1, B: 2, Score: 0.75},
		},
	}

	got, err := m.Score(2, 1)
	if err != nil {
		t.Fatalf("Score(2, 1) error: %v", err)
	}
	want, _ := m.Score(1, 2)
	if got != want || got != 0.75 {
		t.Errorf("Score is not symmetric: %v vs %v", got, want)
	}

	for _, pair := range [][2]int{{1, 1}, {-1, 0}, {0, 3}} {
		if _, err := m.Score(pair[0], pair[1]); !errors.Is(err, ErrInvalidPair) {
			t.Errorf("Score(%d, %d) error = %v, want ErrInvalidPair", pair[0], pair[1], err)
		}
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("model offline")
	err := error(&StageError{Stage: StageSentiment, Cause: cause})

	if !errors.Is(err, ErrPipelineStage) {
		t.Error("StageError should match ErrPipelineStage")
	}
	if !errors.Is(err, cause) {
		t.Error("StageError should match its cause")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageSentiment {
		t.Errorf("errors.As did not recover the stage: %v", err)
	}
}

func TestUnknownTokenError(t *testing.T) {
	err := error(&UnknownTokenError{Token: "qwzx", Side: "positive"})
	if !errors.Is(err, ErrUnknownToken) {
		t.Error("UnknownTokenError should match ErrUnknownToken")
	}
	if err.Error() != `unknown positive exemplar "qwzx"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestQualitativeProfile_Complete(t *testing.T) {
	p := &QualitativeProfile{}
	if !p.Complete() {
		t.Error("profile without failed stages should be complete")
	}
	p.FailedStages = []Stage{StageTheme}
	if p.Complete() {
		t.Error("profile with failed stages should not be complete")
	}
}
