package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CellWidth is the number of characters of a text kept in a table cell.
const CellWidth = 37

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// MarshalJSON names the keys after the report's granularity, for example
// near_sentences and sentence1.
func (r SimilarityReport) MarshalJSON() ([]byte, error) {
	noun := r.Granularity.String()
	pairs := make([]map[string]any, len(r.Scores))
	for i, s := range r.Scores {
		pairs[i] = map[string]any{
			noun + "1":   s.Text1,
			noun + "2":   s.Text2,
			"similarity": s.Similarity,
		}
	}
	return json.Marshal(map[string]any{
		"near_" + noun + "s": r.Near,
		"far_" + noun + "s":  r.Far,
		"similarity_scores":  pairs,
	})
}

// Truncate shortens s to CellWidth characters and marks the cut with "...".
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= CellWidth {
		return s
	}
	return string(runes[:CellWidth]) + "..."
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})
}

func title(s string) string {
	return titleStyle.Render(s) + "\n" + strings.Repeat("=", 50) + "\n"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Table renders the report for a terminal.
func (r *WordReport) Table() string {
	var b strings.Builder
	b.WriteString(title("Word Similarity Analysis"))
	if len(r.NearWords) > 0 {
		fmt.Fprintf(&b, "Near words: %s\n", strings.Join(r.NearWords, ", "))
	}
	if len(r.FarWords) > 0 {
		fmt.Fprintf(&b, "Far words: %s\n", strings.Join(r.FarWords, ", "))
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}

	t := newTable("Word", "Score")
	for _, m := range r.SimilarWords {
		t.Row(m.Word, fmt.Sprintf("%.4f", m.Similarity))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// Table renders the report for a terminal. Texts are truncated to fit.
func (r *SimilarityReport) Table() string {
	noun := capitalize(r.Granularity.String())

	var b strings.Builder
	b.WriteString(title(noun + " Similarity Analysis"))
	if len(r.Near) > 0 {
		fmt.Fprintf(&b, "Near %ss: %s\n", strings.ToLower(noun), strings.Join(r.Near, ", "))
	}
	if len(r.Far) > 0 {
		fmt.Fprintf(&b, "Far %ss: %s\n", strings.ToLower(noun), strings.Join(r.Far, ", "))
	}

	t := newTable(noun+" 1", noun+" 2", "Score")
	for _, s := range r.Scores {
		t.Row(Truncate(s.Text1), Truncate(s.Text2), fmt.Sprintf("%.4f", s.Similarity))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// Table renders the report for a terminal, one row per text.
// Failed stages are shown as "-".
func (r *ProfileReport) Table() string {
	var b strings.Builder
	b.WriteString(title("Qualitative Text Analysis"))

	t := newTable("#", "Text", "Sentiment", "Key Themes", "Top Topic", "Words", "Complexity", "Readability")
	for _, a := range r.Analyses {
		sentiment, themes, topic := "-", "-", "-"
		if a.Sentiment != nil {
			sentiment = fmt.Sprintf("%s (%.2f)", a.Sentiment.Label, a.Sentiment.Score)
		}
		if a.KeyThemes != nil {
			themes = Truncate(*a.KeyThemes)
		}
		if len(a.MainTopics) > 0 {
			topic = fmt.Sprintf("%s (%.2f)", a.MainTopics[0].Label, a.MainTopics[0].Score)
		}
		t.Row(
			fmt.Sprintf("%d", a.Index+1),
			Truncate(a.Text),
			sentiment,
			themes,
			topic,
			fmt.Sprintf("%d", a.Length),
			fmt.Sprintf("%.2f", a.Complexity),
			fmt.Sprintf("%.2f", a.Readability),
		)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, a := range r.Analyses {
		if a.Error != "" {
			fmt.Fprintf(&b, "Text %d: %s\n", a.Index+1, a.Error)
		}
	}
	return b.String()
}
