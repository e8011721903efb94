package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		kind    Kind
		want    []string
	}{
		{
			name:    "csv skips blank cells",
			file:    "in.csv",
			content: "id,texts\n1,First text.\n2,\n3,\"Second, with comma.\"\n",
			kind:    Texts,
			want:    []string{"First text.", "Second, with comma."},
		},
		{
			name:    "csv words column",
			file:    "in.CSV",
			content: "words\nking\nqueen\n",
			kind:    Words,
			want:    []string{"king", "queen"},
		},
		{
			name:    "json",
			file:    "in.json",
			content: `{"texts": ["First text.", "Second text."]}`,
			kind:    Texts,
			want:    []string{"First text.", "Second text."},
		},
		{
			name:    "toml",
			file:    "in.toml",
			content: "texts = [\"First text.\", \"Second text.\"]\n",
			kind:    Texts,
			want:    []string{"First text.", "Second text."},
		},
		{
			name:    "json empty array",
			file:    "in.json",
			content: `{"texts": []}`,
			kind:    Texts,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(writeFile(t, tt.file, tt.content), tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantIs  error
		wantMsg string
	}{
		{
			name:    "unsupported extension",
			file:    "in.txt",
			content: "hello",
			wantIs:  ErrUnsupportedFormat,
		},
		{
			name:    "csv missing column",
			file:    "in.csv",
			content: "words\nking\n",
			wantIs:  ErrMissingKey,
			wantMsg: "must contain a column named 'texts'",
		},
		{
			name:    "csv empty",
			file:    "in.csv",
			content: "",
			wantMsg: "no headers",
		},
		{
			name:    "json missing key",
			file:    "in.json",
			content: `{"words": ["a"]}`,
			wantIs:  ErrMissingKey,
		},
		{
			name:    "json not an array",
			file:    "in.json",
			content: `{"texts": "just one"}`,
			wantIs:  ErrNotArray,
		},
		{
			name:    "json not an object",
			file:    "in.json",
			content: `["a", "b"]`,
			wantMsg: "must contain an object",
		},
		{
			name:    "toml mixed array",
			file:    "in.toml",
			content: "texts = [\"a\", 1]\n",
			wantIs:  ErrNotArray,
		},
		{
			name:    "toml missing key",
			file:    "in.toml",
			content: "other = [\"a\"]\n",
			wantIs:  ErrMissingKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(writeFile(t, tt.file, tt.content), Texts)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "absent.json"), Texts)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
