package input

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Kind is the key or column an input file must provide.
type Kind string

const (
	Texts Kind = "texts"
	Words Kind = "words"
)

var (
	// ErrUnsupportedFormat is returned for files that are not CSV, JSON or TOML.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrMissingKey is returned when the file lacks the required key or column.
	ErrMissingKey = errors.New("missing required key")

	// ErrNotArray is returned when the required key does not hold an array of strings.
	ErrNotArray = errors.New("value must be an array of strings")
)

// Read loads the values stored under kind from a CSV, JSON or TOML file.
// The format is chosen by extension.
//
// CSV files need a header row with a column named kind; blank cells are
// skipped. JSON and TOML files need a top-level key named kind holding an
// array of strings.
func Read(path string, kind Kind) ([]string, error) {
	var (
		values []string
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		values, err = readCSV(path, kind)
	case ".json":
		values, err = readJSON(path, kind)
	case ".toml":
		values, err = readTOML(path, kind)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return values, nil
}

func readCSV(path string, kind Kind) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV file is empty or has no headers")
	}
	if err != nil {
		return nil, err
	}

	column := -1
	for i, name := range header {
		if strings.TrimSpace(name) == string(kind) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("%w: CSV file must contain a column named '%s'", ErrMissingKey, kind)
	}

	values := []string{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if column >= len(record) || strings.TrimSpace(record[column]) == "" {
			continue
		}
		values = append(values, record[column])
	}
	return values, nil
}

func readJSON(path string, kind Kind) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("JSON file must contain an object with a '%s' key: %w", kind, err)
	}
	return lookup(doc, kind, "JSON")
}

func readTOML(path string, kind Kind) ([]string, error) {
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	return lookup(doc, kind, "TOML")
}

func lookup(doc map[string]any, kind Kind, format string) ([]string, error) {
	raw, ok := doc[string(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %s file must contain a key named '%s'", ErrMissingKey, format, kind)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s value for '%s'", ErrNotArray, format, kind)
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s value for '%s' contains %T", ErrNotArray, format, kind, item)
		}
		values = append(values, s)
	}
	return values, nil
}
