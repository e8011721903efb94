// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateWordQuery validates the inputs of a word search before any
// vector resource is touched.
//
// Validation rules:
//   - topK must be positive
//   - at least one of Positive or Negative must be non-empty
//
// NOT validated (requires the vocabulary):
//   - whether exemplar tokens exist
func ValidateWordQuery(set ExemplarSet, topK int) error {
	if topK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrEmptyExemplarSet, topK)
	}
	if set.Empty() {
		return fmt.Errorf("%w: no positive or negative exemplars", ErrEmptyExemplarSet)
	}
	return nil
}

// ValidateTexts checks that at least min texts were provided.
func ValidateTexts(texts []string, min int) error {
	if len(texts) < min {
		return fmt.Errorf("%w: need at least %d texts, got %d", ErrEmptyInput, min, len(texts))
	}
	return nil
}

// ValidateText checks that a single text has non-whitespace content.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is blank", ErrEmptyInput)
	}
	return nil
}

// ValidateLabel checks that a classifier label is named and its confidence
// lies in [0, 1].
func ValidateLabel(label Label) error {
	if strings.TrimSpace(label.Label) == "" {
		return fmt.Errorf("%w: label is empty", ErrInvalidLabel)
	}
	if math.IsNaN(label.Confidence) || label.Confidence < 0 || label.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidLabel, label.Confidence)
	}
	return nil
}
