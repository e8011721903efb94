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
	"errors"
	"fmt"
)

// Analysis errors
var (
	// ErrVectorResourceNotFound indicates the vector file is absent or unreadable.
	ErrVectorResourceNotFound = errors.New("vector resource not found")

	// ErrVectorFormat indicates the vector file could not be parsed.
	ErrVectorFormat = errors.New("malformed vector resource")

	// ErrEmptyExemplarSet indicates a word search had no usable exemplars
	// or a non-positive result count.
	ErrEmptyExemplarSet = errors.New("exemplar set is empty")

	// ErrUnknownToken indicates an exemplar is not in the vocabulary.
	// It is reported as a warning, never returned as a failure.
	ErrUnknownToken = errors.New("unknown token")

	// ErrEmptyInput indicates an operation received too few texts.
	ErrEmptyInput = errors.New("empty input")

	// ErrModelInitialization indicates a model could not be constructed.
	ErrModelInitialization = errors.New("model initialization failed")

	// ErrPipelineStage indicates a profiling stage failed.
	ErrPipelineStage = errors.New("pipeline stage failed")

	// ErrEmbeddingMismatch indicates an embedder returned the wrong number
	// of vectors or vectors of differing dimensionality.
	ErrEmbeddingMismatch = errors.New("embedding result mismatch")

	// ErrInvalidGranularity indicates an unrecognized granularity name.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrInvalidPair indicates a similarity lookup outside the matrix.
	ErrInvalidPair = errors.New("invalid pair")

	// ErrInvalidLabel indicates a classifier returned an unusable label.
	ErrInvalidLabel = errors.New("invalid label")
)

// StageError records which profiling stage failed and why.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Cause)
}

// Unwrap exposes both ErrPipelineStage and the underlying cause to errors.Is.
func (e *StageError) Unwrap() []error {
	return []error{ErrPipelineStage, e.Cause}
}

// UnknownTokenError names an exemplar that was dropped from a search.
type UnknownTokenError struct {
	Token string
	Side  string // "positive" or "negative"
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown %s exemplar %q", e.Side, e.Token)
}

func (e *UnknownTokenError) Unwrap() error {
	return ErrUnknownToken
}
