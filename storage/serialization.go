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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// EmbeddingRecordMUS serializes a stored embedding as its dimension followed
// by that many raw float32 values.
var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (embeddingRecordMUS) Marshal(vector []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(vector), bs)
	for _, f := range vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (embeddingRecordMUS) Unmarshal(bs []byte) (vector []float32, n int, err error) {
	dim, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, fmt.Errorf("%w: dimension: %w", ErrTruncatedData, err)
	}
	if dim < 0 || dim > (len(bs)-n)/raw.Float32.Size(0) {
		return nil, n, fmt.Errorf("%w: dimension %d exceeds %d payload bytes", ErrTruncatedData, dim, len(bs)-n)
	}
	vector = make([]float32, dim)
	for i := range vector {
		f, m, err := raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, fmt.Errorf("%w: element %d: %w", ErrTruncatedData, i, err)
		}
		vector[i] = f
	}
	return vector, n, nil
}

func (embeddingRecordMUS) Size(vector []float32) (size int) {
	return varint.PositiveInt.Size(len(vector)) + len(vector)*raw.Float32.Size(0)
}

// MarshalVector serializes an embedding record to bytes.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, EmbeddingRecordMUS.Size(vector))
	EmbeddingRecordMUS.Marshal(vector, buf)
	return buf
}

// UnmarshalVector deserializes an embedding record. A payload whose length
// disagrees with the recorded dimension is rejected with ErrTruncatedData.
func UnmarshalVector(data []byte) ([]float32, error) {
	vector, n, err := EmbeddingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d-dimensional vector", ErrTruncatedData, len(data)-n, len(vector))
	}
	return vector, nil
}
