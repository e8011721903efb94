package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	vector := []float32{0, 1.5, -2.25, math.MaxFloat32, float32(math.Inf(-1))}

	data := MarshalVector(vector)
	assert.Len(t, data, EmbeddingRecordMUS.Size(vector))
	assert.Len(t, data, 1+len(vector)*4, "one dimension byte then raw float32 values")

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestVectorRoundTripEmpty(t *testing.T) {
	decoded, err := UnmarshalVector(MarshalVector(nil))
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestUnmarshalVectorErrors(t *testing.T) {
	data := MarshalVector([]float32{1, 2})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "no data", data: nil},
		{name: "truncated payload", data: data[:len(data)-1]},
		{name: "trailing bytes", data: append(append([]byte{}, data...), 0, 0, 0, 0)},
		{name: "dimension wider than payload", data: append([]byte{3}, data[1:]...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalVector(tt.data)
			assert.ErrorIs(t, err, ErrTruncatedData)
		})
	}
}
