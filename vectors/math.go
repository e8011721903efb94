package vectors

import "math"

// Normalize scales a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	magnitude := Norm(v)
	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of a and b over their common length.
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Cosine returns the cosine similarity of a and b.
// Returns 0 when either vector has zero norm.
func Cosine(a, b []float32) float64 {
	return CosineWithNorms(a, b, Norm(a), Norm(b))
}

// CosineWithNorms is Cosine with precomputed norms.
func CosineWithNorms(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	score := Dot(a, b) / (normA * normB)
	// Clamp rounding drift so scores stay within [-1, 1].
	return max(-1, min(1, score))
}

// Mean returns the element-wise mean of vectors, or a zero vector of
// dimension dim when vectors is empty.
func Mean(vectors [][]float32, dim int) []float32 {
	result := make([]float32, dim)
	if len(vectors) == 0 {
		return result
	}
	sums := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sums[i] += float64(v[i])
		}
	}
	n := float64(len(vectors))
	for i, s := range sums {
		result[i] = float32(s / n)
	}
	return result
}

// Subtract returns a - b element-wise.
func Subtract(a, b []float32) []float32 {
	result := make([]float32, len(a))
	for i := range a {
		result[i] = a[i]
		if i < len(b) {
			result[i] -= b[i]
		}
	}
	return result
}
