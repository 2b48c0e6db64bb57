// Package vecmath provides the small set of float32 vector operations the
// derivation pipeline needs: cosine similarity, normalization, and mean
// pooling. Embedding vectors are unit-normalized float32 slices.
package vecmath

import "math"

// Cosine returns the cosine similarity between two vectors. Vectors of
// different lengths are compared over the shorter prefix; zero vectors
// yield 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64

	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize scales a vector to unit length in place and returns it.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}

// Mean returns the element-wise mean of the given vectors. Returns nil for
// an empty input. All vectors must have the same length as the first.
func Mean(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}

	out := make([]float32, len(vecs[0]))

	for _, vec := range vecs {
		for i := range out {
			if i < len(vec) {
				out[i] += vec[i]
			}
		}
	}

	inv := 1 / float32(len(vecs))
	for i := range out {
		out[i] *= inv
	}

	return out
}

// MeanPairwiseCosine returns the mean cosine similarity over all unordered
// pairs. Returns 1.0 for zero or one vector, matching the coherence
// convention for singleton clusters.
func MeanPairwiseCosine(vecs [][]float32) float64 {
	if len(vecs) < 2 {
		return 1.0
	}

	var sum float64

	var pairs int

	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			sum += Cosine(vecs[i], vecs[j])
			pairs++
		}
	}

	return sum / float64(pairs)
}
