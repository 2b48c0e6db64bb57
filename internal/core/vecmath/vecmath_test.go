package vecmath

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0, 0}, b: []float32{1, 0, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("normalized vector has squared norm %v, want 1", sum)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should stay zero, got %v", zero)
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float32{{1, 2}, {3, 4}})
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("Mean() = %v, want [2 3]", got)
	}

	if Mean(nil) != nil {
		t.Error("Mean(nil) should be nil")
	}
}

func TestMeanPairwiseCosine(t *testing.T) {
	// Singleton convention: coherence 1.0.
	if got := MeanPairwiseCosine([][]float32{{1, 0}}); got != 1.0 {
		t.Errorf("singleton coherence = %v, want 1.0", got)
	}

	// Two identical vectors: 1.0.
	if got := MeanPairwiseCosine([][]float32{{1, 0}, {1, 0}}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical pair coherence = %v, want 1.0", got)
	}

	// Identical + orthogonal: mean of {1, 0, 0} = 1/3.
	got := MeanPairwiseCosine([][]float32{{1, 0}, {1, 0}, {0, 1}})
	if math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("mixed coherence = %v, want 1/3", got)
	}
}
