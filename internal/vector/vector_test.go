// ABOUTME: Tests for vector math helpers
// ABOUTME: Verifies normalization, dot product, and cosine similarity
package vector

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)

	if !IsNormalized(v) {
		t.Errorf("Norm after Normalize = %v, want 1.0", Norm(v))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", v)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	Normalize(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("Normalize(zero)[%d] = %v, want 0", i, x)
		}
	}
}

func TestNormalizeLargeVector(t *testing.T) {
	v := make([]float32, 768)
	for i := range v {
		v[i] = float32(i%17) - 8
	}
	Normalize(v)
	if !IsNormalized(v) {
		t.Errorf("Norm = %v, want within 0.01 of 1.0", Norm(v))
	}
}

func TestDot(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	if got := Dot(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("Dot(a, a) = %v, want 1", got)
	}
	if got := Dot(a, b); got != 0 {
		t.Errorf("Dot(a, b) = %v, want 0", got)
	}
	if got := Dot(a, []float32{1, 2}); got != 0 {
		t.Errorf("Dot with mismatched lengths = %v, want 0", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}

	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-6 {
		t.Errorf("CosineSimilarity(parallel) = %v, want 1", got)
	}
	if got := CosineSimilarity(a, []float32{0, 0, 0}); got != 0 {
		t.Errorf("CosineSimilarity with zero vector = %v, want 0", got)
	}
}

func TestDotEqualsCosineForUnitVectors(t *testing.T) {
	a := Normalize([]float32{1, 5, 2, 8})
	b := Normalize([]float32{3, 1, 7, 2})

	dot := Dot(a, b)
	cos := CosineSimilarity(a, b)
	if math.Abs(dot-cos) > 1e-6 {
		t.Errorf("Dot = %v, CosineSimilarity = %v, want equal for unit vectors", dot, cos)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.001, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.0001, 1},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
