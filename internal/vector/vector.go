// ABOUTME: Vector math for embeddings: L2 normalization, dot product, cosine
// ABOUTME: Stored and query vectors are unit-length, so similarity is a dot product
package vector

import "math"

// NormalizeTolerance is the allowed deviation of a unit vector's L2 norm.
const NormalizeTolerance = 0.01

// Normalize scales v to unit L2 length in place and returns it. A zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	norm := Norm(v)
	if norm == 0 {
		return v
	}
	inv := float32(1 / norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IsNormalized reports whether v has unit L2 norm within NormalizeTolerance.
func IsNormalized(v []float32) bool {
	return math.Abs(Norm(v)-1) <= NormalizeTolerance
}

// Dot returns the dot product of a and b, or 0 when lengths differ.
// For unit vectors this equals their cosine similarity.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is zero or lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}

// ClampScore clamps a similarity score to [0,1]. Floating point noise can
// push a dot product of unit vectors slightly outside the range.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
