package domain

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors, in
// [-1, 1]. Mismatched lengths, empty vectors, and zero magnitudes all yield 0 —
// a document with a bad vector degrades to keyword-only scoring instead of
// failing the whole pass.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
