package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.5}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors: got %f, want 1.0", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	got := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	if math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal vectors: got %f, want 0", got)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	got := CosineSimilarity([]float32{1, 2}, []float32{-1, -2})
	if math.Abs(got+1.0) > 1e-9 {
		t.Errorf("opposite vectors: got %f, want -1.0", got)
	}
}

func TestCosineSimilarity_DegradesToZero(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"both nil", nil, nil},
		{"a nil", nil, []float32{1, 2}},
		{"b nil", []float32{1, 2}, nil},
		{"length mismatch", []float32{1, 2, 3}, []float32{1, 2}},
		{"zero magnitude a", []float32{0, 0}, []float32{1, 2}},
		{"zero magnitude b", []float32{1, 2}, []float32{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("got %f, want 0", got)
			}
		})
	}
}

func TestEmbeddingText_CapsBody(t *testing.T) {
	long := make([]byte, embeddingBodyLimit*2)
	for i := range long {
		long[i] = 'x'
	}
	doc := KnowledgeDocument{Title: "t", Summary: "s", Body: string(long)}

	text := doc.EmbeddingText()
	want := len("t\ns\n") + embeddingBodyLimit
	if len(text) != want {
		t.Errorf("len = %d, want %d", len(text), want)
	}
}

func TestEmbeddingText_SkipsEmptyFields(t *testing.T) {
	doc := KnowledgeDocument{Title: "only title"}
	if got := doc.EmbeddingText(); got != "only title" {
		t.Errorf("got %q, want %q", got, "only title")
	}
}
