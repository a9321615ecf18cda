package embedding

import (
	"context"
	"math"

	"github.com/recruitflow/recruitflow/internal/fault"
)

// Vector is a fixed-length numeric representation of a text. All vectors
// produced by one Provider instance share the same dimension.
type Vector []float32

// Provider converts free text into vectors. Implementations must preserve
// input order in EmbedBatch and return one vector per input. The empty
// string is legal input and yields a valid vector, not an error.
type Provider interface {
	Embed(ctx context.Context, text string) (Vector, error)
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)
	Dimension() int
}

// Cosine returns the cosine similarity between a and b: dot(a,b)/(|a|*|b|).
// Vectors of different lengths fail with a dimension mismatch. When either
// vector has zero norm the similarity is defined as 0, since a zero vector
// carries no directional information.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fault.Newf(fault.DimensionMismatch, "vector dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
