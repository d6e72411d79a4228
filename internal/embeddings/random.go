package embeddings

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
)

// RandomEmbedder returns vectors of uniform draws in [-bound, bound].
// The input text is never read. Draws come from the process-wide
// math/rand/v2 source, so concurrent calls need no locking.
type RandomEmbedder struct {
	dim   int
	bound float64
}

// NewRandom creates a random embedder producing dim-length vectors.
func NewRandom(dim int, bound float64) (*RandomEmbedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if bound <= 0 || math.IsNaN(bound) || math.IsInf(bound, 0) {
		return nil, fmt.Errorf("bound must be a positive finite number, got %v", bound)
	}
	return &RandomEmbedder{dim: dim, bound: bound}, nil
}

func (e *RandomEmbedder) Embed(ctx context.Context, _ string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make(Vector, e.dim)
	for i := range vec {
		vec[i] = e.bound * (2*rand.Float64() - 1)
	}
	return vec, nil
}

func (e *RandomEmbedder) Dimension() int {
	return e.dim
}

// Bound returns the half-width of the sampling interval.
func (e *RandomEmbedder) Bound() float64 {
	return e.bound
}

var _ Embedder = (*RandomEmbedder)(nil)
