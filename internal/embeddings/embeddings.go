package embeddings

import "context"

// Vector is a simple float64 slice wrapper.
type Vector []float64

// Embedder defines the embedding interface.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimension() int
}
