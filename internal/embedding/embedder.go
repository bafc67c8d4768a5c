package embedding

import "context"

// Embedder turns text into a fixed-length vector. Vectors from one Embedder
// are comparable with each other, not across providers.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}
