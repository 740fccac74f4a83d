// Package embeddings turns text into vectors for the per-user document
// index. OpenAI is the default backend; a local Ollama instance works as a
// drop-in alternative.
package embeddings

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed returns one embedding per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}
