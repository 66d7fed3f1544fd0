// Package vector provides the numeric primitives used to rank sentences:
// TF-IDF vectors, cosine similarity, pairwise similarity matrices and
// text embeddings.
package vector

const (
	// DefaultEmbeddingDimensions is the embedding size used by the mock embedder
	// when none is given.
	DefaultEmbeddingDimensions = 128

	// DefaultBatchSize is how many sentences are embedded per model request.
	DefaultBatchSize = 32
)

// Embedder converts text into a vector representation.
type Embedder interface {
	// CreateEmbedding converts text into a vector representation.
	CreateEmbedding(text string) ([]float32, error)

	// Initialize sets up the embedder with any required configuration.
	Initialize() error
}

// Batches splits items into consecutive chunks of at most size elements.
func Batches(items []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
