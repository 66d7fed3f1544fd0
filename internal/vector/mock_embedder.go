package vector

import (
	"crypto/md5"
	"encoding/binary"
	"math"
	"strings"
	"unicode"
)

// MockEmbedder is an offline Embedder producing deterministic embeddings.
// Each word is hashed to a pseudo-random direction and a text's embedding is
// the normalized sum of its word directions, so texts sharing words point in
// similar directions.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder creates a new MockEmbedder with the specified dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &MockEmbedder{
		dimensions: dimensions,
	}
}

// Initialize sets up the embedder with any required configuration.
func (e *MockEmbedder) Initialize() error {
	return nil
}

// Dimensions returns the embedding size.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// CreateEmbedding generates an embedding for text. The same text always
// produces the same embedding; text without words yields the zero vector.
func (e *MockEmbedder) CreateEmbedding(text string) ([]float32, error) {
	embedding := make([]float32, e.dimensions)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		e.addWordDirection(embedding, w)
	}

	normalize(embedding)
	return embedding, nil
}

func (e *MockEmbedder) addWordDirection(embedding []float32, word string) {
	hash := md5.Sum([]byte(word))
	state := binary.LittleEndian.Uint64(hash[:8]) ^ binary.LittleEndian.Uint64(hash[8:])
	for i := 0; i < e.dimensions; i++ {
		state = splitmix64(state)
		embedding[i] += float32(state%1000)/500.0 - 1.0
	}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// normalize scales v to unit length in place. Zero vectors are left unchanged.
func normalize(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	magnitude := float32(math.Sqrt(sumSquares))
	for i := range v {
		v[i] /= magnitude
	}
}
