package vector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// The result is a value between -1 and 1, where 1 means the vectors are identical,
// 0 means they are orthogonal, and -1 means they are opposite.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same dimension: %d != %d", len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("one or both vectors have zero magnitude")
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Centroid returns the component-wise mean of vectors, which must all have
// the same dimension.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to average")
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
	}
	centroid := make([]float32, dim)
	for j := range sum {
		centroid[j] = float32(sum[j] / float64(len(vectors)))
	}
	return centroid, nil
}

// SimilarityMatrix returns the pairwise cosine similarity of the rows of m.
// The result is symmetric with a zero diagonal. Rows with zero magnitude are
// dissimilar to everything and negative similarities are clamped to zero, so
// every entry lies in [0, 1].
func SimilarityMatrix(m mat.Matrix) *mat.SymDense {
	r, _ := m.Dims()
	if r == 0 {
		return &mat.SymDense{}
	}

	rows := make([]*mat.VecDense, r)
	norms := make([]float64, r)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, m)
		rows[i] = mat.NewVecDense(len(row), row)
		norms[i] = mat.Norm(rows[i], 2)
	}

	sim := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			cos := mat.Dot(rows[i], rows[j]) / (norms[i] * norms[j])
			if cos < 0 {
				cos = 0
			}
			if cos > 1 {
				cos = 1
			}
			sim.SetSym(i, j, cos)
		}
	}
	return sim
}
