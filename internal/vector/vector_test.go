package vector

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const epsilon = 1e-9

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		a         []float32
		b         []float32
		expected  float64
		expectErr bool
	}{
		{name: "identical vectors", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expected: 1},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, expected: 0},
		{name: "opposite vectors", a: []float32{1, 2}, b: []float32{-1, -2}, expected: -1},
		{name: "different dimensions", a: []float32{1, 2}, b: []float32{1, 2, 3}, expectErr: true},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 2}, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := CosineSimilarity(test.a, test.b)
			if test.expectErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(result-test.expected) > 1e-6 {
				t.Errorf("Expected %f, got %f", test.expected, result)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	got, err := Centroid([][]float32{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("Centroid() error = %v", err)
	}
	if !reflect.DeepEqual(got, []float32{2, 3}) {
		t.Errorf("Centroid() = %v, want [2 3]", got)
	}

	if _, err := Centroid(nil); err == nil {
		t.Errorf("Centroid(nil) expected error")
	}
	if _, err := Centroid([][]float32{{1}, {1, 2}}); err == nil {
		t.Errorf("Centroid() with ragged input expected error")
	}
}

func TestFitTransform(t *testing.T) {
	docs := []string{"the cat sat", "the dog sat", "a"}

	model, err := FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	wantVocab := []string{"cat", "dog", "sat", "the"}
	if !reflect.DeepEqual(model.Vocabulary, wantVocab) {
		t.Errorf("Vocabulary = %v, want %v", model.Vocabulary, wantVocab)
	}

	// "sat" appears in 2 of 3 documents.
	wantIDF := math.Log(4.0/3.0) + 1
	if math.Abs(model.IDF[2]-wantIDF) > epsilon {
		t.Errorf("IDF[sat] = %f, want %f", model.IDF[2], wantIDF)
	}

	for i := 0; i < 2; i++ {
		norm := mat.Norm(model.Matrix.RowView(i), 2)
		if math.Abs(norm-1) > epsilon {
			t.Errorf("row %d norm = %f, want 1", i, norm)
		}
	}
	if norm := mat.Norm(model.Matrix.RowView(2), 2); norm != 0 {
		t.Errorf("row without terms has norm %f, want 0", norm)
	}
}

func TestFitTransformEmptyVocabulary(t *testing.T) {
	_, err := FitTransform([]string{"a", "! ?"})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("FitTransform() error = %v, want ErrEmptyVocabulary", err)
	}
}

func TestSimilarityMatrix(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 0,
		1, 1,
		0, 0,
	})

	sim := SimilarityMatrix(m)
	if n := sim.SymmetricDim(); n != 3 {
		t.Fatalf("SymmetricDim() = %d, want 3", n)
	}

	for i := 0; i < 3; i++ {
		if sim.At(i, i) != 0 {
			t.Errorf("diagonal (%d,%d) = %f, want 0", i, i, sim.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if sim.At(i, j) != sim.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			if sim.At(i, j) < 0 || sim.At(i, j) > 1 {
				t.Errorf("entry (%d,%d) = %f out of range", i, j, sim.At(i, j))
			}
		}
	}

	if got, want := sim.At(0, 1), 1/math.Sqrt2; math.Abs(got-want) > epsilon {
		t.Errorf("sim(0,1) = %f, want %f", got, want)
	}
	if sim.At(0, 2) != 0 {
		t.Errorf("zero row should be dissimilar, got %f", sim.At(0, 2))
	}

	if empty := SimilarityMatrix(mat.NewDense(1, 1, nil)); empty.SymmetricDim() != 1 {
		t.Errorf("single row matrix should have dimension 1")
	}
}

func TestMockEmbedder(t *testing.T) {
	e := NewMockEmbedder(0)
	if e.Dimensions() != DefaultEmbeddingDimensions {
		t.Errorf("Dimensions() = %d, want default", e.Dimensions())
	}

	a, _ := e.CreateEmbedding("solar eclipse over the ocean")
	b, _ := e.CreateEmbedding("solar eclipse over the ocean")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("embeddings of identical text differ")
	}

	var sumSquares float64
	for _, v := range a {
		sumSquares += float64(v) * float64(v)
	}
	if math.Abs(sumSquares-1) > 1e-4 {
		t.Errorf("embedding is not unit length: %f", sumSquares)
	}

	related, _ := e.CreateEmbedding("a solar eclipse")
	unrelated, _ := e.CreateEmbedding("quarterly revenue report")
	simRelated, _ := CosineSimilarity(a, related)
	simUnrelated, _ := CosineSimilarity(a, unrelated)
	if simRelated <= simUnrelated {
		t.Errorf("shared words should be closer: related=%f unrelated=%f", simRelated, simUnrelated)
	}

	empty, _ := e.CreateEmbedding("...")
	for _, v := range empty {
		if v != 0 {
			t.Fatalf("text without words should embed to zero vector")
		}
	}
}

func TestBatches(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		size  int
		want  [][]string
	}{
		{name: "empty", items: nil, size: 2, want: nil},
		{name: "even split", items: []string{"a", "b", "c", "d"}, size: 2, want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "remainder", items: []string{"a", "b", "c"}, size: 2, want: [][]string{{"a", "b"}, {"c"}}},
		{name: "default size", items: []string{"a"}, size: 0, want: [][]string{{"a"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Batches(test.items, test.size); !reflect.DeepEqual(got, test.want) {
				t.Errorf("Batches() = %v, want %v", got, test.want)
			}
		})
	}
}
