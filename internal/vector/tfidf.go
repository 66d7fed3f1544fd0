package vector

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptyVocabulary is returned when no document contains a term.
var ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain no terms")

// termRegex matches word runs of at least two characters.
var termRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TFIDF is a fitted TF-IDF model over a set of documents.
type TFIDF struct {
	// Vocabulary lists the terms in column order.
	Vocabulary []string
	// IDF holds the inverse document frequency of each column.
	IDF []float64
	// Matrix has one L2-normalized row per document.
	Matrix *mat.Dense
}

// Terms lowercases doc and returns its word runs of two or more characters.
func Terms(doc string) []string {
	return termRegex.FindAllString(strings.ToLower(doc), -1)
}

// FitTransform builds the TF-IDF matrix of docs. Term frequency is the raw
// count, idf is ln((1+n)/(1+df))+1 and each row is scaled to unit length.
// Rows of documents without terms are zero.
func FitTransform(docs []string) (*TFIDF, error) {
	termsPerDoc := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		terms := Terms(doc)
		termsPerDoc[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	column := make(map[string]int, len(vocab))
	for j, term := range vocab {
		column[term] = j
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	m := mat.NewDense(len(docs), len(vocab), nil)
	for i, terms := range termsPerDoc {
		for _, term := range terms {
			j := column[term]
			m.Set(i, j, m.At(i, j)+1)
		}
		var sumSquares float64
		for j := range vocab {
			v := m.At(i, j) * idf[j]
			m.Set(i, j, v)
			sumSquares += v * v
		}
		if sumSquares == 0 {
			continue
		}
		norm := math.Sqrt(sumSquares)
		for j := range vocab {
			m.Set(i, j, m.At(i, j)/norm)
		}
	}

	return &TFIDF{Vocabulary: vocab, IDF: idf, Matrix: m}, nil
}
