package summarizer

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/vector"
	"gonum.org/v1/gonum/mat"
)

// LSAStrategy ranks sentences by the magnitude of their projection onto the
// dominant latent-semantic component of the TF-IDF matrix.
type LSAStrategy struct {
	logger *slog.Logger
}

// NewLSAStrategy creates an LSAStrategy.
func NewLSAStrategy(logger *slog.Logger) *LSAStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &LSAStrategy{logger: logger.With("method", MethodLSA)}
}

// Name returns the canonical method identifier.
func (s *LSAStrategy) Name() string { return MethodLSA }

// Family returns FamilyRanking.
func (s *LSAStrategy) Family() Family { return FamilyRanking }

// Summarize returns the NumSentences highest-scoring sentences in document order.
func (s *LSAStrategy) Summarize(_ context.Context, doc Document, opts Options) ([]string, error) {
	return guard(s.logger, MethodLSA, func() ([]string, error) {
		c := doc.Sentences
		n := opts.NumSentences
		if len(c) == 0 {
			s.logger.Warn("No sentences found in the input text, returning an empty summary")
			return []string{}, nil
		}
		if len(c) <= n || len(c) < 2 {
			return c.Texts(), nil
		}

		tfidf, err := vector.FitTransform(c.Texts())
		if err != nil {
			return nil, errortypes.ComputationError(err, "failed to vectorize sentences").
				WithField("method", MethodLSA)
		}

		components := min(n, len(c)-1)
		if components <= 0 {
			s.logger.Warn("Not enough sentences for decomposition, returning first sentences")
			return firstN(c, n), nil
		}

		scores, err := dominantProjection(tfidf.Matrix)
		if err != nil {
			return nil, errortypes.ComputationError(err, "singular value decomposition failed").
				WithField("method", MethodLSA).
				WithField("components", components)
		}

		summary := topInOrder(c, scores, n)
		s.logger.Debug("LSA summarization complete", "selected", len(summary), "components", components)
		return summary, nil
	})
}

// dominantProjection returns |U[i,0]·σ0| for each row i of m, the absolute
// coordinate of each row along the first singular direction.
func dominantProjection(m *mat.Dense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, errors.New("factorization did not converge")
	}

	values := svd.Values(nil)
	if len(values) == 0 {
		return nil, errors.New("no singular values")
	}

	var u mat.Dense
	svd.UTo(&u)

	rows, _ := u.Dims()
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = math.Abs(u.At(i, 0) * values[0])
	}
	return scores, nil
}
