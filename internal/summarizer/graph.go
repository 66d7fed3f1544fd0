package summarizer

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/vector"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// PageRank defaults.
const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// GraphOptions configures the centrality computation.
type GraphOptions struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
}

func (o GraphOptions) withDefaults() GraphOptions {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// GraphStrategy ranks sentences by weighted PageRank over their TF-IDF
// cosine-similarity graph. Similarity is computed from the original
// sentence texts, not the filtered tokens.
type GraphStrategy struct {
	opts   GraphOptions
	logger *slog.Logger
}

// NewGraphStrategy creates a GraphStrategy. Zero options take the defaults.
func NewGraphStrategy(opts GraphOptions, logger *slog.Logger) *GraphStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphStrategy{
		opts:   opts.withDefaults(),
		logger: logger.With("method", MethodGraph),
	}
}

// Name returns the canonical method identifier.
func (s *GraphStrategy) Name() string { return MethodGraph }

// Family returns FamilyRanking.
func (s *GraphStrategy) Family() Family { return FamilyRanking }

// Options returns the effective centrality options.
func (s *GraphStrategy) Options() GraphOptions { return s.opts }

// Summarize returns up to NumSentences central sentences in document order.
func (s *GraphStrategy) Summarize(_ context.Context, doc Document, opts Options) ([]string, error) {
	return guard(s.logger, MethodGraph, func() ([]string, error) {
		c := doc.Sentences
		n := opts.NumSentences
		if len(c) == 0 {
			s.logger.Warn("No sentences found in the input text, returning an empty summary")
			return []string{}, nil
		}
		if len(c) <= n {
			return c.Texts(), nil
		}

		tfidf, err := vector.FitTransform(c.Texts())
		if err != nil {
			return nil, errortypes.ComputationError(err, "failed to vectorize sentences").
				WithField("method", MethodGraph)
		}

		sim := vector.SimilarityMatrix(tfidf.Matrix)
		if sim.IsEmpty() {
			s.logger.Warn("Similarity matrix is empty, not enough sentences to build a graph")
			return []string{}, nil
		}

		scores, converged, iterations := s.rank(sim)
		if !converged {
			s.logger.Warn("PageRank did not converge, using last iterate",
				"iterations", iterations, "tolerance", s.opts.Tolerance)
		}

		summary := topTextsInOrder(c, scores, n)
		s.logger.Debug("Graph summarization complete", "selected", len(summary), "iterations", iterations)
		return summary, nil
	})
}

type neighbor struct {
	id     int
	weight float64
}

// rank builds the sentence graph from sim and returns its PageRank scores.
func (s *GraphStrategy) rank(sim *mat.SymDense) ([]float64, bool, int) {
	n := sim.SymmetricDim()

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := sim.At(i, j); w > 0 {
				g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: w})
			}
		}
	}

	return pageRank(g, n, s.opts)
}

// pageRank runs the weighted power iteration from a uniform start. Nodes
// without edges spread their mass uniformly. Neighbor lists are sorted so
// floating-point sums are evaluated in a fixed order.
func pageRank(g *simple.WeightedUndirectedGraph, n int, opts GraphOptions) ([]float64, bool, int) {
	adjacency := make([][]neighbor, n)
	outWeight := make([]float64, n)
	for i := 0; i < n; i++ {
		nodes := g.From(int64(i))
		for nodes.Next() {
			j := nodes.Node().ID()
			w, _ := g.Weight(int64(i), j)
			adjacency[i] = append(adjacency[i], neighbor{id: int(j), weight: w})
		}
		sort.Slice(adjacency[i], func(a, b int) bool { return adjacency[i][a].id < adjacency[i][b].id })
		for _, nb := range adjacency[i] {
			outWeight[i] += nb.weight
		}
	}

	size := float64(n)
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / size
	}

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		next := make([]float64, n)
		var dangling float64
		for i := 0; i < n; i++ {
			if outWeight[i] == 0 {
				dangling += x[i]
				continue
			}
			for _, nb := range adjacency[i] {
				next[nb.id] += opts.Damping * x[i] * nb.weight / outWeight[i]
			}
		}

		base := opts.Damping*dangling/size + (1-opts.Damping)/size
		var delta float64
		for i := 0; i < n; i++ {
			next[i] += base
			delta += math.Abs(next[i] - x[i])
		}
		x = next

		if delta < size*opts.Tolerance {
			return x, true, iter
		}
	}
	return x, false, opts.MaxIterations
}
