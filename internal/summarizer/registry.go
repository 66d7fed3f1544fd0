package summarizer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/telemetry"
)

// Canonical method identifiers.
const (
	MethodFrequency   = "frequency"
	MethodGraph       = "graph-centrality"
	MethodLSA         = "latent-semantic"
	MethodAbstractive = "abstractive"
	MethodCentroid    = "embedding-centroid"
)

// MethodInfo describes one summarization method.
type MethodInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Aliases     []string `json:"aliases" yaml:"aliases"`
	Family      Family   `json:"family" yaml:"family"`
	External    bool     `json:"external" yaml:"external"`
	Description string   `json:"description" yaml:"description"`
}

var methods = []MethodInfo{
	{
		Name:        MethodFrequency,
		Aliases:     []string{"tfidf"},
		Family:      FamilyRanking,
		Description: "Scores sentences by the normalized frequency of their content words.",
	},
	{
		Name:        MethodGraph,
		Aliases:     []string{"textrank", "graph"},
		Family:      FamilyRanking,
		Description: "Ranks sentences by PageRank over their TF-IDF similarity graph.",
	},
	{
		Name:        MethodLSA,
		Aliases:     []string{"lsa"},
		Family:      FamilyRanking,
		Description: "Ranks sentences by their weight on the dominant latent-semantic component.",
	},
	{
		Name:        MethodAbstractive,
		Aliases:     []string{"t5"},
		Family:      FamilyGeneration,
		External:    true,
		Description: "Writes a new summary with an external language model.",
	},
	{
		Name:        MethodCentroid,
		Aliases:     []string{"bert_extractive", "bert"},
		Family:      FamilyRanking,
		External:    true,
		Description: "Selects sentences closest to the mean of their model embeddings.",
	},
}

var identifiers = func() map[string]MethodInfo {
	m := make(map[string]MethodInfo)
	for _, info := range methods {
		m[info.Name] = info
		for _, alias := range info.Aliases {
			m[alias] = info
		}
	}
	return m
}()

// Methods returns every known method in a fixed order.
func Methods() []MethodInfo {
	out := make([]MethodInfo, len(methods))
	copy(out, methods)
	return out
}

// Lookup resolves an identifier or alias, case-insensitively, to its method.
func Lookup(identifier string) (MethodInfo, error) {
	info, ok := identifiers[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return MethodInfo{}, errortypes.UnsupportedMethodError(identifier)
	}
	return info, nil
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Graph configures the graph-centrality strategy.
	Graph GraphOptions
	// ModelService backs the external methods. Nil leaves them unavailable.
	ModelService providers.ModelService
	Metrics      *telemetry.MetricsCollector
	Logger       *slog.Logger
}

// Registry resolves method identifiers to strategies. Each strategy is built
// on first use and the same instance is returned afterwards.
type Registry struct {
	opts           RegistryOptions
	logger         *slog.Logger
	strategyLogger *slog.Logger
	metrics        *telemetry.MetricsCollector
	mu             sync.Mutex
	strategies     map[string]Strategy
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	return &Registry{
		opts:           opts,
		logger:         logger.With("component", "registry"),
		strategyLogger: logger.With("component", "summarizer"),
		metrics:        metrics,
		strategies:     make(map[string]Strategy),
	}
}

// Resolve returns the cached strategy for identifier, building it on first use.
// Unknown identifiers fail with an unsupported-method error and external
// methods without a model service fail with a configuration error.
func (r *Registry) Resolve(identifier string) (Strategy, error) {
	info, err := Lookup(identifier)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.strategies[info.Name]; ok {
		r.metrics.IncrementCounter(telemetry.MetricRegistryHits, 1)
		return s, nil
	}
	r.metrics.IncrementCounter(telemetry.MetricRegistryMisses, 1)

	s, err := r.build(info)
	if err != nil {
		return nil, err
	}
	r.strategies[info.Name] = s
	r.metrics.SetGauge(telemetry.MetricRegistrySize, float64(len(r.strategies)))
	r.logger.Info("Initialized summarization strategy", "method", info.Name, "requested_as", identifier)
	return s, nil
}

func (r *Registry) build(info MethodInfo) (Strategy, error) {
	if info.External && r.opts.ModelService == nil {
		return nil, errortypes.ConfigError(errors.New("no model service configured"),
			fmt.Sprintf("method %q requires a model service", info.Name)).
			WithField("method", info.Name)
	}

	switch info.Name {
	case MethodFrequency:
		return NewFrequencyStrategy(r.strategyLogger), nil
	case MethodGraph:
		return NewGraphStrategy(r.opts.Graph, r.strategyLogger), nil
	case MethodLSA:
		return NewLSAStrategy(r.strategyLogger), nil
	case MethodAbstractive:
		return NewAbstractiveStrategy(r.opts.ModelService, r.strategyLogger), nil
	case MethodCentroid:
		return NewCentroidStrategy(r.opts.ModelService, r.strategyLogger), nil
	}
	return nil, errortypes.UnsupportedMethodError(info.Name)
}

// Loaded returns the canonical names of the strategies built so far.
func (r *Registry) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, info := range methods {
		if _, ok := r.strategies[info.Name]; ok {
			names = append(names, info.Name)
		}
	}
	return names
}

// ModelService returns the configured model service, or nil.
func (r *Registry) ModelService() providers.ModelService {
	return r.opts.ModelService
}

// MethodStatus is a method together with its availability in a registry.
type MethodStatus struct {
	MethodInfo `yaml:",inline"`
	Available  bool `json:"available" yaml:"available"`
}

// Statuses describes every known method and whether this registry can
// resolve it.
func (r *Registry) Statuses() []MethodStatus {
	out := make([]MethodStatus, 0, len(methods))
	for _, info := range Methods() {
		out = append(out, MethodStatus{MethodInfo: info, Available: r.Available(info)})
	}
	return out
}

// Available reports whether the method can be resolved with this registry's
// configuration.
func (r *Registry) Available(info MethodInfo) bool {
	return !info.External || r.opts.ModelService != nil
}
