package summarizer

import (
	"sync"
	"testing"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/telemetry"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{identifier: "frequency", want: MethodFrequency},
		{identifier: "tfidf", want: MethodFrequency},
		{identifier: "graph-centrality", want: MethodGraph},
		{identifier: "TextRank", want: MethodGraph},
		{identifier: "graph", want: MethodGraph},
		{identifier: "latent-semantic", want: MethodLSA},
		{identifier: "LSA", want: MethodLSA},
		{identifier: "abstractive", want: MethodAbstractive},
		{identifier: "t5", want: MethodAbstractive},
		{identifier: "embedding-centroid", want: MethodCentroid},
		{identifier: " bert ", want: MethodCentroid},
		{identifier: "bert_extractive", want: MethodCentroid},
	}

	for _, test := range tests {
		t.Run(test.identifier, func(t *testing.T) {
			info, err := Lookup(test.identifier)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if info.Name != test.want {
				t.Errorf("Lookup(%q) = %s, want %s", test.identifier, info.Name, test.want)
			}
		})
	}
}

func TestResolveUnknownMethod(t *testing.T) {
	metrics := telemetry.NewMetricsCollector()
	registry := NewRegistry(RegistryOptions{Metrics: metrics})

	for _, identifier := range []string{"foobar", "", "pagerank"} {
		_, err := registry.Resolve(identifier)
		if !errortypes.IsUnsupportedMethodError(err) {
			t.Errorf("Resolve(%q) error = %v, want unsupported method", identifier, err)
		}
	}
	if metrics.GetCounter(telemetry.MetricRegistryMisses) != 0 {
		t.Errorf("unknown identifiers should not count as cache misses")
	}
}

func TestResolveReusesInstance(t *testing.T) {
	metrics := telemetry.NewMetricsCollector()
	registry := NewRegistry(RegistryOptions{Metrics: metrics})

	first, err := registry.Resolve("graph-centrality")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := registry.Resolve("graph-centrality")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first != second {
		t.Error("second Resolve returned a different instance")
	}

	third, err := registry.Resolve("textrank")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if third != first {
		t.Error("alias resolved to a different instance")
	}

	if got := metrics.GetCounter(telemetry.MetricRegistryMisses); got != 1 {
		t.Errorf("misses = %d, want 1", got)
	}
	if got := metrics.GetCounter(telemetry.MetricRegistryHits); got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
	if got := metrics.GetGauge(telemetry.MetricRegistrySize); got != 1 {
		t.Errorf("size = %f, want 1", got)
	}
}

func TestResolveConcurrent(t *testing.T) {
	registry := NewRegistry(RegistryOptions{})

	var wg sync.WaitGroup
	results := make([]Strategy, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := registry.Resolve(MethodLSA)
			if err != nil {
				t.Errorf("Resolve() error = %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	for i, s := range results {
		if s != results[0] {
			t.Fatalf("result %d is a different instance", i)
		}
	}
}

func TestResolveExternalMethods(t *testing.T) {
	bare := NewRegistry(RegistryOptions{})
	for _, method := range []string{MethodAbstractive, MethodCentroid} {
		_, err := bare.Resolve(method)
		if !errortypes.IsConfigError(err) {
			t.Errorf("Resolve(%s) without service error = %v, want config error", method, err)
		}
	}
	if len(bare.Loaded()) != 0 {
		t.Errorf("failed builds should not be cached, loaded = %v", bare.Loaded())
	}

	withService := NewRegistry(RegistryOptions{ModelService: providers.NewMockService(16)})
	for _, method := range []string{MethodAbstractive, MethodCentroid} {
		s, err := withService.Resolve(method)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", method, err)
		}
		if s.Name() != method {
			t.Errorf("Name() = %s, want %s", s.Name(), method)
		}
	}
}

func TestStrategyFamilies(t *testing.T) {
	registry := NewRegistry(RegistryOptions{ModelService: providers.NewMockService(16)})

	for _, info := range Methods() {
		s, err := registry.Resolve(info.Name)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", info.Name, err)
		}
		if s.Family() != info.Family {
			t.Errorf("%s family = %s, want %s", info.Name, s.Family(), info.Family)
		}
	}

	loaded := registry.Loaded()
	if len(loaded) != len(Methods()) {
		t.Errorf("Loaded() = %v", loaded)
	}
}

func TestMethodsReturnsCopy(t *testing.T) {
	list := Methods()
	list[0].Name = "changed"
	if Methods()[0].Name != MethodFrequency {
		t.Error("Methods() exposed its backing array")
	}
}

func TestStatuses(t *testing.T) {
	statuses := NewRegistry(RegistryOptions{}).Statuses()
	if len(statuses) != len(Methods()) {
		t.Fatalf("Statuses() returned %d entries", len(statuses))
	}
	for _, s := range statuses {
		if s.Available == s.External {
			t.Errorf("%s available = %v with no model service", s.Name, s.Available)
		}
	}
}
