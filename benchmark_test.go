package textsummary

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/localrivet/textsummary/internal/evaluate"
	"github.com/localrivet/textsummary/internal/resultstore"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/telemetry"
)

func TestDefaultBenchmarkPlans(t *testing.T) {
	plans := DefaultBenchmarkPlans()

	var names []string
	for _, p := range plans {
		names = append(names, p.Method)
	}
	want := []string{"frequency", "graph-centrality", "latent-semantic", "abstractive", "embedding-centroid"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("plan methods = %v, want %v", names, want)
	}

	for _, p := range plans {
		if p.Method == "abstractive" {
			if p.Options.Generation != (GenerationOptions{MaxLength: 60, MinLength: 20}) {
				t.Errorf("abstractive options = %+v", p.Options)
			}
			continue
		}
		if p.Options.NumSentences != 3 {
			t.Errorf("%s NumSentences = %d, want 3", p.Method, p.Options.NumSentences)
		}
	}
}

func TestBenchmarkWithoutModelService(t *testing.T) {
	s := newTestService(t, nil)

	report, err := s.Benchmark(context.Background(), SampleText, SampleReference, DefaultBenchmarkPlans())
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}

	tests := []struct {
		method string
		status string
	}{
		{method: "frequency", status: resultstore.StatusSuccess},
		{method: "graph-centrality", status: resultstore.StatusSuccess},
		{method: "latent-semantic", status: resultstore.StatusSuccess},
		{method: "abstractive", status: resultstore.StatusFailed},
		{method: "embedding-centroid", status: resultstore.StatusFailed},
	}

	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			r, ok := report.Results[test.method]
			if !ok {
				t.Fatalf("no result for %s", test.method)
			}
			if r.EvaluationStatus != test.status {
				t.Errorf("status = %s, want %s (error: %s)", r.EvaluationStatus, test.status, r.ErrorMessage)
			}
			switch test.status {
			case resultstore.StatusSuccess:
				if r.Summary == "" {
					t.Error("summary is empty")
				}
				for _, key := range []string{"rouge1", "rouge2", "rougeL", "bleu"} {
					v, ok := r.Metrics[key]
					if !ok || v < 0 || v > 1 {
						t.Errorf("metric %s = %v (present %v)", key, v, ok)
					}
				}
			case resultstore.StatusFailed:
				if r.ErrorMessage == "" {
					t.Error("failed result has no error message")
				}
				if r.Metrics != nil {
					t.Errorf("failed result has metrics %v", r.Metrics)
				}
			}
		})
	}

	if got := len(report.Records()); got != 5 {
		t.Errorf("len(Records()) = %d, want 5", got)
	}
	if report.Document == "" {
		t.Error("Document hash is empty")
	}
	if got := s.Metrics().GetCounter(telemetry.MetricBenchmarkRuns); got != 1 {
		t.Errorf("benchmark runs = %d, want 1", got)
	}
}

func TestBenchmarkWithModelService(t *testing.T) {
	s := newTestService(t, providers.NewMockService(32))

	report, err := s.Benchmark(context.Background(), SampleText, SampleReference, DefaultBenchmarkPlans())
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}
	for _, r := range report.Records() {
		if r.EvaluationStatus != resultstore.StatusSuccess {
			t.Errorf("%s status = %s (error: %s)", r.Method, r.EvaluationStatus, r.ErrorMessage)
		}
	}
}

func TestBenchmarkIsolatesFailures(t *testing.T) {
	failing := providers.NewTestService("broken", "", nil, errors.New("model offline"))
	s := newTestService(t, failing)

	plans := []BenchmarkPlan{
		{Method: "abstractive", Options: Options{Generation: GenerationOptions{MaxLength: 60, MinLength: 20}}},
		{Method: "frequency", Options: Options{NumSentences: 2}},
		{Method: "foobar", Options: Options{NumSentences: 2}},
	}
	report, err := s.Benchmark(context.Background(), SampleText, SampleReference, plans)
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}

	if got := report.Results["abstractive"]; got.EvaluationStatus != resultstore.StatusFailed || !strings.Contains(got.ErrorMessage, "model offline") {
		t.Errorf("abstractive = %+v", got)
	}
	if got := report.Results["foobar"]; got.EvaluationStatus != resultstore.StatusFailed {
		t.Errorf("foobar = %+v", got)
	}
	if got := report.Results["frequency"]; got.EvaluationStatus != resultstore.StatusSuccess {
		t.Errorf("frequency = %+v", got)
	}
	if !reflect.DeepEqual(report.Order, []string{"abstractive", "frequency", "foobar"}) {
		t.Errorf("Order = %v", report.Order)
	}
}

func TestBenchmarkEmptySummary(t *testing.T) {
	s := newTestService(t, nil)

	report, err := s.Benchmark(context.Background(), "", SampleReference, []BenchmarkPlan{
		{Method: "frequency", Options: Options{NumSentences: 3}},
	})
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}
	got := report.Results["frequency"]
	if got.EvaluationStatus != resultstore.StatusFailed || got.ErrorMessage != "empty summary" {
		t.Errorf("frequency = %+v", got)
	}
}

func TestBenchmarkSkipsWithoutEvaluator(t *testing.T) {
	s := newTestService(t, nil)
	s.evaluator = evaluate.New(evaluate.Options{Language: "klingon", Logger: quietLogger()})

	report, err := s.Benchmark(context.Background(), SampleText, SampleReference, []BenchmarkPlan{
		{Method: "frequency", Options: Options{NumSentences: 2}},
	})
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}
	got := report.Results["frequency"]
	if got.EvaluationStatus != resultstore.StatusSkipped {
		t.Errorf("status = %s, want skipped", got.EvaluationStatus)
	}
	if got.Summary == "" {
		t.Error("skipped result lost its summary")
	}
	if got.Metrics != nil {
		t.Errorf("skipped result has metrics %v", got.Metrics)
	}
}

func TestBenchmarkCancelled(t *testing.T) {
	s := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Benchmark(ctx, SampleText, SampleReference, DefaultBenchmarkPlans()); !errors.Is(err, context.Canceled) {
		t.Errorf("Benchmark() error = %v, want context.Canceled", err)
	}
}

func TestSaveBenchmark(t *testing.T) {
	s := newTestService(t, nil)

	store := resultstore.NewSQLiteStore()
	if err := store.Initialize(filepath.Join(t.TempDir(), "bench.db")); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer store.Close()

	report, err := s.Benchmark(context.Background(), SampleText, SampleReference, []BenchmarkPlan{
		{Method: "frequency", Options: Options{NumSentences: 2}},
		{Method: "lsa", Options: Options{NumSentences: 2}},
	})
	if err != nil {
		t.Fatalf("Benchmark() error = %v", err)
	}

	id, err := s.SaveBenchmark(store, report, "")
	if err != nil {
		t.Fatalf("SaveBenchmark() error = %v", err)
	}
	if report.RunID != id {
		t.Errorf("RunID = %q, want %q", report.RunID, id)
	}

	run, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Source != report.Document {
		t.Errorf("Source = %q, want document hash %q", run.Source, report.Document)
	}
	if len(run.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(run.Records))
	}
	if run.Records[0].Summary != report.Results[run.Records[0].Method].Summary {
		t.Errorf("stored summary differs from report")
	}
}

func TestFormatBenchmark(t *testing.T) {
	report := &BenchmarkReport{
		Results: map[string]resultstore.Record{
			"frequency": {
				Method:           "frequency",
				Summary:          "A cat sat.",
				Metrics:          map[string]float64{"rouge1": 0.5, "rouge2": 0.25, "rougeL": 0.5, "bleu": 0.125},
				EvaluationStatus: resultstore.StatusSuccess,
			},
			"abstractive": {
				Method:           "abstractive",
				EvaluationStatus: resultstore.StatusFailed,
				ErrorMessage:     "no model service configured",
			},
		},
		Order: []string{"frequency", "abstractive"},
	}

	out := FormatBenchmark(report)
	for _, want := range []string{"0.5000", "0.1250", "--- FREQUENCY ---", "A cat sat.", "Error: no model service configured"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "frequency") > strings.Index(out, "abstractive") {
		t.Error("results are not in plan order")
	}
}
