package textsummary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/localrivet/textsummary/internal/evaluate"
	"github.com/localrivet/textsummary/internal/resultstore"
	"github.com/localrivet/textsummary/internal/summarizer"
	"github.com/localrivet/textsummary/internal/telemetry"
	"github.com/localrivet/textsummary/internal/util"
	"golang.org/x/sync/errgroup"
)

// SampleText is the demonstration document used when a benchmark is given
// no input.
const SampleText = `
A solar eclipse is a celestial event where the Moon passes between the Sun and
Earth, and the Moon fully or partially blocks the Sun. This can only happen at
new moon when the Sun, Moon and Earth are in alignment or nearly so. In a total
eclipse, the Moon completely covers the Sun's disk, and the sky darkens as if it
were twilight. During the total phase, observers can see the Sun's corona, which
is normally obscured by the bright light of the Sun itself.

There are four types of solar eclipses: total, partial, annular, and hybrid.
A partial eclipse occurs when the Moon only partially obscures the Sun. An annular
eclipse happens when the Moon's size is not large enough to completely cover the Sun,
leaving a "ring of fire" visible around the Moon. A hybrid eclipse is a rare type
that shifts between a total and annular eclipse depending on the observer's location.

Observing a solar eclipse requires special eye protection, as looking directly at
the Sun can cause permanent eye damage. Safe viewing methods include using eclipse
glasses or creating a pinhole projector.
`

// SampleReference is the reference summary of SampleText.
const SampleReference = "A solar eclipse happens when the Moon blocks the Sun from Earth. " +
	"There are four types of solar eclipses: total, partial, annular, and hybrid. " +
	"Observing an eclipse requires special eye protection to avoid permanent damage."

// BenchmarkPlan is one method and its options in a benchmark.
type BenchmarkPlan struct {
	Method  string
	Options Options
}

// DefaultBenchmarkPlans returns a plan for every known method: generation
// methods get 60 to 20 words, ranking methods 3 sentences.
func DefaultBenchmarkPlans() []BenchmarkPlan {
	var plans []BenchmarkPlan
	for _, info := range summarizer.Methods() {
		plan := BenchmarkPlan{Method: info.Name}
		if info.Family == summarizer.FamilyGeneration {
			plan.Options.Generation = GenerationOptions{MaxLength: 60, MinLength: 20}
		} else {
			plan.Options.NumSentences = summarizer.DefaultNumSentences
		}
		plans = append(plans, plan)
	}
	return plans
}

// BenchmarkReport holds the outcome of every planned method.
type BenchmarkReport struct {
	// RunID is set once the report has been saved to a result store.
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	// Document is a short content hash of the benchmarked text.
	Document string `json:"document" yaml:"document"`
	// Results maps each planned method identifier to its record.
	Results map[string]resultstore.Record `json:"results" yaml:"results"`
	// Order lists the planned method identifiers in plan order.
	Order []string `json:"-" yaml:"-"`
}

// Records returns the results in plan order.
func (r *BenchmarkReport) Records() []resultstore.Record {
	records := make([]resultstore.Record, 0, len(r.Order))
	for _, method := range r.Order {
		records = append(records, r.Results[method])
	}
	return records
}

// Benchmark summarizes text with every plan concurrently and evaluates each
// summary against reference. A failing method never affects the others; its
// record carries status "failed" and the error message. Only cancellation of
// ctx fails the benchmark as a whole.
func (s *Service) Benchmark(ctx context.Context, text, reference string, plans []BenchmarkPlan) (*BenchmarkReport, error) {
	defer s.metrics.Time(telemetry.MetricBenchmarkRuns, time.Now())
	s.metrics.IncrementCounter(telemetry.MetricBenchmarkRuns, 1)

	records := make([]resultstore.Record, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		g.Go(func() error {
			records[i] = s.runPlan(gctx, text, reference, plan)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &BenchmarkReport{
		Document: util.ShortHash(text),
		Results: make(map[string]resultstore.Record, len(plans)),
		Order:   make([]string, 0, len(plans)),
	}
	for i, plan := range plans {
		if _, seen := report.Results[plan.Method]; !seen {
			report.Order = append(report.Order, plan.Method)
		}
		report.Results[plan.Method] = records[i]
	}
	return report, nil
}

func (s *Service) runPlan(ctx context.Context, text, reference string, plan BenchmarkPlan) resultstore.Record {
	logger := s.logger.With("method", plan.Method)
	logger.Info("Benchmarking summarization method")

	record := resultstore.Record{Method: plan.Method}

	sentences, err := s.Summarize(ctx, Request{Text: text, Method: plan.Method, Options: plan.Options})
	summary := strings.Join(sentences, " ")
	record.Summary = summary

	switch {
	case err != nil:
		logger.Warn("Could not evaluate summary due to an error", "error", err)
		record.EvaluationStatus = resultstore.StatusFailed
		record.ErrorMessage = err.Error()
	case strings.TrimSpace(summary) == "":
		logger.Warn("Could not evaluate an empty summary")
		record.EvaluationStatus = resultstore.StatusFailed
		record.ErrorMessage = "empty summary"
	case !s.evaluator.Available():
		logger.Warn("Evaluation skipped because no stemmer is available")
		record.EvaluationStatus = resultstore.StatusSkipped
		record.Message = "evaluation unavailable"
	default:
		metrics := s.evaluator.Evaluate(summary, reference)
		record.Metrics = metrics.Scores()
		record.EvaluationStatus = string(metrics.Status)
		if metrics.Status == evaluate.StatusError {
			record.ErrorMessage = metrics.Message
		} else {
			record.Message = metrics.Message
		}
		logger.Info("Evaluation complete", "status", metrics.Status,
			"rouge1", metrics.ROUGE1, "rouge2", metrics.ROUGE2, "rougeL", metrics.ROUGEL, "bleu", metrics.BLEU)
	}
	return record
}

// SaveBenchmark appends report to store as one run and records the run id in
// the report. An empty source is replaced by the document hash.
func (s *Service) SaveBenchmark(store resultstore.ResultStore, report *BenchmarkReport, source string) (string, error) {
	if source == "" {
		source = report.Document
	}
	id, err := store.SaveRun(resultstore.Run{
		Source:  source,
		Records: report.Records(),
	})
	if err != nil {
		s.logger.Error("Failed to save benchmark run", "error", err)
		return "", err
	}
	report.RunID = id
	s.logger.Info("Saved benchmark run", "run_id", id, "methods", len(report.Order))
	return id, nil
}

// FormatBenchmark renders report as a console table followed by the
// generated summaries.
func FormatBenchmark(report *BenchmarkReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nEvaluation Results\n%s\n", rule, rule)
	fmt.Fprintf(&b, "%-20s %-8s %8s %8s %8s %8s\n", "METHOD", "STATUS", "ROUGE-1", "ROUGE-2", "ROUGE-L", "BLEU")
	for _, r := range report.Records() {
		if r.Metrics == nil {
			fmt.Fprintf(&b, "%-20s %-8s %8s %8s %8s %8s\n", r.Method, r.EvaluationStatus, "-", "-", "-", "-")
			continue
		}
		fmt.Fprintf(&b, "%-20s %-8s %8.4f %8.4f %8.4f %8.4f\n", r.Method, r.EvaluationStatus,
			r.Metrics["rouge1"], r.Metrics["rouge2"], r.Metrics["rougeL"], r.Metrics["bleu"])
	}

	fmt.Fprintf(&b, "\n%s\nGenerated Summaries\n%s\n", rule, rule)
	for _, r := range report.Records() {
		fmt.Fprintf(&b, "--- %s ---\n", strings.ToUpper(r.Method))
		if r.ErrorMessage != "" {
			fmt.Fprintf(&b, "Error: %s\n", r.ErrorMessage)
			continue
		}
		fmt.Fprintln(&b, r.Summary)
	}
	b.WriteString(rule + "\n")
	return b.String()
}
