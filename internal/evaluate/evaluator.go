// Package evaluate scores a candidate summary against a reference summary
// with ROUGE-1, ROUGE-2, ROUGE-L and smoothed sentence BLEU.
package evaluate

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/kljensen/snowball"
	"github.com/localrivet/textsummary/internal/telemetry"
)

// DefaultLanguage is the stemming language used when none is configured.
const DefaultLanguage = "english"

// Status reports how an evaluation ended.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Metrics is the result of one evaluation. Scores are F-measures in [0, 1]
// and are zero unless Status is StatusSuccess.
type Metrics struct {
	ROUGE1  float64 `json:"rouge1" yaml:"rouge1"`
	ROUGE2  float64 `json:"rouge2" yaml:"rouge2"`
	ROUGEL  float64 `json:"rougeL" yaml:"rougeL"`
	BLEU    float64 `json:"bleu" yaml:"bleu"`
	Status  Status  `json:"evaluation_status" yaml:"evaluation_status"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Scores returns the metric values keyed by name, or nil when the
// evaluation did not succeed.
func (m Metrics) Scores() map[string]float64 {
	if m.Status != StatusSuccess {
		return nil
	}
	return map[string]float64{
		"rouge1": m.ROUGE1,
		"rouge2": m.ROUGE2,
		"rougeL": m.ROUGEL,
		"bleu":   m.BLEU,
	}
}

// Options configures an Evaluator.
type Options struct {
	// Language selects the ROUGE stemmer. Defaults to English.
	Language string
	Metrics  *telemetry.MetricsCollector
	Logger   *slog.Logger
}

// Evaluator computes summary quality metrics. It is safe for concurrent use.
type Evaluator struct {
	tokenizer   rougeTokenizer
	available   bool
	unavailable string
	metrics     *telemetry.MetricsCollector
	logger      *slog.Logger
}

// New creates an Evaluator. When no stemmer exists for the configured
// language the evaluator is created unavailable and skips every request.
func New(opts Options) *Evaluator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "evaluator")

	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}

	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}

	e := &Evaluator{
		tokenizer: rougeTokenizer{language: language},
		available: true,
		metrics:   metrics,
		logger:    logger,
	}
	if _, err := snowball.Stem("evaluation", language, true); err != nil {
		e.available = false
		e.unavailable = fmt.Sprintf("no stemmer available for language %q", language)
		logger.Error("Evaluation disabled", "language", language, "error", err)
	} else {
		logger.Debug("Evaluator initialized", "language", language)
	}
	return e
}

// Available reports whether evaluations will be computed.
func (e *Evaluator) Available() bool {
	return e.available
}

// Evaluate scores candidate against reference. It never fails: an unavailable
// evaluator returns StatusSkipped and an unexpected failure returns
// StatusError, both with a message.
func (e *Evaluator) Evaluate(candidate, reference string) (result Metrics) {
	if !e.available {
		e.logger.Warn("Evaluation skipped", "reason", e.unavailable)
		e.metrics.IncrementCounter(telemetry.MetricEvaluationSkipped, 1)
		return Metrics{Status: StatusSkipped, Message: e.unavailable}
	}

	defer e.metrics.Time(telemetry.MetricEvaluationLatency, time.Now())
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Evaluation failed", "error", r, "panic_stack", string(debug.Stack()))
			e.metrics.IncrementCounter(telemetry.MetricEvaluationError, 1)
			result = Metrics{Status: StatusError, Message: fmt.Sprintf("evaluation failed: %v", r)}
		}
	}()

	e.logger.Debug("Starting evaluation", "candidate_length", len(candidate), "reference_length", len(reference))

	target := e.tokenizer.tokenize(reference)
	prediction := e.tokenizer.tokenize(candidate)

	result = Metrics{
		ROUGE1: clamp(rougeN(target, prediction, 1).FMeasure),
		ROUGE2: clamp(rougeN(target, prediction, 2).FMeasure),
		ROUGEL: clamp(rougeL(target, prediction).FMeasure),
		Status: StatusSuccess,
	}

	referenceTokens := bleuTokens(reference)
	candidateTokens := bleuTokens(candidate)
	if len(referenceTokens) == 0 || len(candidateTokens) == 0 {
		e.logger.Warn("Empty candidate or reference tokens, BLEU set to 0")
	} else {
		result.BLEU = sentenceBLEU(referenceTokens, candidateTokens)
	}

	e.metrics.IncrementCounter(telemetry.MetricEvaluationSuccess, 1)
	e.logger.Debug("Evaluation complete",
		"rouge1", result.ROUGE1, "rouge2", result.ROUGE2, "rougeL", result.ROUGEL, "bleu", result.BLEU)
	return result
}
