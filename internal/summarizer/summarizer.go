// Package summarizer provides the summarization strategies and the registry
// that resolves method identifiers to them.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/textproc"
)

const (
	// DefaultNumSentences is the summary length used when a ranking request gives none.
	DefaultNumSentences = 3

	// Generation bounds derived from a sentence count, in words per sentence.
	maxWordsPerSentence = 30
	minWordsPerSentence = 10
)

// Family groups methods by the options they accept.
type Family string

const (
	// FamilyRanking methods select whole sentences.
	FamilyRanking Family = "ranking"
	// FamilyGeneration methods write new text.
	FamilyGeneration Family = "generation"
)

// Document is one preprocessed summarization input.
type Document struct {
	// Text is the raw input.
	Text string
	// Sentences is the segmented and tokenized form of Text.
	Sentences textproc.Collection
}

// GenerationOptions bounds the length of a generated summary, in words.
type GenerationOptions struct {
	MaxLength int
	MinLength int
}

// Options carries the per-request settings of both method families.
// Only the fields of the resolved method's family are used.
type Options struct {
	// NumSentences is the number of sentences a ranking method selects.
	NumSentences int
	// Generation bounds generation methods.
	Generation GenerationOptions
}

// GenerationFromSentences derives generation bounds from a sentence count.
func GenerationFromSentences(n int) GenerationOptions {
	return GenerationOptions{
		MaxLength: n * maxWordsPerSentence,
		MinLength: n * minWordsPerSentence,
	}
}

// OptionsFromInput builds Options from loosely specified request fields. A
// zero sentence count becomes DefaultNumSentences and a zero maxLength derives
// the generation bounds from the sentence count. Other values are kept for
// Validate to judge.
func OptionsFromInput(numSentences, maxLength, minLength int) Options {
	if numSentences == 0 {
		numSentences = DefaultNumSentences
	}
	generation := GenerationOptions{MaxLength: maxLength, MinLength: minLength}
	if maxLength == 0 {
		generation = GenerationFromSentences(numSentences)
	}
	return Options{NumSentences: numSentences, Generation: generation}
}

// Request is one summarization call: the raw text, the method identifier or
// alias, and the options of the method's family.
type Request struct {
	Text    string
	Method  string
	Options Options
}

// Validate checks the options used by family.
func (o Options) Validate(family Family) error {
	switch family {
	case FamilyGeneration:
		g := o.Generation
		if g.MaxLength < 1 {
			return errortypes.ValidationError(fmt.Errorf("max_length must be at least 1, got %d", g.MaxLength), "invalid generation options")
		}
		if g.MinLength < 0 || g.MinLength > g.MaxLength {
			return errortypes.ValidationError(fmt.Errorf("min_length must be between 0 and max_length (%d), got %d", g.MaxLength, g.MinLength), "invalid generation options")
		}
	default:
		if o.NumSentences < 1 {
			return errortypes.ValidationError(fmt.Errorf("num_sentences must be at least 1, got %d", o.NumSentences), "invalid ranking options")
		}
	}
	return nil
}

// Strategy summarizes a document. Ranking strategies return sentences of the
// document in document order; generation strategies return a single text.
// Implementations hold only immutable configuration and are safe for
// concurrent use.
type Strategy interface {
	// Name returns the canonical method identifier.
	Name() string

	// Family reports which options the strategy reads.
	Family() Family

	// Summarize returns the summary of doc.
	Summarize(ctx context.Context, doc Document, opts Options) ([]string, error)
}

// guard runs fn and converts a panic into a computation error. Computation
// errors, recovered or returned, are logged with their context.
func guard(logger *slog.Logger, method string, fn func() ([]string, error)) (summary []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errortypes.ComputationError(fmt.Errorf("%v", r), method+" failed").
				WithField("method", method).
				WithField("panic_stack", string(debug.Stack()))
			errortypes.LogError(logger, err)
			summary = nil
		}
	}()

	summary, err = fn()
	if errortypes.IsComputationError(err) {
		errortypes.LogError(logger, err)
	}
	return summary, err
}

// externalError wraps a model service failure.
func externalError(err error, svc providers.ModelService, method string) error {
	return errortypes.ExternalError(err, "model service call failed").
		WithField("method", method).
		WithField("provider", svc.Name())
}
