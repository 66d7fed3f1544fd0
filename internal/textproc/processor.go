// Package textproc splits documents into sentences and filtered word tokens.
package textproc

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/localrivet/textsummary/internal/errortypes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// DefaultLanguage is the language used when none is configured.
const DefaultLanguage = "english"

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Decimals and digit groups ("3.50", "1,000") stay one token.
	wordRegex = regexp.MustCompile(`\p{N}+(?:[.,]\p{N}+)+|[\p{L}\p{N}_]+(?:['’\-][\p{L}\p{N}_]+)*|[^\p{L}\p{N}_\s]+`)
)

// Sentence is one segmented sentence of a document.
type Sentence struct {
	// Index is the position of the sentence in the document.
	Index int
	// Text is the sentence exactly as segmented.
	Text string
	// Tokens are the case-folded, filtered word tokens of Text. May be empty.
	Tokens []string
}

// Collection is the ordered sentence list of one document.
type Collection []Sentence

// Texts returns the sentence texts in document order.
func (c Collection) Texts() []string {
	texts := make([]string, len(c))
	for i, s := range c {
		texts[i] = s.Text
	}
	return texts
}

// TokenLists returns the token lists in document order.
func (c Collection) TokenLists() [][]string {
	tokens := make([][]string, len(c))
	for i, s := range c {
		tokens[i] = s.Tokens
	}
	return tokens
}

// Options configures a Processor.
type Options struct {
	// Language selects the stopword set and sentence model. Defaults to English.
	Language string
	// StopwordsFile optionally extends the built-in stopword set.
	StopwordsFile string
	// Logger is used for debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Processor segments text into sentences and word tokens.
// It is safe for concurrent use.
type Processor struct {
	language  string
	stopwords StopwordSet
	segmenter sentences.SentenceTokenizer
	logger    *slog.Logger
}

// NewProcessor creates a Processor for the configured language.
// An unsupported language or an unreadable stopword file is a configuration error.
func NewProcessor(opts Options) (*Processor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	canonical, err := ResolveLanguage(lang)
	if err != nil {
		return nil, err
	}

	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, errortypes.ConfigError(err, "failed to load sentence model").
			WithField("language", canonical)
	}

	stopwords := newStopwordSet(englishStopwords)
	if opts.StopwordsFile != "" {
		if err := loadStopwordFile(stopwords, opts.StopwordsFile); err != nil {
			return nil, errortypes.ConfigError(err, "failed to load stopwords").
				WithField("path", opts.StopwordsFile)
		}
	}

	logger.Debug("Initialized text processor", "language", canonical, "stopwords", len(stopwords))

	return &Processor{
		language:  canonical,
		stopwords: stopwords,
		segmenter: segmenter,
		logger:    logger,
	}, nil
}

// ResolveLanguage maps a language name or BCP 47 tag to its canonical name.
// Only English resources are bundled.
func ResolveLanguage(name string) (string, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == DefaultLanguage {
		return DefaultLanguage, nil
	}

	tag, err := language.Parse(lowered)
	if err == nil {
		base, _ := tag.Base()
		english, _ := language.English.Base()
		if base == english {
			return DefaultLanguage, nil
		}
	}

	return "", errortypes.ConfigError(errortypes.ErrUnsupportedLang,
		fmt.Sprintf("no stopword list for language %q", name)).
		WithField("language", name)
}

// Language returns the canonical language name.
func (p *Processor) Language() string {
	return p.language
}

// SplitSentences normalizes whitespace and segments text into trimmed, non-empty sentences.
func (p *Processor) SplitSentences(text string) []string {
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
	if text == "" {
		return []string{}
	}

	segments := p.segmenter.Tokenize(text)
	result := make([]string, 0, len(segments))
	for _, seg := range segments {
		s := strings.TrimSpace(seg.Text)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

// Tokenize returns the case-folded word tokens of a sentence with
// punctuation and stopwords removed.
func (p *Processor) Tokenize(sentence string) []string {
	folder := cases.Fold()
	words := wordRegex.FindAllString(norm.NFC.String(sentence), -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if isPunctuation(w) {
			continue
		}
		folded := folder.String(w)
		if p.stopwords.Contains(folded) {
			continue
		}
		tokens = append(tokens, folded)
	}
	return tokens
}

// Preprocess returns the sentences of text and the token list of each sentence.
// The two slices always have the same length.
func (p *Processor) Preprocess(text string) ([]string, [][]string) {
	sents := p.SplitSentences(text)
	tokens := make([][]string, len(sents))
	for i, s := range sents {
		tokens[i] = p.Tokenize(s)
	}
	p.logger.Debug("Preprocessed text", "sentences", len(sents))
	return sents, tokens
}

// Collection preprocesses text into an indexed sentence collection.
func (p *Processor) Collection(text string) Collection {
	sents, tokens := p.Preprocess(text)
	collection := make(Collection, len(sents))
	for i := range sents {
		collection[i] = Sentence{Index: i, Text: sents[i], Tokens: tokens[i]}
	}
	return collection
}

func isPunctuation(token string) bool {
	for _, r := range token {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
