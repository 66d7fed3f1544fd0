package evaluate

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// minStemLength is the shortest token passed to the stemmer.
const minStemLength = 4

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Score holds the precision, recall and F-measure of one ROUGE variant.
type Score struct {
	Precision float64
	Recall    float64
	FMeasure  float64
}

// rougeTokenizer lowercases, replaces everything outside [a-z0-9] with
// spaces and stems the longer tokens.
type rougeTokenizer struct {
	language string
}

func (t rougeTokenizer) tokenize(text string) []string {
	text = strings.ToLower(text)
	text = nonAlphanumericRegex.ReplaceAllString(text, " ")
	tokens := strings.Fields(text)

	for i, token := range tokens {
		if len(token) < minStemLength {
			continue
		}
		stemmed, err := snowball.Stem(token, t.language, true)
		if err != nil || stemmed == "" {
			continue
		}
		tokens[i] = stemmed
	}
	return tokens
}

// ngramCounts counts the n-grams of tokens. Tokens never contain spaces, so
// joining with one is unambiguous.
func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

// rougeN scores the n-gram overlap between target and prediction.
func rougeN(target, prediction []string, n int) Score {
	targetCounts := ngramCounts(target, n)
	predictionCounts := ngramCounts(prediction, n)

	var overlap, targetTotal, predictionTotal int
	for gram, count := range targetCounts {
		targetTotal += count
		overlap += min(count, predictionCounts[gram])
	}
	for _, count := range predictionCounts {
		predictionTotal += count
	}

	return newScore(float64(overlap)/float64(max(predictionTotal, 1)),
		float64(overlap)/float64(max(targetTotal, 1)))
}

// rougeL scores the longest common subsequence of target and prediction.
func rougeL(target, prediction []string) Score {
	if len(target) == 0 || len(prediction) == 0 {
		return Score{}
	}
	lcs := float64(lcsLength(target, prediction))
	return newScore(lcs/float64(len(prediction)), lcs/float64(len(target)))
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func newScore(precision, recall float64) Score {
	var f float64
	if precision+recall > 0 {
		f = 2 * precision * recall / (precision + recall)
	}
	return Score{Precision: precision, Recall: recall, FMeasure: f}
}
