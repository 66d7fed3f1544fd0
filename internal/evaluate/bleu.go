package evaluate

import (
	"math"
	"regexp"
	"strings"
)

const (
	// maxOrder is the longest n-gram scored by BLEU, with uniform weights.
	maxOrder = 4

	// smoothingK is the constant of the geometric smoothing applied to
	// orders without any match.
	smoothingK = 5.0
)

var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]`)

// bleuTokens lowercases text, strips everything but word characters and
// whitespace and splits on whitespace.
func bleuTokens(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRegex.ReplaceAllString(text, "")
	return strings.Fields(text)
}

// sentenceBLEU scores candidate against a single reference. It returns 0
// when either side is empty or no unigram matches. Orders longer than the
// candidate have no n-grams to score and are left out of the geometric mean,
// so a candidate shorter than maxOrder scored against itself still gets 1.
func sentenceBLEU(reference, candidate []string) float64 {
	if len(reference) == 0 || len(candidate) == 0 {
		return 0
	}

	order := min(maxOrder, len(candidate))
	numerators := make([]float64, order)
	denominators := make([]float64, order)
	for n := 1; n <= order; n++ {
		referenceCounts := ngramCounts(reference, n)
		var matched, total int
		for gram, count := range ngramCounts(candidate, n) {
			matched += min(count, referenceCounts[gram])
			total += count
		}
		numerators[n-1] = float64(matched)
		denominators[n-1] = float64(total)
	}
	if numerators[0] == 0 {
		return 0
	}

	precisions := smoothPrecisions(numerators, denominators, len(candidate))

	var logSum float64
	for _, p := range precisions {
		if p <= 0 {
			return 0
		}
		logSum += math.Log(p) / float64(order)
	}

	return clamp(brevityPenalty(len(reference), len(candidate)) * math.Exp(logSum))
}

// smoothPrecisions replaces every zero-match order with a geometrically
// shrinking pseudo count scaled by the candidate length. Every order passed
// in has at least one candidate n-gram, so the candidate has at least two
// tokens whenever an order above the first needs smoothing.
func smoothPrecisions(numerators, denominators []float64, candidateLen int) []float64 {
	precisions := make([]float64, len(numerators))
	inverse := 1.0
	for i := range precisions {
		if numerators[i] == 0 && candidateLen > 1 {
			pseudo := 1 / (math.Pow(2, inverse) * smoothingK / math.Log(float64(candidateLen)))
			precisions[i] = pseudo / denominators[i]
			inverse++
			continue
		}
		precisions[i] = numerators[i] / denominators[i]
	}
	return precisions
}

func brevityPenalty(referenceLen, candidateLen int) float64 {
	switch {
	case candidateLen > referenceLen:
		return 1
	case candidateLen == 0:
		return 0
	default:
		return math.Exp(1 - float64(referenceLen)/float64(candidateLen))
	}
}

// clamp bounds v to [0, 1]. NaN becomes 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
