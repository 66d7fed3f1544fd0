package summarizer

import (
	"sort"

	"github.com/localrivet/textsummary/internal/textproc"
)

// rankIndices orders sentence indices by descending score, breaking ties by
// ascending index.
func rankIndices(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})
	return order
}

// topInOrder returns the texts of the n best-scored sentences in document order.
func topInOrder(c textproc.Collection, scores []float64, n int) []string {
	order := rankIndices(scores)
	if n > len(order) {
		n = len(order)
	}
	selected := append([]int(nil), order[:n]...)
	sort.Ints(selected)

	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = c[idx].Text
	}
	return out
}

// topTextsInOrder selects the texts of the n best-scored sentences, then
// returns every sentence carrying one of those texts in document order,
// truncated to n. Repeated sentences therefore resolve to their earliest
// occurrences.
func topTextsInOrder(c textproc.Collection, scores []float64, n int) []string {
	order := rankIndices(scores)
	if n > len(order) {
		n = len(order)
	}
	chosen := make(map[string]bool, n)
	for _, idx := range order[:n] {
		chosen[c[idx].Text] = true
	}

	out := make([]string, 0, n)
	for _, s := range c {
		if len(out) == n {
			break
		}
		if chosen[s.Text] {
			out = append(out, s.Text)
		}
	}
	return out
}

// firstN returns the texts of the first n sentences.
func firstN(c textproc.Collection, n int) []string {
	if n > len(c) {
		n = len(c)
	}
	return c[:n].Texts()
}
