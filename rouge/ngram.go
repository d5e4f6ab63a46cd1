package rouge

import "strings"

func ngrams(tokens []string, n int) map[string]int {
	out := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		out[strings.Join(tokens[i:i+n], " ")]++
	}
	return out
}

func ngramScore(ref, hyp []string, n int) Score {
	refGrams, hypGrams := ngrams(ref, n), ngrams(hyp, n)
	var refTotal, hypTotal, overlap int
	for g, c := range refGrams {
		refTotal += c
		overlap += min(c, hypGrams[g])
	}
	for _, c := range hypGrams {
		hypTotal += c
	}
	p := float64(overlap) / float64(max(hypTotal, 1))
	r := float64(overlap) / float64(max(refTotal, 1))
	return Score{Recall: r, Precision: p, FMeasure: fmeasure(p, r)}
}
