package rouge

// lcsTable returns the dynamic-programming table for the longest common subsequence of a and b.
func lcsTable(a, b []string) [][]int {
	t := make([][]int, len(a)+1)
	for i := range t {
		t[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				t[i][j] = t[i-1][j-1] + 1
			} else {
				t[i][j] = max(t[i-1][j], t[i][j-1])
			}
		}
	}
	return t
}

func lcsScore(ref, hyp []string) Score {
	if len(ref) == 0 || len(hyp) == 0 {
		return Score{}
	}
	l := lcsTable(ref, hyp)[len(ref)][len(hyp)]
	p := float64(l) / float64(len(hyp))
	r := float64(l) / float64(len(ref))
	return Score{Recall: r, Precision: p, FMeasure: fmeasure(p, r)}
}

// lcsIndices backtracks the table and returns the indices into a that belong to one LCS, ascending.
func lcsIndices(a, b []string) []int {
	t := lcsTable(a, b)
	var idx []int
	i, j := len(a), len(b)
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			idx = append(idx, i-1)
			i--
			j--
		case t[i-1][j] > t[i][j-1]:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(idx)-1; l < r; l, r = l+1, r-1 {
		idx[l], idx[r] = idx[r], idx[l]
	}
	return idx
}

// unionLCS returns the tokens of ref covered by the union of its LCS with every hypothesis sentence, in ref order.
func unionLCS(ref []string, hyp [][]string) []string {
	covered := make([]bool, len(ref))
	for _, h := range hyp {
		for _, i := range lcsIndices(ref, h) {
			covered[i] = true
		}
	}
	var out []string
	for i, ok := range covered {
		if ok {
			out = append(out, ref[i])
		}
	}
	return out
}

// summaryLCSScore is the summary-level LCS. Each token occurrence counts at most once on either side.
func summaryLCSScore(ref, hyp [][]string) Score {
	refCounts, hypCounts := map[string]int{}, map[string]int{}
	var m, n int
	for _, s := range ref {
		m += len(s)
		for _, tok := range s {
			refCounts[tok]++
		}
	}
	for _, s := range hyp {
		n += len(s)
		for _, tok := range s {
			hypCounts[tok]++
		}
	}
	if m == 0 || n == 0 {
		return Score{}
	}
	hits := 0
	for _, s := range ref {
		for _, tok := range unionLCS(s, hyp) {
			if refCounts[tok] > 0 && hypCounts[tok] > 0 {
				hits++
				refCounts[tok]--
				hypCounts[tok]--
			}
		}
	}
	p := float64(hits) / float64(n)
	r := float64(hits) / float64(m)
	return Score{Recall: r, Precision: p, FMeasure: fmeasure(p, r)}
}
