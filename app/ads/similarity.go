package ads

// Ratio computes a normalized textual similarity between two strings in
// [0, 1] using the Ratcliff/Obershelp sequence alignment: twice the number
// of matching characters divided by the total length of both strings.
// 1.0 means identical, 0.0 means disjoint.
func Ratio(a, b string) float64 {
	m := newSequenceMatcher(a, b)
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(m.matchCount()) / float64(total)
}

type sequenceMatcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newSequenceMatcher(a, b string) *sequenceMatcher {
	m := &sequenceMatcher{a: []rune(a), b: []rune(b)}
	m.chainB()
	return m
}

// chainB indexes the positions of every rune in b. Runes that appear in
// more than 1% of a long second sequence are dropped as match anchors;
// without this, whitespace and filler words in long transcripts blow up
// the inner loop. Dropped runes are still absorbed by the match extension
// in findLongestMatch, so they count toward the ratio.
func (m *sequenceMatcher) chainB() {
	m.b2j = make(map[rune][]int, len(m.b))
	for i, c := range m.b {
		m.b2j[c] = append(m.b2j[c], i)
	}
	if n := len(m.b); n >= 200 {
		threshold := n/100 + 1
		for c, idx := range m.b2j {
			if len(idx) > threshold {
				delete(m.b2j, c)
			}
		}
	}
}

// findLongestMatch returns the longest matching block within
// a[alo:ahi] and b[blo:bhi] as (start in a, start in b, length).
// Of all maximal blocks it prefers the one starting earliest in a,
// then earliest in b.
func (m *sequenceMatcher) findLongestMatch(alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// Extend the block over runes excluded from the index.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi &&
		m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return besti, bestj, bestsize
}

// matchCount sums the lengths of all matching blocks by recursively
// splitting around each longest match.
func (m *sequenceMatcher) matchCount() int {
	type span struct{ alo, ahi, blo, bhi int }

	matched := 0
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}
