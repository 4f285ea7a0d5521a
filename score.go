package itemex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ScoreCluster rates how likely cluster is to be a genuine repeating item.
// Each member is linked to its k nearest fellow members under D and every
// link (a, b) adds min(size(a), size(b)) / D[a,b]^2, so tight clusters of
// large subtrees score highest. Clusters with fewer than two members score 0.
// Links at zero or infinite distance still take a neighbor slot but add
// nothing.
func ScoreCluster(t Tree, D mat.Symmetric, cluster []int, k int) float64 {
	m := len(cluster)
	if m <= 1 || k <= 0 {
		return 0
	}
	k = min(k, m-1)

	type neighbor struct {
		pos  int
		dist float64
	}
	score := 0.0
	nbs := make([]neighbor, 0, m-1)
	for a, i := range cluster {
		nbs = nbs[:0]
		for b, j := range cluster {
			if a != b {
				nbs = append(nbs, neighbor{pos: b, dist: D.At(i, j)})
			}
		}
		sort.SliceStable(nbs, func(x, y int) bool { return nbs[x].dist < nbs[y].dist })

		si := SpanSize(t, i)
		for _, nb := range nbs[:k] {
			d := nb.dist
			if d == 0 || math.IsInf(d, 0) || math.IsNaN(d) {
				continue
			}
			sj := SpanSize(t, cluster[nb.pos])
			score += float64(min(si, sj)) / (d * d)
		}
	}
	return score
}
