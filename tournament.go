package itemex

import "math/rand"

// ClustersTournament counts, for every pair of clusters (a, b), how many
// times a node labeled b sits strictly inside the span of a node labeled a.
// T[a][b] > T[b][a] means cluster a tends to contain cluster b.
func ClustersTournament(t Tree, labels []int) [][]int {
	L := numLabels(labels)
	T := make([][]int, L)
	for a := range T {
		T[a] = make([]int, L)
	}
	for i, a := range labels {
		if a == -1 {
			continue
		}
		end := SpanEnd(t, i)
		for j := i + 1; j < end; j++ {
			if b := labels[j]; b != -1 {
				T[a][b]++
			}
		}
	}
	return T
}

// MakeAcyclic orders the clusters of tournament T so that, as far as
// possible, a cluster comes before the clusters that contain it.
//
// It is the randomized pivot heuristic for minimum feedback arc set: a
// random pivot p splits the other clusters into those p contains at least as
// often as they contain p (ranked before p) and the rest (ranked after p),
// and both halves are ranked recursively. rng must be supplied by the
// caller; the same seed gives the same ranking.
func MakeAcyclic(T [][]int, rng *rand.Rand) []int {
	ids := make([]int, len(T))
	for i := range ids {
		ids[i] = i
	}
	return rankClusters(T, ids, rng)
}

// rankClusters ranks the subset ids of T. Recursion depth is bounded by
// len(ids).
func rankClusters(T [][]int, ids []int, rng *rand.Rand) []int {
	if len(ids) == 0 {
		return nil
	}
	p := ids[rng.Intn(len(ids))]
	var left, right []int
	for _, x := range ids {
		if x == p {
			continue
		}
		if T[p][x] >= T[x][p] {
			left = append(left, x)
		} else {
			right = append(right, x)
		}
	}
	ranking := append(rankClusters(T, left, rng), p)
	return append(ranking, rankClusters(T, right, rng)...)
}

// SeparateClusters returns a copy of labels in which no labeled node lies
// inside the span of another labeled node. Clusters are visited in the order
// given by MakeAcyclic; every node that still carries its cluster's label
// clears the labels of all nodes strictly inside its span.
func SeparateClusters(t Tree, labels []int, rng *rand.Rand) []int {
	ranking := MakeAcyclic(ClustersTournament(t, labels), rng)
	clusters := LabelsToClusters(labels)

	out := make([]int, len(labels))
	copy(out, labels)
	for _, id := range ranking {
		for _, node := range clusters[id] {
			if out[node] != id {
				continue
			}
			end := SpanEnd(t, node)
			for j := node + 1; j < end; j++ {
				out[j] = -1
			}
		}
	}
	return out
}
