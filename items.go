package itemex

import (
	"math/rand"
	"slices"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ExtractItemsWithLabel locates the items marked by label.
//
// Nodes are scanned in document order. When some child of a node carries
// label, the children are walked left to right and split into items: the
// first labeled child fixes the delimiting label and every later child with
// that same label starts a new item. Only tag nodes become item roots. The
// subtree of a processed parent is skipped. Items with no root carrying
// label are dropped.
func ExtractItemsWithLabel(t Tree, labels []int, label int) [][]int {
	var items [][]int
	n := t.Len()
	for i := 0; i < n; {
		children := t.Children(i)
		if !anyHasLabel(labels, children, label) {
			i++
			continue
		}

		first := -1
		var item []int
		for _, c := range children {
			if m := labels[c]; m != -1 {
				if first == -1 {
					first = m
				} else if m == first && len(item) > 0 {
					items = append(items, item)
					item = nil
				}
			}
			if t.IsTag(c) {
				item = append(item, c)
			}
		}
		if len(item) > 0 {
			items = append(items, item)
		}
		i = SpanEnd(t, i)
	}

	kept := items[:0]
	for _, item := range items {
		if anyHasLabel(labels, item, label) {
			kept = append(kept, item)
		}
	}
	return kept
}

func anyHasLabel(labels, nodes []int, label int) bool {
	for _, node := range nodes {
		if labels[node] == label {
			return true
		}
	}
	return false
}

// modeLength returns the most common item length; ties go to the shortest.
func modeLength(items [][]int) int {
	counts := make(map[int]int)
	for _, item := range items {
		counts[len(item)]++
	}
	best, bestCount := 0, 0
	for length, c := range counts {
		if c > bestCount || (c == bestCount && length < best) {
			best, bestCount = length, c
		}
	}
	return best
}

// RegularizeItemLength makes every item the same length m, the mode of the
// item lengths. If more than maxCutFraction of the items are longer than m
// the whole group is rejected (nil). Otherwise shorter items are dropped and
// longer ones keep the m roots whose labels are most frequent across all
// roots of all items (ties broken by the larger root index), in their
// input order.
func RegularizeItemLength(labels []int, items [][]int, maxCutFraction float64) [][]int {
	if len(items) == 0 {
		return nil
	}
	m := modeLength(items)

	cut := 0
	for _, item := range items {
		if len(item) > m {
			cut++
		}
	}
	if float64(cut) > maxCutFraction*float64(len(items)) {
		return nil
	}

	var kept [][]int
	for _, item := range items {
		if len(item) >= m {
			kept = append(kept, item)
		}
	}
	if cut == 0 {
		return kept
	}

	labelCount := make(map[int]int)
	for _, item := range kept {
		for _, root := range item {
			labelCount[labels[root]]++
		}
	}

	out := make([][]int, len(kept))
	for k, item := range kept {
		if len(item) == m {
			out[k] = item
			continue
		}
		ranked := make([]int, len(item))
		copy(ranked, item)
		sort.Slice(ranked, func(a, b int) bool {
			ca, cb := labelCount[labels[ranked[a]]], labelCount[labels[ranked[b]]]
			if ca != cb {
				return ca > cb
			}
			return ranked[a] > ranked[b]
		})
		keep := make(map[int]bool, m)
		for _, root := range ranked[:m] {
			keep[root] = true
		}
		short := make([]int, 0, m)
		for _, root := range item {
			if keep[root] {
				short = append(short, root)
			}
		}
		out[k] = short
	}
	return out
}

// ExtractItems finds the groups of repeating items in a clustered tree.
//
// The labeling is first disambiguated with SeparateClusters. Clusters are
// then tried from the highest ScoreCluster down; each one locates its items
// with ExtractItemsWithLabel and normalizes them with RegularizeItemLength.
// Groups with fewer than cfg.MinItems items are discarded, and so is a group
// identical to one already accepted. Groups that only overlap are all kept.
func ExtractItems(t Tree, D mat.Symmetric, labels []int, cfg Config, rng *rand.Rand) [][][]int {
	log := loggerOrNop(cfg.Logger)
	separated := SeparateClusters(t, labels, rng)
	clusters := LabelsToClusters(separated)

	order := make([]int, len(clusters))
	scores := make([]float64, len(clusters))
	for l, c := range clusters {
		order[l] = l
		scores[l] = ScoreCluster(t, D, c, cfg.ScoreNeighbors)
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	var groups [][][]int
	for _, label := range order {
		items := ExtractItemsWithLabel(t, separated, label)
		if len(items) < cfg.MinItems {
			continue
		}
		items = RegularizeItemLength(separated, items, cfg.MaxItemsCutFraction)
		if len(items) < cfg.MinItems {
			continue
		}
		if containsGroup(groups, items) {
			log.Debug("item group already located", zap.Int("label", label))
			continue
		}
		log.Debug("located item group",
			zap.Int("label", label),
			zap.Float64("score", scores[label]),
			zap.Int("items", len(items)),
			zap.Int("item_length", len(items[0])))
		groups = append(groups, items)
	}
	return groups
}

func containsGroup(groups [][][]int, items [][]int) bool {
	for _, g := range groups {
		if slices.EqualFunc(g, items, func(a, b []int) bool { return slices.Equal(a, b) }) {
			return true
		}
	}
	return false
}
