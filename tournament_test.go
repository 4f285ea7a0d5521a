package itemex

import (
	"math/rand"
	"sort"
	"testing"
)

// chainTree nests three labeled nodes (A contains B contains C) n times.
func chainTree(t *testing.T, n int) (*PageTree, []int) {
	t.Helper()
	b := &treeBuilder{}
	root := b.add(-1, "#root")
	labels := []int{-1}
	for k := 0; k < n; k++ {
		a := b.add(root, "a")
		bb := b.add(a, "b")
		b.add(bb, "c")
		labels = append(labels, 0, 1, 2)
	}
	return b.build(t), labels
}

func TestClustersTournament_Counts(t *testing.T) {
	tree, labels := chainTree(t, 3)
	T := ClustersTournament(tree, labels)

	want := [][]int{
		{0, 3, 3},
		{0, 0, 3},
		{0, 0, 0},
	}
	for a := range want {
		if !intsEqual(T[a], want[a]) {
			t.Errorf("T[%d] = %v, want %v", a, T[a], want[a])
		}
	}
}

func TestClustersTournament_SelfContainment(t *testing.T) {
	tree, _ := chainTree(t, 2)
	// Everything in one cluster: the diagonal counts nested members.
	T := ClustersTournament(tree, make([]int, tree.Len()))
	if len(T) != 1 || T[0][0] != 12 {
		t.Errorf("T = %v, want [[12]]", T)
	}

	noise := []int{-1, -1, -1, -1}
	small, _ := chainTree(t, 1)
	if T := ClustersTournament(small, noise); len(T) != 0 {
		t.Errorf("T = %v, want empty for all-noise labels", T)
	}
}

func TestMakeAcyclic_Chain(t *testing.T) {
	tree, labels := chainTree(t, 3)
	T := ClustersTournament(tree, labels)
	for seed := int64(0); seed < 10; seed++ {
		got := MakeAcyclic(T, rand.New(rand.NewSource(seed)))
		if !intsEqual(got, []int{2, 1, 0}) {
			t.Errorf("seed %d: ranking %v, want [2 1 0]", seed, got)
		}
	}
}

func TestMakeAcyclic_Permutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		L := 1 + rng.Intn(12)
		T := make([][]int, L)
		for a := range T {
			T[a] = make([]int, L)
			for b := range T[a] {
				if a != b {
					T[a][b] = rng.Intn(5)
				}
			}
		}

		got := MakeAcyclic(T, rand.New(rand.NewSource(int64(trial))))
		again := MakeAcyclic(T, rand.New(rand.NewSource(int64(trial))))
		if !intsEqual(got, again) {
			t.Errorf("trial %d: same seed gave %v and %v", trial, got, again)
		}

		sorted := append([]int(nil), got...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v != i {
				t.Fatalf("trial %d: %v is not a permutation of 0..%d", trial, got, L-1)
			}
		}
	}
}

func TestMakeAcyclic_Empty(t *testing.T) {
	if got := MakeAcyclic(nil, rand.New(rand.NewSource(0))); len(got) != 0 {
		t.Errorf("MakeAcyclic(nil) = %v, want empty", got)
	}
}

func TestSeparateClusters_Chain(t *testing.T) {
	tree, labels := chainTree(t, 3)
	got := SeparateClusters(tree, labels, rand.New(rand.NewSource(0)))

	want := []int{-1, 0, -1, -1, 0, -1, -1, 0, -1, -1}
	if !intsEqual(got, want) {
		t.Errorf("SeparateClusters = %v, want %v", got, want)
	}
	// Input is left untouched.
	if labels[2] != 1 || labels[3] != 2 {
		t.Errorf("input labels modified: %v", labels)
	}
}

func TestSeparateClusters_DisjointUnchanged(t *testing.T) {
	tree, _ := listEntries(t, 4)
	labels := make([]int, tree.Len())
	for i := range labels {
		labels[i] = -1
	}
	// Label only the leaf fields; nothing is nested.
	for k := 0; k < 4; k++ {
		li := 2 + 4*k
		labels[li+1], labels[li+2], labels[li+3] = 0, 1, 2
	}
	got := SeparateClusters(tree, labels, rand.New(rand.NewSource(7)))
	if !intsEqual(got, labels) {
		t.Errorf("SeparateClusters = %v, want unchanged %v", got, labels)
	}
}

// After separation no labeled node lies inside another labeled node, and
// labels are only ever cleared.
func TestSeparateClusters_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 30; trial++ {
		nodes := randomTree(rng, 5+rng.Intn(40))
		tree, err := NewPageTree(nodes)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		labels := make([]int, len(nodes))
		for i := range labels {
			labels[i] = rng.Intn(5) - 1
		}

		got := SeparateClusters(tree, labels, rand.New(rand.NewSource(int64(trial))))
		for i := range got {
			if got[i] != -1 && got[i] != labels[i] {
				t.Fatalf("trial %d: node %d relabeled %d -> %d", trial, i, labels[i], got[i])
			}
			if got[i] == -1 {
				continue
			}
			for j := i + 1; j < SpanEnd(tree, i); j++ {
				if got[j] != -1 {
					t.Fatalf("trial %d: labeled node %d inside labeled node %d", trial, j, i)
				}
			}
		}
	}
}
