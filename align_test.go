package itemex

import (
	"math/rand"
	"testing"
)

func TestPathDistance(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 []int
		want   int
	}{
		{"shared prefix", []int{1, 0, 3, 4, 5, 6}, []int{1, 0, 2, 2, 2, 2, 2, 2}, 6},
		{"identical", []int{3, 1, -1}, []int{3, 1, -1}, 0},
		{"prefix", []int{3, 1}, []int{3, 1, -1}, 1},
		{"disjoint", []int{0}, []int{1, 2}, 2},
		{"empty", nil, []int{1, 2, 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathDistance(tt.p1, tt.p2); got != tt.want {
				t.Errorf("PathDistance(%v, %v) = %d, want %d", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestPathDistance_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	randPath := func() []int {
		p := make([]int, rng.Intn(8))
		for k := range p {
			p[k] = rng.Intn(3)
		}
		return p
	}
	for trial := 0; trial < 200; trial++ {
		p1, p2 := randPath(), randPath()
		d := PathDistance(p1, p2)
		if d < 0 || d > max(len(p1), len(p2)) {
			t.Fatalf("PathDistance(%v, %v) = %d out of range", p1, p2, d)
		}
		if d != PathDistance(p2, p1) {
			t.Fatalf("PathDistance(%v, %v) not symmetric", p1, p2)
		}
		if PathDistance(p1, p1) != 0 {
			t.Fatalf("PathDistance(%v, itself) != 0", p1)
		}
	}
}

func TestFindCliques(t *testing.T) {
	g := newMatchGraph([][2]int{
		{1, 2}, {2, 3}, {1, 3},
		{3, 4}, {4, 5}, {3, 5},
		{6, 7},
		{8, 8},
	})

	got := FindCliques(g, 2)
	want := map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1, 6: 2, 7: 2}
	if len(got) != len(want) {
		t.Fatalf("columns %v, want %v", got, want)
	}
	for node, c := range want {
		if got[node] != c {
			t.Errorf("node %d in column %d, want %d", node, got[node], c)
		}
	}

	// The overlap with the first triangle leaves {4, 5} below the minimum.
	got = FindCliques(g, 3)
	if len(got) != 3 || got[1] != 0 || got[2] != 0 || got[3] != 0 {
		t.Errorf("columns %v, want only the first triangle", got)
	}
}

func TestFindCliques_Empty(t *testing.T) {
	if got := FindCliques(newMatchGraph(nil), 1); len(got) != 0 {
		t.Errorf("columns %v, want empty", got)
	}
}

func TestAlignItems(t *testing.T) {
	b := &treeBuilder{}
	root := b.add(-1, "#root")
	li := b.add(root, "li")
	b.add(li, "a")
	b.add(li, "b")
	li2 := b.add(root, "li")
	b.add(li2, "a")
	tree := b.build(t)

	columns := map[int]int{1: 0, 4: 0, 2: 1, 5: 1, 3: 2}
	got := AlignItems(tree, [][]int{{1}, {4}}, columns)
	want := [][]int{{1, 2, 3}, {4, 5, -1}}
	if !itemsEqual(got, want) {
		t.Errorf("cells %v, want %v", got, want)
	}

	// Two nodes of one item in the same column: the later one is kept.
	got = AlignItems(tree, [][]int{{1}}, map[int]int{2: 0, 3: 0})
	if !itemsEqual(got, [][]int{{3}}) {
		t.Errorf("cells %v, want [[3]]", got)
	}

	got = AlignItems(tree, [][]int{{1}, {4}}, nil)
	if len(got) != 2 || len(got[0]) != 0 || len(got[1]) != 0 {
		t.Errorf("cells %v, want two empty rows", got)
	}
}

func TestItemPaths(t *testing.T) {
	tree, _ := listEntries(t, 1)
	labels := []int{-1, -1, 0, 1, 2, 3}

	paths := itemPaths(tree, []int{2}, labels)
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
	if paths[0].node != 3 || !intsEqual(paths[0].labels, []int{1, 0}) {
		t.Errorf("first path = %+v, want node 3 labels [1 0]", paths[0])
	}
	if paths[2].node != 5 || !intsEqual(paths[2].labels, []int{3, 0}) {
		t.Errorf("last path = %+v, want node 5 labels [3 0]", paths[2])
	}

	// A leaf root is its own single path.
	if leaf := itemPaths(tree, []int{4}, labels); len(leaf) != 1 || leaf[0].node != 4 {
		t.Errorf("leaf root paths = %+v, want one path for node 4", leaf)
	}
}

func TestExtractItemTable_ListEntries(t *testing.T) {
	tree, _ := listEntries(t, 8)
	labels := []int{-1, -1}
	var items [][]int
	for k := 0; k < 8; k++ {
		labels = append(labels, 0, 1, 2, 3)
		items = append(items, []int{2 + 4*k})
	}

	cfg := DefaultConfig()
	applyDefaults(&cfg)
	table := ExtractItemTable(tree, items, labels, cfg)

	if !itemsEqual(table.Items, items) {
		t.Errorf("items %v, want %v", table.Items, items)
	}
	for r, row := range table.Cells {
		li := 2 + 4*r
		want := []int{li + 1, li + 2, li + 3}
		if !intsEqual(row, want) {
			t.Errorf("row %d = %v, want %v", r, row, want)
		}
	}
}

func TestExtractItemTable_NodeBudget(t *testing.T) {
	tree, _ := listEntries(t, 8)
	labels := []int{-1, -1}
	var items [][]int
	for k := 0; k < 8; k++ {
		labels = append(labels, 0, 1, 2, 3)
		items = append(items, []int{2 + 4*k})
	}

	cfg := DefaultConfig()
	applyDefaults(&cfg)
	cfg.MaxAlignmentNodes = 10
	table := ExtractItemTable(tree, items, labels, cfg)

	if len(table.Cells) != 8 {
		t.Fatalf("got %d rows, want 8", len(table.Cells))
	}
	for r, row := range table.Cells {
		if len(row) != 0 {
			t.Errorf("row %d = %v, want no columns", r, row)
		}
	}
}
