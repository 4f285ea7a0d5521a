package itemex

import (
	"fmt"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ClusterConfig controls how tree nodes are clustered.
// Start with [DefaultClusterConfig] and override the fields you need.
type ClusterConfig struct {
	// MinClusterSize is the DBSCAN neighborhood size (the node itself
	// included) that makes a node a core point, and the smallest cluster
	// kept after descendant separation. Must be >= 1. Default: 6.
	MinClusterSize int

	// Eps is the DBSCAN neighborhood radius. Must be > 0. Default: 1.2.
	Eps float64

	// KernelWeight scales the distance derived from the similarity kernel.
	// Must be >= 0. Default: 1.0.
	KernelWeight float64

	// SizeWeight scales the boosted subtree-size distance. Must be >= 0.
	// Default: 0.1 for ClusterTree, 1.0 for Extract.
	SizeWeight float64

	// DisableSeparation keeps nodes in the same cluster as their ancestors.
	// Default: false (ancestors and descendants are always split).
	DisableSeparation bool

	// MaxSeparationSize bounds the O(n²) descendant separation: larger
	// clusters are kept whole. 0 means unlimited. Default: 2000.
	MaxSeparationSize int

	// Workers controls the number of goroutines used for neighborhood
	// queries and item alignment. 0 means runtime.NumCPU().
	Workers int

	// Logger receives debug and warning events. nil disables logging.
	Logger *zap.Logger
}

// Config controls the full extraction pipeline.
type Config struct {
	ClusterConfig

	// MinItems is the smallest number of items a group must have to be
	// reported. Must be >= 1. Default: 6.
	MinItems int

	// MaxItemsCutFraction is the largest fraction of items that may be
	// longer than the most common item length before the whole group is
	// rejected. Must be in [0, 1]. Default: 0.33.
	MaxItemsCutFraction float64

	// ScoreNeighbors is the k of the k-nearest-neighbor graph used to rank
	// clusters. Must be >= 1. Default: 4.
	ScoreNeighbors int

	// MaxAlignmentNodes bounds column alignment: item groups with more
	// leaves get no columns. 0 means unlimited. Default: 4000.
	MaxAlignmentNodes int

	// Seed feeds the random source of the cluster ranking. Equal seeds give
	// equal results. Default: 0.
	Seed int64
}

// ItemTable is one group of repeating items aligned into columns.
type ItemTable struct {
	// Items lists the root nodes of every item, one row per item.
	Items [][]int

	// Cells[r][c] is the node of item r in column c, or -1 when absent.
	Cells [][]int
}

// FragmentTable is an ItemTable with node indices replaced by source ranges.
type FragmentTable struct {
	Items [][]Fragment
	Cells [][]Fragment
}

// Result contains the output of Extract.
type Result struct {
	// Labels is the cluster id of every node (-1 = noise), before overlap
	// resolution.
	Labels []int

	// Tables holds one aligned table per repeating item group.
	Tables []ItemTable

	// Fragments mirrors Tables with source ranges instead of node indices.
	Fragments []FragmentTable
}

// DefaultClusterConfig returns the clustering defaults used by ClusterTree.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		MinClusterSize:    6,
		Eps:               1.2,
		KernelWeight:      1.0,
		SizeWeight:        0.1,
		MaxSeparationSize: 2000,
	}
}

// DefaultConfig returns the defaults used by Extract.
func DefaultConfig() Config {
	cc := DefaultClusterConfig()
	cc.SizeWeight = 1.0
	return Config{
		ClusterConfig:       cc,
		MinItems:            6,
		MaxItemsCutFraction: 0.33,
		ScoreNeighbors:      4,
		MaxAlignmentNodes:   4000,
	}
}

// applyClusterDefaults fills in zero-valued fields that have no meaningful
// zero setting.
func applyClusterDefaults(cfg *ClusterConfig) {
	if cfg.MinClusterSize == 0 {
		cfg.MinClusterSize = 6
	}
	if cfg.Eps == 0 {
		cfg.Eps = 1.2
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Logger = loggerOrNop(cfg.Logger)
}

func applyDefaults(cfg *Config) {
	applyClusterDefaults(&cfg.ClusterConfig)
	if cfg.MinItems == 0 {
		cfg.MinItems = 6
	}
	if cfg.ScoreNeighbors == 0 {
		cfg.ScoreNeighbors = 4
	}
}

// validateClusterConfig checks that cfg fields are valid and returns a
// descriptive error if not.
func validateClusterConfig(cfg *ClusterConfig) error {
	if cfg.MinClusterSize < 1 {
		return fmt.Errorf("itemex: MinClusterSize must be >= 1, got %d", cfg.MinClusterSize)
	}
	if !(cfg.Eps > 0) {
		return fmt.Errorf("itemex: Eps must be > 0, got %f", cfg.Eps)
	}
	if cfg.KernelWeight < 0 {
		return fmt.Errorf("itemex: KernelWeight must be >= 0, got %f", cfg.KernelWeight)
	}
	if cfg.SizeWeight < 0 {
		return fmt.Errorf("itemex: SizeWeight must be >= 0, got %f", cfg.SizeWeight)
	}
	if cfg.MaxSeparationSize < 0 {
		return fmt.Errorf("itemex: MaxSeparationSize must be >= 0, got %d", cfg.MaxSeparationSize)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("itemex: Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if err := validateClusterConfig(&cfg.ClusterConfig); err != nil {
		return err
	}
	if cfg.MinItems < 1 {
		return fmt.Errorf("itemex: MinItems must be >= 1, got %d", cfg.MinItems)
	}
	if cfg.MaxItemsCutFraction < 0 || cfg.MaxItemsCutFraction > 1 {
		return fmt.Errorf("itemex: MaxItemsCutFraction must be in [0, 1], got %f", cfg.MaxItemsCutFraction)
	}
	if cfg.ScoreNeighbors < 1 {
		return fmt.Errorf("itemex: ScoreNeighbors must be >= 1, got %d", cfg.ScoreNeighbors)
	}
	if cfg.MaxAlignmentNodes < 0 {
		return fmt.Errorf("itemex: MaxAlignmentNodes must be >= 0, got %d", cfg.MaxAlignmentNodes)
	}
	return nil
}

// loggerOrNop returns l, or a no-op logger when l is nil.
func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// symDim returns the dimension of K, treating a nil matrix as empty.
func symDim(K mat.Symmetric) int {
	if K == nil {
		return 0
	}
	return K.SymmetricDim()
}

// emptyResult returns a Result with non-nil, empty slices for n nodes.
func emptyResult(n int) *Result {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	return &Result{
		Labels:    labels,
		Tables:    []ItemTable{},
		Fragments: []FragmentTable{},
	}
}

// Extract finds the repeating items of t and aligns their fields.
// K is the n×n structural similarity between the subtrees of t. Finding
// nothing is not an error: the result then has no tables. Returns an error
// if the config is invalid or K does not match the tree.
func Extract(t Tree, K mat.Symmetric, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := t.Len()
	if dim := symDim(K); dim != n {
		return nil, fmt.Errorf("itemex: kernel dimension %d does not match tree size %d", dim, n)
	}
	if n <= 1 {
		return emptyResult(n), nil
	}

	D := CombinedDistance(t, K, cfg.KernelWeight, cfg.SizeWeight)
	labels := clusterDistance(t, D, cfg.ClusterConfig)

	rng := rand.New(rand.NewSource(cfg.Seed))
	groups := ExtractItems(t, D, labels, cfg, rng)

	tables := make([]ItemTable, len(groups))
	parallelFor(len(groups), cfg.Workers, func(g int) {
		tables[g] = ExtractItemTable(t, groups[g], labels, cfg)
	})

	fragments := make([]FragmentTable, len(tables))
	for g, table := range tables {
		fragments[g] = TableFragments(t, table)
	}

	cfg.Logger.Debug("extraction finished",
		zap.Int("nodes", n),
		zap.Int("groups", len(tables)))

	return &Result{
		Labels:    labels,
		Tables:    tables,
		Fragments: fragments,
	}, nil
}

// TableFragments maps every node of table through t.Fragment. Absent cells
// become NoFragment.
func TableFragments(t Tree, table ItemTable) FragmentTable {
	ft := FragmentTable{
		Items: make([][]Fragment, len(table.Items)),
		Cells: make([][]Fragment, len(table.Cells)),
	}
	for r, item := range table.Items {
		row := make([]Fragment, len(item))
		for k, root := range item {
			row[k] = t.Fragment(root)
		}
		ft.Items[r] = row
	}
	for r, cells := range table.Cells {
		row := make([]Fragment, len(cells))
		for c, node := range cells {
			if node < 0 {
				row[c] = NoFragment
				continue
			}
			row[c] = t.Fragment(node)
		}
		ft.Cells[r] = row
	}
	return ft
}
