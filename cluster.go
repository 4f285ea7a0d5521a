package itemex

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ClusterTree labels every node of t with a cluster id (-1 = noise) using the
// similarity kernel K. It is the clustering stage of Extract exposed on its
// own; see ClusterConfig for the parameters.
func ClusterTree(t Tree, K mat.Symmetric, cfg ClusterConfig) ([]int, error) {
	applyClusterDefaults(&cfg)
	if err := validateClusterConfig(&cfg); err != nil {
		return nil, err
	}
	n := t.Len()
	if dim := symDim(K); dim != n {
		return nil, fmt.Errorf("itemex: kernel dimension %d does not match tree size %d", dim, n)
	}
	if n == 0 {
		return []int{}, nil
	}
	return clusterDistance(t, CombinedDistance(t, K, cfg.KernelWeight, cfg.SizeWeight), cfg), nil
}

// ClusterDistance runs DBSCAN over the precomputed distance matrix D and,
// unless cfg.DisableSeparation is set, cuts every cluster so that no node
// shares a label with one of its ancestors. Parts smaller than
// cfg.MinClusterSize become noise. Zero-valued config fields take their
// defaults. Returns an error if the config is invalid or D does not match
// the tree.
func ClusterDistance(t Tree, D mat.Symmetric, cfg ClusterConfig) ([]int, error) {
	applyClusterDefaults(&cfg)
	if err := validateClusterConfig(&cfg); err != nil {
		return nil, err
	}
	n := t.Len()
	if dim := symDim(D); dim != n {
		return nil, fmt.Errorf("itemex: distance dimension %d does not match tree size %d", dim, n)
	}
	if n == 0 {
		return []int{}, nil
	}
	return clusterDistance(t, D, cfg), nil
}

// clusterDistance is ClusterDistance for a config that has already been
// defaulted and validated.
func clusterDistance(t Tree, D mat.Symmetric, cfg ClusterConfig) []int {
	log := loggerOrNop(cfg.Logger)
	n := D.SymmetricDim()

	raw := DBSCAN(D, cfg.Eps, cfg.MinClusterSize, cfg.Workers)

	var clusters [][]int
	for _, c := range LabelsToClusters(raw) {
		if len(c) < cfg.MinClusterSize {
			continue
		}
		if cfg.DisableSeparation {
			clusters = append(clusters, c)
			continue
		}
		for _, part := range CutDescendants(t, D, c, cfg.MaxSeparationSize, log) {
			if len(part) >= cfg.MinClusterSize {
				clusters = append(clusters, part)
			}
		}
	}

	log.Debug("clustered tree nodes",
		zap.Int("nodes", n),
		zap.Int("density_clusters", numLabels(raw)),
		zap.Int("clusters", len(clusters)))

	return ClustersToLabels(clusters, n)
}
