// Package mixtree clusters mixture-weight distributions into a binary merge
// tree and reads and writes the s3 tree formats built from it.
//
// The typical pipeline loads a mixture-weight table, floors it, clusters it
// and prunes the resulting tree down to a fixed number of shared clusters:
//
//	tbl, _ := mixtree.ReadTableFile("means.mixw")
//	tbl = mixtree.NormFloor(tbl, mixw.DefaultFloor)
//	root, _ := mixtree.Cluster(ctx, tbl)
//	clusters, _ := mixtree.Prune(root, 256)
//	_ = mixtree.WritePrunedFile("mixw.tree", clusters)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the cluster,
// tree and blob packages. For fine-grained control use those packages
// directly.
package mixtree

import (
	"context"
	"fmt"
	"os"

	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/cluster"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/fileutil"
	"github.com/arloliu/mixtree/mixw"
	"github.com/arloliu/mixtree/tree"
)

// NormFloor normalizes every distribution of t and clips it into [floor, 1].
// Floored input is a precondition of Cluster: zero mass feeds a logarithm
// and the divergences turn into NaN or Inf.
func NormFloor(t *mixw.Table, floor float64) *mixw.Table {
	return mixw.NormFloor(t, floor)
}

// Cluster builds a merge tree over every item of t, treating all feature
// streams of an item as one multi-feature distribution.
//
// t must be floored (see NormFloor).
func Cluster(ctx context.Context, t *mixw.Table, opts ...cluster.Option) (*tree.Node, error) {
	engine, err := cluster.New(opts...)
	if err != nil {
		return nil, err
	}

	return engine.Cluster(ctx, t)
}

// ClusterFeatures builds one independent single-feature merge tree per
// feature stream of t, in feature order.
func ClusterFeatures(ctx context.Context, t *mixw.Table, opts ...cluster.Option) ([]*tree.Node, error) {
	engine, err := cluster.New(opts...)
	if err != nil {
		return nil, err
	}

	roots := make([]*tree.Node, t.Features())
	for f := range roots {
		root, err := engine.Cluster(ctx, t.Feature(f))
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", f, err)
		}
		roots[f] = root
	}

	return roots, nil
}

// Prune flattens root into exactly n clusters. n must lie within
// [1, number of leaves].
func Prune(root *tree.Node, n int) ([]tree.Cluster, error) {
	if root == nil {
		return nil, errs.ErrNilTree
	}
	if size := root.Size(); n < 1 || n > size {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", errs.ErrInvalidClusterCount, n, size)
	}

	return tree.Flatten(root, n)
}

// Transfer rebuilds root's shape over the distributions of t.
func Transfer(root *tree.Node, t *mixw.Table) (*tree.Node, error) {
	return tree.ApplyTopology(root, t)
}

// ReadTableFile loads an s3 mixture-weight file.
func ReadTableFile(path string) (*mixw.Table, error) {
	return mixw.ReadFile(path)
}

// WriteTableFile atomically writes t as an s3 mixture-weight file in the
// given byte order.
func WriteTableFile(path string, t *mixw.Table, engine endian.EndianEngine) error {
	return fileutil.WriteBytes(path, mixw.Encode(t, engine))
}

// WritePrunedFile atomically writes clusters in the pruned tree format.
// Nothing is left at path when encoding fails.
func WritePrunedFile(path string, clusters []tree.Cluster, opts ...blob.EncoderOption) error {
	data, err := blob.EncodePruned(clusters, opts...)
	if err != nil {
		return err
	}

	return fileutil.WriteBytes(path, data)
}

// WriteMergedFile atomically writes a multi-feature tree in the merged format.
func WriteMergedFile(path string, root *tree.Node, opts ...blob.EncoderOption) error {
	data, err := blob.EncodeMerged(root, opts...)
	if err != nil {
		return err
	}

	return fileutil.WriteBytes(path, data)
}

// WriteTreesFile atomically writes single-feature trees back to back.
func WriteTreesFile(path string, roots []*tree.Node, opts ...blob.EncoderOption) error {
	data, err := blob.EncodeTrees(roots, opts...)
	if err != nil {
		return err
	}

	return fileutil.WriteBytes(path, data)
}

// ReadPrunedFile decodes a pruned tree file.
func ReadPrunedFile(path string) (*blob.ClusterMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return blob.DecodePruned(data)
}

// ReadMergedFile decodes a merged tree file.
func ReadMergedFile(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return blob.DecodeMerged(data)
}

// ReadTreesFile decodes every tree of a multi-tree file.
func ReadTreesFile(path string) ([]*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return blob.DecodeTrees(data)
}

// InspectFile summarizes any file written by this package.
func InspectFile(path string) (*blob.Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return blob.Inspect(data)
}
