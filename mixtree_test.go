package mixtree

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/cluster"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/mixw"
	"github.com/arloliu/mixtree/tree"
)

func randomTable(t *testing.T, seed int64, items, feats, density int) *mixw.Table {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	raw := make([][][]float64, items)
	for i := range raw {
		raw[i] = make([][]float64, feats)
		for f := range raw[i] {
			raw[i][f] = make([]float64, density)
			for k := range raw[i][f] {
				raw[i][f][k] = rng.ExpFloat64()
			}
		}
	}
	tbl, err := mixw.FromSlices(raw)
	require.NoError(t, err)

	return NormFloor(tbl, mixw.DefaultFloor)
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	tbl := randomTable(t, 7, 24, 2, 8)

	tablePath := filepath.Join(dir, "means.mixw")
	require.NoError(t, WriteTableFile(tablePath, tbl, endian.GetLittleEndianEngine()))
	loaded, err := ReadTableFile(tablePath)
	require.NoError(t, err)

	root, err := Cluster(context.Background(), loaded, cluster.WithWorkers(2))
	require.NoError(t, err)
	require.Equal(t, 24, root.Size())

	clusters, err := Prune(root, 5)
	require.NoError(t, err)
	require.Len(t, clusters, 5)

	out := filepath.Join(dir, "mixw.tree")
	require.NoError(t, WritePrunedFile(out, clusters))

	m, err := ReadPrunedFile(out)
	require.NoError(t, err)
	require.Equal(t, 5, m.NumClusters())
	require.Equal(t, 24, m.NumItems())
	require.Equal(t, 2, m.Features())
	require.Equal(t, 8, m.Density())

	want, err := tree.Assignments(clusters, 24)
	require.NoError(t, err)
	require.Equal(t, want, m.Assignments)

	info, err := InspectFile(out)
	require.NoError(t, err)
	require.Equal(t, format.VariantPruned, info.Variant)
}

func TestPrune_Bounds(t *testing.T) {
	root, err := Cluster(context.Background(), randomTable(t, 1, 4, 1, 3))
	require.NoError(t, err)

	for _, n := range []int{0, -1, 5} {
		_, err := Prune(root, n)
		require.ErrorIs(t, err, errs.ErrInvalidClusterCount, "n=%d", n)
	}

	clusters, err := Prune(root, 4)
	require.NoError(t, err)
	require.Len(t, clusters, 4)

	_, err = Prune(nil, 1)
	require.ErrorIs(t, err, errs.ErrNilTree)
}

func TestMergedFile(t *testing.T) {
	tbl := randomTable(t, 3, 10, 3, 4)
	root, err := Cluster(context.Background(), tbl)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "merged.tree")
	require.NoError(t, WriteMergedFile(path, root, blob.WithBigEndian()))

	got, err := ReadMergedFile(path)
	require.NoError(t, err)
	require.Equal(t, root.Leaves(), got.Leaves())
	require.Equal(t, 3, got.Features())
}

func TestClusterFeatures(t *testing.T) {
	tbl := randomTable(t, 5, 9, 3, 4)

	roots, err := ClusterFeatures(context.Background(), tbl)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	for f, root := range roots {
		require.Equal(t, 1, root.Features(), "feature %d", f)
		require.Equal(t, 9, root.Size(), "feature %d", f)
	}

	path := filepath.Join(t.TempDir(), "trees.tree")
	require.NoError(t, WriteTreesFile(path, roots))

	got, err := ReadTreesFile(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for f := range got {
		require.Equal(t, roots[f].Leaves(), got[f].Leaves())
	}
}

func TestTransfer(t *testing.T) {
	root, err := Cluster(context.Background(), randomTable(t, 11, 6, 1, 4))
	require.NoError(t, err)

	other := randomTable(t, 12, 6, 1, 4)
	moved, err := Transfer(root, other)
	require.NoError(t, err)
	require.Equal(t, root.Leaves(), moved.Leaves())

	for _, leaf := range []int{0, 5} {
		require.Equal(t, other.Item(leaf), findLeaf(moved, leaf).Centroid())
	}
}

func TestWritePrunedFile_FailureLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tree")

	err := WritePrunedFile(path, nil)
	require.ErrorIs(t, err, errs.ErrInvalidClusterCount)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func findLeaf(n *tree.Node, item int) *tree.Node {
	if n.IsLeaf() {
		if n.Item() == item {
			return n
		}

		return nil
	}
	if l := findLeaf(n.Left(), item); l != nil {
		return l
	}

	return findLeaf(n.Right(), item)
}
