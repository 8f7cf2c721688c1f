package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mixtree"
	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/mixw"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeTable(t *testing.T, dir string, seed int64, items, feats, density int) string {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	raw := make([][][]float64, items)
	for i := range raw {
		raw[i] = make([][]float64, feats)
		for f := range raw[i] {
			raw[i][f] = make([]float64, density)
			for k := range raw[i][f] {
				raw[i][f][k] = rng.Float64()
			}
		}
	}
	tbl, err := mixw.FromSlices(raw)
	require.NoError(t, err)

	path := filepath.Join(dir, "input-"+strconv.FormatInt(seed, 10)+".mixw")
	require.NoError(t, mixtree.WriteTableFile(path, tbl, endian.GetLittleEndianEngine()))

	return path
}

func requireMissing(t *testing.T, path string) {
	t.Helper()

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "%s should not exist", path)
}

func TestRoot_WritesPrunedFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 1, 12, 2, 6)
	output := filepath.Join(dir, "out.tree")

	_, stderr, err := execute(t, "4", input, output, "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, stderr, "pruned tree written")

	m, err := mixtree.ReadPrunedFile(output)
	require.NoError(t, err)
	require.Equal(t, 4, m.NumClusters())
	require.Equal(t, 12, m.NumItems())
	require.Equal(t, 2, m.Features())
}

func TestRoot_FailuresLeaveNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 2, 5, 1, 4)

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero clusters", args: []string{"0", input}},
		{name: "too many clusters", args: []string{"6", input}},
		{name: "not a number", args: []string{"four", input}},
		{name: "missing input", args: []string{"2", filepath.Join(dir, "nope.mixw")}},
		{name: "bad metric", args: []string{"2", input, "--metric", "cosine"}},
		{name: "bad compression", args: []string{"2", input, "--compress", "gzip"}},
		{name: "bad log level", args: []string{"2", input, "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, tt.name+".tree")
			args := append([]string{tt.args[0], tt.args[1], output}, tt.args[2:]...)

			_, _, err := execute(t, args...)
			require.Error(t, err)
			requireMissing(t, output)
		})
	}

	t.Run("wrong arg count", func(t *testing.T) {
		_, _, err := execute(t, "2", input)
		require.Error(t, err)
	})
}

func TestRoot_AllClustersKeepsEveryItem(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 3, 5, 1, 4)
	output := filepath.Join(dir, "out.tree")

	_, _, err := execute(t, "5", input, output)
	require.NoError(t, err)

	m, err := mixtree.ReadPrunedFile(output)
	require.NoError(t, err)
	for c := range m.NumClusters() {
		require.Len(t, m.Members(c), 1)
	}
}

func TestTree(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 4, 8, 3, 4)

	t.Run("merged", func(t *testing.T) {
		output := filepath.Join(dir, "merged.tree")
		_, _, err := execute(t, "tree", input, output)
		require.NoError(t, err)

		root, err := mixtree.ReadMergedFile(output)
		require.NoError(t, err)
		require.Equal(t, 8, root.Size())
		require.Equal(t, 3, root.Features())
	})

	t.Run("separate", func(t *testing.T) {
		output := filepath.Join(dir, "trees.tree")
		_, _, err := execute(t, "tree", "--separate", input, output)
		require.NoError(t, err)

		roots, err := mixtree.ReadTreesFile(output)
		require.NoError(t, err)
		require.Len(t, roots, 3)
	})
}

func TestTransfer(t *testing.T) {
	dir := t.TempDir()
	first := writeTable(t, dir, 5, 6, 2, 4)
	second := writeTable(t, dir, 6, 6, 2, 4)

	for _, separate := range []bool{false, true} {
		name := "merged"
		if separate {
			name = "separate"
		}
		t.Run(name, func(t *testing.T) {
			stored := filepath.Join(dir, name+".tree")
			args := []string{"tree", first, stored}
			if separate {
				args = append(args, "--separate")
			}
			_, _, err := execute(t, args...)
			require.NoError(t, err)

			output := filepath.Join(dir, name+"-moved.tree")
			_, _, err = execute(t, "transfer", stored, second, output)
			require.NoError(t, err)

			before, err := mixtree.InspectFile(stored)
			require.NoError(t, err)
			after, err := mixtree.InspectFile(output)
			require.NoError(t, err)
			require.Equal(t, before.Variant, after.Variant)
			require.Equal(t, before.Nodes, after.Nodes)
		})
	}

	t.Run("pruned input", func(t *testing.T) {
		pruned := filepath.Join(dir, "pruned.tree")
		_, _, err := execute(t, "2", first, pruned)
		require.NoError(t, err)

		output := filepath.Join(dir, "pruned-moved.tree")
		_, _, err = execute(t, "transfer", pruned, second, output)
		require.Error(t, err)
		requireMissing(t, output)
	})
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 7, 6, 1, 4)
	output := filepath.Join(dir, "out.tree")

	_, _, err := execute(t, "3", input, output, "--compress", "s2", "--big-endian")
	require.NoError(t, err)

	stdout, _, err := execute(t, "inspect", output)
	require.NoError(t, err)
	require.Regexp(t, `variant\s+Pruned`, stdout)
	require.Regexp(t, `byte order\s+big`, stdout)
	require.Regexp(t, `compression\s+S2`, stdout)
	require.Regexp(t, `clusters\s+3`, stdout)
	require.Regexp(t, `header n_sen\s+6`, stdout)

	_, _, err = execute(t, "inspect", input)
	require.Error(t, err)
}

func TestConfig_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTable(t, dir, 8, 6, 1, 4)

	t.Run("environment", func(t *testing.T) {
		t.Setenv("MIXTREE_COMPRESS", "zstd")
		t.Setenv("MIXTREE_BIG_ENDIAN", "true")

		output := filepath.Join(dir, "env.tree")
		_, _, err := execute(t, "2", input, output)
		require.NoError(t, err)

		info, err := mixtree.InspectFile(output)
		require.NoError(t, err)
		require.Equal(t, format.CompressionZstd, info.Compression)
		require.True(t, info.BigEndian)
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv("MIXTREE_COMPRESS", "zstd")

		output := filepath.Join(dir, "flag.tree")
		_, _, err := execute(t, "2", input, output, "--compress", "lz4")
		require.NoError(t, err)

		info, err := mixtree.InspectFile(output)
		require.NoError(t, err)
		require.Equal(t, format.CompressionLZ4, info.Compression)
	})

	t.Run("config file", func(t *testing.T) {
		cfgPath := filepath.Join(dir, "mixtree.yaml")
		cfg := "metric: kl\nbig-endian: true\nlog-format: json\nlog-level: debug\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

		output := filepath.Join(dir, "cfg.tree")
		_, stderr, err := execute(t, "2", input, output, "--config", cfgPath)
		require.NoError(t, err)
		require.Contains(t, stderr, `"msg":"merge"`)
		require.Contains(t, stderr, `"metric":"kl"`)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		m, err := blob.DecodePruned(data)
		require.NoError(t, err)
		require.Equal(t, 2, m.NumClusters())

		info, err := mixtree.InspectFile(output)
		require.NoError(t, err)
		require.True(t, info.BigEndian)
	})

	t.Run("missing config file", func(t *testing.T) {
		output := filepath.Join(dir, "nocfg.tree")
		_, _, err := execute(t, "2", input, output, "--config", filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		requireMissing(t, output)
	})
}

func TestRoot_WarnsOnDuplicates(t *testing.T) {
	dir := t.TempDir()
	tbl, err := mixw.FromRows([][]float64{{0.3, 0.7}, {0.9, 0.1}, {0.3, 0.7}})
	require.NoError(t, err)
	input := filepath.Join(dir, "dups.mixw")
	require.NoError(t, mixtree.WriteTableFile(input, tbl, endian.GetBigEndianEngine()))

	output := filepath.Join(dir, "out.tree")
	_, stderr, err := execute(t, "2", input, output)
	require.NoError(t, err)
	require.Contains(t, stderr, "identical distributions")
	require.Contains(t, stderr, "groups=1")
}
