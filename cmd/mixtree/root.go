package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/mixtree"
	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/cluster"
	"github.com/arloliu/mixtree/mixw"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mixtree <clusterCount> <input> <output>",
		Short: "Cluster mixture weights into a pruned tree file",
		Long: `mixtree reads an s3 mixture weight file, floors and normalizes it,
clusters every distribution into a binary merge tree, prunes the tree to
clusterCount shared clusters and writes the pruned map.

The output file is replaced atomically; on any failure it is left untouched.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runPrune,
	}
	addPersistentFlags(cmd)

	cmd.AddCommand(newTreeCommand(), newTransferCommand(), newInspectCommand())

	return cmd
}

// env bundles what every command needs once flags are resolved.
type env struct {
	cfg     *config
	log     *slog.Logger
	cluster []cluster.Option
	encode  []blob.EncoderOption
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	clusterOpts, err := cfg.clusterOptions()
	if err != nil {
		return nil, err
	}
	clusterOpts = append(clusterOpts, cluster.WithLogger(log), cluster.WithObserver(cluster.LogObserver(log)))

	encodeOpts, err := cfg.encoderOptions()
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, cluster: clusterOpts, encode: encodeOpts}, nil
}

// loadTable reads and floors an input table.
func (e *env) loadTable(path string) (*mixw.Table, error) {
	tbl, err := mixtree.ReadTableFile(path)
	if err != nil {
		return nil, err
	}
	n, f, d := tbl.Shape()
	e.log.Info("table loaded",
		slog.String("path", path),
		slog.Int("items", n),
		slog.Int("features", f),
		slog.Int("density", d),
	)
	report := tbl.Duplicates()
	if len(report.Groups) > 0 {
		e.log.Warn("identical distributions merge at zero divergence",
			slog.Int("groups", len(report.Groups)),
			slog.Any("first", report.Groups[0]),
		)
	}
	if report.HashCollisions > 0 {
		e.log.Debug("distinct distributions share a content hash",
			slog.Int("collisions", report.HashCollisions),
		)
	}

	return mixtree.NormFloor(tbl, e.cfg.Floor), nil
}

func runPrune(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid cluster count %q", args[0])
	}
	input, output := args[1], args[2]

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	tbl, err := e.loadTable(input)
	if err != nil {
		return err
	}
	if count < 1 || count > tbl.Len() {
		return fmt.Errorf("cluster count %d not in [1, %d]", count, tbl.Len())
	}

	root, err := mixtree.Cluster(cmd.Context(), tbl, e.cluster...)
	if err != nil {
		return err
	}

	clusters, err := mixtree.Prune(root, count)
	if err != nil {
		return err
	}

	if err := mixtree.WritePrunedFile(output, clusters, e.encode...); err != nil {
		return err
	}
	e.log.Info("pruned tree written",
		slog.String("path", output),
		slog.Int("clusters", len(clusters)),
		slog.String("tree", fmt.Sprintf("%016x", root.Fingerprint())),
	)

	return nil
}
