package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arloliu/mixtree"
)

func newTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <input> <output>",
		Short: "Write the full merge tree of a mixture weight file",
		Long: `tree clusters every distribution of the input and writes the whole merge
tree. By default all feature streams are clustered together into one merged
tree; --separate clusters each feature stream on its own and stores one
tree per feature.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runTree,
	}
	cmd.Flags().Bool("separate", false, "build one single-feature tree per feature stream")

	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	separate, err := cmd.Flags().GetBool("separate")
	if err != nil {
		return err
	}

	tbl, err := e.loadTable(input)
	if err != nil {
		return err
	}

	if separate {
		roots, err := mixtree.ClusterFeatures(cmd.Context(), tbl, e.cluster...)
		if err != nil {
			return err
		}
		if err := mixtree.WriteTreesFile(output, roots, e.encode...); err != nil {
			return err
		}
		e.log.Info("trees written", slog.String("path", output), slog.Int("trees", len(roots)))

		return nil
	}

	root, err := mixtree.Cluster(cmd.Context(), tbl, e.cluster...)
	if err != nil {
		return err
	}
	if err := mixtree.WriteMergedFile(output, root, e.encode...); err != nil {
		return err
	}
	e.log.Info("merged tree written",
		slog.String("path", output),
		slog.String("tree", fmt.Sprintf("%016x", root.Fingerprint())),
	)

	return nil
}
