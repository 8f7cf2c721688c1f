package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/mixtree"
	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/tree"
)

func newTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <tree> <input> <output>",
		Short: "Rebuild a stored tree over another mixture weight file",
		Long: `transfer keeps the shape of a merged or multi-tree file and recomputes
every centroid from the distributions of input. The output uses the same
variant as the stored tree.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runTransfer,
	}
}

func runTransfer(cmd *cobra.Command, args []string) error {
	treePath, input, output := args[0], args[1], args[2]

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(treePath)
	if err != nil {
		return err
	}
	variant, err := blob.Detect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", treePath, err)
	}

	tbl, err := e.loadTable(input)
	if err != nil {
		return err
	}

	switch variant {
	case format.VariantMerged:
		root, err := blob.DecodeMerged(data)
		if err != nil {
			return fmt.Errorf("%s: %w", treePath, err)
		}
		moved, err := mixtree.Transfer(root, tbl)
		if err != nil {
			return err
		}
		if err := mixtree.WriteMergedFile(output, moved, e.encode...); err != nil {
			return err
		}
	case format.VariantTrees:
		roots, err := blob.DecodeTrees(data)
		if err != nil {
			return fmt.Errorf("%s: %w", treePath, err)
		}
		if len(roots) != tbl.Features() {
			return fmt.Errorf("%w: %d trees for %d feature streams", errs.ErrShapeMismatch, len(roots), tbl.Features())
		}
		moved := make([]*tree.Node, len(roots))
		for f, root := range roots {
			if moved[f], err = tree.ApplyTopology(root, tbl.Feature(f)); err != nil {
				return fmt.Errorf("feature %d: %w", f, err)
			}
		}
		if err := mixtree.WriteTreesFile(output, moved, e.encode...); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: a %s file has no tree to transfer", treePath, variant)
	}

	e.log.Info("tree transferred", slog.String("path", output), slog.String("variant", variant.String()))

	return nil
}
