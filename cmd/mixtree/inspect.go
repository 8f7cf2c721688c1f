package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/mixtree"
	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/format"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "inspect <file>",
		Short:        "Summarize a tree file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := mixtree.InspectFile(args[0])
			if err != nil {
				return err
			}

			return printInfo(cmd.OutOrStdout(), info)
		},
	}
}

func printInfo(w io.Writer, info *blob.Info) error {
	order := "little"
	if info.BigEndian {
		order = "big"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "variant\t%s\n", info.Variant)
	fmt.Fprintf(tw, "version\t%s\n", info.Version)
	fmt.Fprintf(tw, "byte order\t%s\n", order)
	fmt.Fprintf(tw, "compression\t%s\n", info.Compression)
	fmt.Fprintf(tw, "file size\t%d\n", info.FileSize)
	fmt.Fprintf(tw, "body size\t%d\n", info.BodySize)
	if info.Variant == format.VariantPruned {
		fmt.Fprintf(tw, "clusters\t%d\n", info.Clusters)
		fmt.Fprintf(tw, "items\t%d\n", info.Items)
	} else {
		fmt.Fprintf(tw, "trees\t%d\n", info.Trees)
		fmt.Fprintf(tw, "nodes\t%d\n", info.Nodes)
	}
	fmt.Fprintf(tw, "fingerprint\t%016x\n", info.Fingerprint)
	for _, f := range info.Fields {
		fmt.Fprintf(tw, "header %s\t%s\n", f.Key, f.Value)
	}

	return tw.Flush()
}
