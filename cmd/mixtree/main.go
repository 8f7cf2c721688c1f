// Command mixtree clusters s3 mixture weights into a pruned tree file.
//
//	mixtree <clusterCount> <input.mixw> <output>
//
// Subcommands write full trees, transfer a stored tree onto another table
// and inspect files produced by the tool.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
