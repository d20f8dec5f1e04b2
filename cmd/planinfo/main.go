// Command planinfo inspects plan drawing documents without opening the GUI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"planview/internal/drawing"
	"planview/internal/snap"
	"planview/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:   "planinfo <drawing.json> [...]",
		Short: "Print entity, primitive, and snap candidate statistics for plan drawings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			for _, path := range args {
				if err := describe(cmd, path, verbose); err != nil {
					return err
				}
			}
			return nil
		},
	}
	root.Flags().BoolP("verbose", "v", false, "list flattened primitives")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the planinfo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func describe(cmd *cobra.Command, path string, verbose bool) error {
	doc, err := drawing.LoadDocument(path)
	if err != nil {
		return err
	}

	primitives, stats := drawing.Flatten(doc)
	index := snap.Build(primitives)
	bounds := drawing.Bounds(primitives)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	if doc.Name != "" {
		fmt.Fprintf(out, "  name:       %s\n", doc.Name)
	}
	if doc.Units != "" {
		fmt.Fprintf(out, "  units:      %s\n", doc.Units)
	}
	fmt.Fprintf(out, "  entities:   %d (%d blocks)\n", stats.Entities, len(doc.Blocks))
	fmt.Fprintf(out, "  primitives: %d (%d skipped, insert depth %d)\n",
		stats.Emitted, stats.Skipped, stats.MaxDepth)
	fmt.Fprintf(out, "  candidates: %d\n", index.Len())

	endpoints, midpoints := 0, 0
	for _, c := range index.Candidates() {
		switch c.Kind {
		case snap.KindEndpoint:
			endpoints++
		case snap.KindMidpoint:
			midpoints++
		}
	}
	fmt.Fprintf(out, "    endpoints: %d, midpoints: %d\n", endpoints, midpoints)
	fmt.Fprintf(out, "  bounds:     (%.3f, %.3f) to (%.3f, %.3f)\n",
		bounds.Min().X, bounds.Min().Y, bounds.Max().X, bounds.Max().Y)

	if verbose {
		for _, p := range primitives {
			fmt.Fprintf(out, "    %-12s %s (%d vertices)\n", p.Kind, p.SourceID, len(p.Vertices()))
		}
	}
	return nil
}
