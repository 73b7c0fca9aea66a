package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/dragon/internal/demo"
)

func newDemosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demos",
		Short: "List the bundled diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range demo.All() {
				fmt.Fprintf(w, "%s\t%dx%d\t%s\n", d.Name, d.Width, d.Height, d.Description)
			}
			return w.Flush()
		},
	}
}

func lookupDemo(name string) (demo.Demo, error) {
	d, ok := demo.Lookup(name)
	if !ok {
		return demo.Demo{}, fmt.Errorf("unknown demo %q (see 'dragon demos')", name)
	}
	return d, nil
}
