package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/tools/inventory"
)

func newToolsCmd(root *rootOptions) *cobra.Command {
	var (
		category      string
		availableOnly bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List known tools, their availability and operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(os.Stderr)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger, false)
			if err != nil {
				return err
			}
			return writeToolTable(cmd.OutOrStdout(), a.inventory.Entries(registry.Category(category), availableOnly))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list tools of this category")
	cmd.Flags().BoolVar(&availableOnly, "available", false, "only list installed tools")
	return cmd
}

func writeToolTable(out io.Writer, entries []inventory.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCATEGORY\tBINARY\tTIMEOUT\tAVAILABLE\tOPERATIONS\n")
	for _, entry := range entries {
		available := "no"
		if entry.Available {
			available = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID, entry.Category, entry.Binary, entry.DefaultTimeout, available, strings.Join(entry.Operations, ","))
	}
	return w.Flush()
}
