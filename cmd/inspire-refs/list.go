// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/inspire-refs/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list [group...]",
	Short: "Print the record catalog",
	Long: `List prints the configured catalog: each group with its header and the
record identifiers it contains, together with their notes. Use --yaml to
print the catalog in the form accepted by --catalog.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("yaml", false, "print the catalog as YAML")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	asYAML, _ := cmd.Flags().GetBool("yaml")

	c, err := loadCatalog(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if asYAML {
		return catalog.Write(c, w)
	}

	heading := color.New(color.FgCyan, color.Bold).SprintFunc()
	for i, g := range c.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := g.Title
		if title == "" {
			title = "(no header)"
		}
		fmt.Fprintf(w, "%s %s\n", heading(g.Name), color.HiBlackString("%s, %d record(s)", title, len(g.Records)))
		for _, r := range g.Records {
			if r.Note != "" {
				fmt.Fprintf(w, "  %-10s %s\n", r.ID, r.Note)
			} else {
				fmt.Fprintf(w, "  %s\n", r.ID)
			}
		}
	}
	return nil
}
