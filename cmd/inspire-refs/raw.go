// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/inspire-refs/internal/fetch"
	"github.com/pdiddy/inspire-refs/internal/logger"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

var rawCmd = &cobra.Command{
	Use:   "raw [group...]",
	Short: "Print the unprocessed CV-format documents",
	Long: `Raw fetches the CV-format HTML of every catalog record, or of the records
given with --id, and writes the documents to stdout unchanged and in order.
It is useful for inspecting what the extraction heuristics see.

Records that cannot be fetched are reported on stderr and skipped.`,
	RunE: runRaw,
}

func init() {
	rawCmd.Flags().StringSlice("id", nil, "record identifiers to fetch instead of the catalog")

	rootCmd.AddCommand(rawCmd)
}

func runRaw(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("id")

	var records []types.RecordID
	if len(ids) > 0 {
		if len(args) > 0 {
			return fmt.Errorf("give either group names or --id, not both")
		}
		for _, id := range ids {
			records = append(records, types.RecordID(id))
		}
	} else {
		c, err := loadCatalog(args)
		if err != nil {
			return err
		}
		for _, g := range c.Groups {
			records = append(records, g.IDs()...)
		}
	}

	f := fetch.New(httpClient, fetchConfig()).WithLogger(log)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	for _, id := range records {
		body, err := f.Fetch(cmd.Context(), id)
		if err != nil {
			log.Warn("fetch failed", logger.String("id", string(id)), logger.Error(err))
			fmt.Fprintln(errOut, color.RedString("failed:  %s (%v)", id, err))
			failed++
			continue
		}
		if _, err := out.Write(body); err != nil {
			return fmt.Errorf("writing record %s: %w", id, err)
		}
	}
	if failed > 0 {
		fmt.Fprintf(errOut, "%d of %d record(s) could not be fetched\n", failed, len(records))
	}
	return nil
}
