// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/inspire-refs/internal/fetch"
	"github.com/pdiddy/inspire-refs/internal/logger"
	"github.com/pdiddy/inspire-refs/internal/references"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [group...]",
	Short: "Fetch records and print their citation lines",
	Long: `Build fetches every record of the catalog from INSPIRE-HEP, extracts its
citation fields and prints one reference line per record under its group
header. Name one or more groups (papers, proceedings, reports) to restrict
the run.

A record that cannot be fetched or parsed is printed as a placeholder line
carrying the error; the remaining records are unaffected and the command
still exits successfully.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Int("workers", 1, "records fetched concurrently")
	buildCmd.Flags().String("format", string(types.OutputText), "output format: text, json, or csl")
	buildCmd.Flags().Bool("progress", false, "show a progress bar on stderr")

	viper.BindPFlag("build.workers", buildCmd.Flags().Lookup("workers"))
	viper.BindPFlag("build.format", buildCmd.Flags().Lookup("format"))
	viper.BindPFlag("build.progress", buildCmd.Flags().Lookup("progress"))

	rootCmd.AddCommand(buildCmd)
}

// buildConfig assembles the build settings from flags, environment, and
// config file.
func buildConfig() (types.BuildConfig, error) {
	cfg := types.BuildConfig{
		Fetch:    fetchConfig(),
		Workers:  viper.GetInt("build.workers"),
		Format:   types.OutputFormat(viper.GetString("build.format")),
		Progress: viper.GetBool("build.progress"),
	}
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("unknown output format %q: use text, json, or csl", cfg.Format)
	}
	if cfg.Workers < 1 {
		return cfg, fmt.Errorf("--workers must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	c, err := loadCatalog(args)
	if err != nil {
		return err
	}

	f := fetch.New(httpClient, cfg.Fetch).WithLogger(log)
	b := references.NewBuilder(f, log, cfg.Workers)

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = newProgressBar(c.Len(), "Fetching records", cmd.ErrOrStderr())
	}
	b.OnResult = func(res references.Result) {
		log.Debug("record done",
			logger.String("id", string(res.Record.ID)),
			logger.Bool("ok", res.OK()),
			logger.Duration("elapsed", res.Elapsed))
		if bar != nil {
			bar.Add(1)
		}
	}

	log.Info("starting build",
		logger.String("host", f.Config().Host),
		logger.Int("records", c.Len()),
		logger.Int("workers", cfg.Workers),
		logger.Bool("progress", cfg.Progress))

	report := b.Build(cmd.Context(), c)
	if bar != nil {
		bar.Finish()
	}
	if err := report.Render(cfg.Format, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	printSummary(cmd.ErrOrStderr(), report.Summary())
	return nil
}

func newProgressBar(total int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// printSummary writes the batch counts to w, highlighting failures.
func printSummary(w io.Writer, s references.BatchSummary) {
	if s.Total() == 0 {
		return
	}
	failed := fmt.Sprintf("%d failed", s.Failed)
	if s.HasFailures() {
		failed = color.RedString("%s (%d network, %d parse)", failed, s.Network, s.Parse)
	}
	fmt.Fprintf(w, "Batch summary: %s, %s, total: %d\n",
		color.GreenString("%d built", s.Built), failed, s.Total())
	if s.Empty > 0 {
		fmt.Fprintln(w, color.YellowString("%d record(s) had no citation fields", s.Empty))
	}
}
