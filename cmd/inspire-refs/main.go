// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the inspire-refs CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/inspire-refs/internal/catalog"
	"github.com/pdiddy/inspire-refs/internal/fetch"
	"github.com/pdiddy/inspire-refs/internal/logger"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// httpClient is handed to fetch.New. Nil gets a client with the configured
// timeout.
var httpClient *http.Client

// log is the diagnostic logger, configured in PersistentPreRunE.
var log logger.Logger = logger.NewNop()

// rootCmd is the base command for the inspire-refs CLI.
var rootCmd = &cobra.Command{
	Use:   "inspire-refs",
	Short: "Build citation lines from INSPIRE-HEP records",
	Long: `inspire-refs fetches the CV-format rendering of INSPIRE-HEP literature
records, extracts the title, collaboration, journal reference, DOI and arXiv
identifier, and prints one citation line per record, grouped under headers.

The records come from a built-in catalog of papers, proceedings and conference
reports, or from a YAML file given with --catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logger.Config{Level: viper.GetString("log.level")})
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./inspire-refs.yaml or ~/.config/inspire-refs/inspire-refs.yaml)")
	flags.String("log-level", logger.DefaultLevel, "log level: debug, info, warn, or error")
	flags.String("catalog", "", "YAML catalog file (default: built-in catalog)")
	flags.String("host", fetch.DefaultHost, "literature API host")
	flags.Duration("timeout", fetch.DefaultTimeout, "per-request HTTP timeout")
	flags.String("user-agent", fetch.DefaultUserAgent, "User-Agent header sent with requests")
	flags.Int("max-retries", 0, "retries on HTTP 429 (0 = single attempt)")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("catalog", flags.Lookup("catalog"))
	viper.BindPFlag("fetch.host", flags.Lookup("host"))
	viper.BindPFlag("fetch.timeout", flags.Lookup("timeout"))
	viper.BindPFlag("fetch.user_agent", flags.Lookup("user-agent"))
	viper.BindPFlag("fetch.max_retries", flags.Lookup("max-retries"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("inspire-refs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "inspire-refs"))
		}
	}

	viper.SetDefault("fetch.host", fetch.DefaultHost)
	viper.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	viper.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	viper.SetDefault("fetch.max_retries", 0)
	viper.SetDefault("build.workers", 1)
	viper.SetDefault("build.format", string(types.OutputText))
	viper.SetDefault("log.level", logger.DefaultLevel)

	viper.SetEnvPrefix("INSPIRE_REFS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// fetchConfig assembles the fetch settings from flags, environment, and
// config file.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		Host:       viper.GetString("fetch.host"),
		MaxRetries: viper.GetInt("fetch.max_retries"),
	}
}

// loadCatalog returns the catalog named by the catalog key, or the built-in
// one, restricted to the given group names.
func loadCatalog(groups []string) (types.Catalog, error) {
	c := catalog.Default()
	if path := viper.GetString("catalog"); path != "" {
		loaded, err := catalog.Load(path)
		if err != nil {
			return types.Catalog{}, err
		}
		log.Info("loaded catalog", logger.String("path", path), logger.Int("records", loaded.Len()))
		c = loaded
	}
	return catalog.Select(c, groups...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
