// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the filing-engine CLI, which downloads
// SEC filings from EDGAR for a list of companies and keeps a ledger of what
// it fetched.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/filing-engine/internal/secrets"
	"github.com/pdiddy/filing-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the filing-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "filing-engine",
	Short: "Download SEC filings from EDGAR for a list of companies",
	Long: `filing-engine reads company identifiers (CIKs or tickers) from a CSV file
and downloads their SEC filings from EDGAR into a local directory tree.

Use fetch to download, and filings or runs to inspect the ledger of past
downloads kept under the output directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./filing-engine.yaml or ~/.config/filing-engine/filing-engine.yaml)")
	rootCmd.PersistentFlags().String("output-dir", types.DefaultOutputDir, "root directory for downloaded filings and the ledger")
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("filing-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "filing-engine"))
		}
	}

	viper.SetEnvPrefix("FILING_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
