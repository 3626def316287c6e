// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/filing-engine/internal/edgar"
	"github.com/pdiddy/filing-engine/internal/fetch"
	"github.com/pdiddy/filing-engine/internal/ledger"
	"github.com/pdiddy/filing-engine/internal/outdir"
	"github.com/pdiddy/filing-engine/internal/roster"
	"github.com/pdiddy/filing-engine/internal/secrets"
	"github.com/pdiddy/filing-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download filings for the companies listed in a CSV file",
	Long: `Fetch reads company identifiers from one column of a CSV file, keeps the
first --max-companies of them, and downloads up to --limit filings of --form
for each company, newest first. Filings already on disk are skipped.

Companies are processed in file order, one at a time. The first failure stops
the run. Every run and every filing written is recorded in the ledger at
<output-dir>/index/filings.db.`,
	RunE: runFetch,
}

// fetchFlags maps viper keys to fetch flag names.
var fetchFlags = map[string]string{
	"input":               "input",
	"column":              "column",
	"max_companies":       "max-companies",
	"form":                "form",
	"limit":               "limit",
	"include_amends":      "include-amends",
	"download_details":    "download-details",
	"after":               "after",
	"before":              "before",
	"user_agent":          "user-agent",
	"timeout":             "timeout",
	"requests_per_second": "requests-per-second",
	"max_retries":         "max-retries",
}

func init() {
	d := types.DefaultFetchConfig()
	f := fetchCmd.Flags()
	f.String("input", d.InputPath, "CSV file listing the companies")
	f.String("column", d.Column, "CSV column holding CIKs or tickers")
	f.Int("max-companies", d.MaxCompanies, "process only the first N companies (0 = all)")
	f.String("form", d.Form, "filing type to download")
	f.Int("limit", d.Limit, "maximum filings per company (0 = all)")
	f.Bool("include-amends", d.IncludeAmends, "also download amended filings (e.g. 10-K/A)")
	f.Bool("download-details", d.DownloadDetails, "also download each filing's primary document")
	f.String("after", d.After, "only filings on or after this date (YYYY-MM-DD)")
	f.String("before", d.Before, "only filings on or before this date (YYYY-MM-DD)")
	f.String("user-agent", d.UserAgent, `User-Agent declared to EDGAR ("Company email@example.com")`)
	f.Duration("timeout", d.Timeout, "HTTP request timeout")
	f.Float64("requests-per-second", d.RequestsPerSecond, "maximum request rate against sec.gov")
	f.Int("max-retries", d.MaxRetries, "retries on HTTP 429/503")

	for key, flag := range fetchFlags {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(fetchCmd)
}

// loadFetchConfig builds the run configuration from v, starting from the
// defaults so keys absent everywhere keep their default value.
func loadFetchConfig(v *viper.Viper) (types.FetchConfig, error) {
	cfg := types.DefaultFetchConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.UserAgent = secrets.UserAgent(loadedSecrets, cfg.UserAgent, types.DefaultUserAgent)
	return cfg, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadFetchConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.UserAgent == types.DefaultUserAgent {
		fmt.Fprintf(os.Stderr, "warning: using default User-Agent %q; EDGAR may reject it. Set --user-agent or .secrets/%s\n",
			cfg.UserAgent, secrets.UserAgentKey)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err = fetchFilings(ctx, cfg, &http.Client{Timeout: cfg.Timeout}, cmd.OutOrStdout())
	return err
}

// fetchFilings runs the pipeline: load identifiers, lock the output
// directory, open the ledger, and download. Identifier loading comes first
// so a bad input file fails before anything touches the output directory.
func fetchFilings(ctx context.Context, cfg types.FetchConfig, client *http.Client, w io.Writer) (fetch.Summary, error) {
	ids, err := roster.Load(cfg.InputPath, cfg.Column)
	if err != nil {
		return fetch.Summary{}, err
	}
	selected := roster.Truncate(ids, cfg.MaxCompanies)
	fmt.Fprintf(w, "Loaded %d identifiers from %s; processing %d\n", len(ids), cfg.InputPath, len(selected))

	downloader, err := edgar.NewDownloader(client, cfg, w)
	if err != nil {
		return fetch.Summary{}, err
	}

	lock, err := outdir.Acquire(cfg.OutputDir)
	if err != nil {
		return fetch.Summary{}, err
	}
	defer lock.Release()

	store, err := ledger.Open(cfg.OutputDir)
	if err != nil {
		return fetch.Summary{}, err
	}
	defer store.Close()

	return fetch.Run(ctx, downloader, selected, fetch.Options{
		Form:      cfg.Form,
		Limit:     cfg.Limit,
		InputPath: cfg.InputPath,
		Recorder:  store,
	}, w)
}
