// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/filing-engine/internal/edgar"
	"github.com/pdiddy/filing-engine/internal/ledger"
	"github.com/pdiddy/filing-engine/pkg/types"
)

// --- filings subcommand ---

var filingsCmd = &cobra.Command{
	Use:   "filings",
	Short: "List filings recorded in the ledger",
	Long: `Filings lists the filings past fetch runs wrote under the output directory,
newest filing date first. Filter by company, form, or run.`,
	RunE: runFilings,
}

func init() {
	filingsCmd.Flags().String("cik", "", "only filings of this CIK")
	filingsCmd.Flags().String("form", "", "only filings of this form")
	filingsCmd.Flags().String("run", "", "only filings recorded by this run ID")
	filingsCmd.Flags().Int("limit", 50, "maximum rows (0 = all)")
	filingsCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	runsCmd.Flags().Int("limit", 20, "maximum rows (0 = all)")
	runsCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(filingsCmd, runsCmd)
}

func runFilings(cmd *cobra.Command, args []string) error {
	store, err := openLedger(viper.GetString("output_dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	q := ledger.FilingQuery{}
	q.CIK, _ = cmd.Flags().GetString("cik")
	if cik, ok := edgar.NormalizeCIK(q.CIK); ok {
		q.CIK = cik
	}
	q.Form, _ = cmd.Flags().GetString("form")
	q.RunID, _ = cmd.Flags().GetString("run")
	q.Limit, _ = cmd.Flags().GetInt("limit")

	filings, err := store.Filings(context.Background(), q)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeFilings(cmd.OutOrStdout(), filings, format)
}

func writeFilings(w io.Writer, filings []types.Filing, format string) error {
	if format != "table" {
		return writeStructured(w, filings, format)
	}
	if len(filings) == 0 {
		fmt.Fprintln(w, "No filings recorded.")
		return nil
	}

	fmt.Fprintln(w, renderTable(filings, filingColumns))
	return nil
}

// --- runs subcommand ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past fetch runs",
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := openLedger(viper.GetString("output_dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeRuns(cmd.OutOrStdout(), runs, format)
}

func writeRuns(w io.Writer, runs []types.Run, format string) error {
	if format != "table" {
		return writeStructured(w, runs, format)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintln(w, renderTable(runs, runColumns))
	return nil
}

// --- helpers ---

// openLedger opens an existing ledger; it does not create one for a
// directory no run has written to.
func openLedger(outputDir string) (*ledger.Store, error) {
	if _, err := os.Stat(ledger.Path(outputDir)); err != nil {
		return nil, fmt.Errorf("no ledger under %s (run fetch first): %w", outputDir, err)
	}
	return ledger.Open(outputDir)
}

func writeStructured(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: use table, json, or yaml", format)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(types.DateLayout)
}
