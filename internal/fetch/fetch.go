// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch drives a filing download run: it walks the identifier list
// in order, asks the fetcher for each company's filings, and prints progress.
// The first failure ends the run.
package fetch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/filing-engine/internal/edgar"
	"github.com/pdiddy/filing-engine/pkg/types"
)

// Fetcher retrieves filings for one company. *edgar.Downloader implements it.
type Fetcher interface {
	Get(ctx context.Context, form, identifier string, limit int) (edgar.Result, error)
}

// Recorder persists run progress. *ledger.Store implements it.
type Recorder interface {
	BeginRun(ctx context.Context, run types.Run) error
	RecordFiling(ctx context.Context, runID string, f *types.Filing) error
	FinishRun(ctx context.Context, run types.Run) error
}

// Options fixes the per-company request for a whole run.
type Options struct {
	Form      string
	Limit     int
	InputPath string

	// Recorder is optional.
	Recorder Recorder
}

// Summary holds the outcome of a run.
type Summary struct {
	Run       types.Run
	Processed int
	Results   []edgar.Result
}

// Run fetches filings for each identifier in order, printing a start line
// before and a count line after every fetch. It stops at the first fetch
// error, or when ctx is cancelled between identifiers, and returns that
// error with the summary of what completed.
func Run(ctx context.Context, fetcher Fetcher, ids []string, opts Options, w io.Writer) (Summary, error) {
	summary := Summary{
		Run: types.Run{
			ID:        uuid.NewString(),
			StartedAt: time.Now().UTC(),
			InputPath: opts.InputPath,
			Form:      opts.Form,
			Limit:     opts.Limit,
			Status:    types.RunRunning,
		},
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.BeginRun(ctx, summary.Run); err != nil {
			return summary, fmt.Errorf("recording run start: %w", err)
		}
	}

	runErr := process(ctx, fetcher, ids, opts, w, &summary)

	summary.Run.FinishedAt = time.Now().UTC()
	summary.Run.Companies = summary.Processed
	summary.Run.Status = types.RunCompleted
	if runErr != nil {
		summary.Run.Status = types.RunFailed
		summary.Run.Error = runErr.Error()
	}

	if opts.Recorder != nil {
		// The run outcome is recorded even when ctx was cancelled.
		if err := opts.Recorder.FinishRun(context.WithoutCancel(ctx), summary.Run); err != nil && runErr == nil {
			runErr = fmt.Errorf("recording run finish: %w", err)
		}
	}

	fmt.Fprintf(w, "\nRun summary: %d companies, %d filings downloaded, %d skipped\n",
		summary.Processed, summary.Run.Downloaded, summary.Run.Skipped)
	return summary, runErr
}

func process(ctx context.Context, fetcher Fetcher, ids []string, opts Options, w io.Writer, summary *Summary) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(w, "Started: %s\n", id)
		res, err := fetcher.Get(ctx, opts.Form, id, opts.Limit)
		summary.Run.Downloaded += res.Downloaded
		summary.Run.Skipped += res.Skipped
		if recErr := record(ctx, opts.Recorder, summary.Run.ID, res); recErr != nil {
			return recErr
		}
		if err != nil {
			return fmt.Errorf("fetching %s: %w", id, err)
		}

		summary.Processed++
		summary.Results = append(summary.Results, res)
		fmt.Fprintf(w, "Downloaded: %s (%d new, %d existing %s filings), %d in total\n",
			id, res.Downloaded, res.Skipped, opts.Form, summary.Processed)
	}
	return nil
}

// record stores every filing of res, including those written before a
// failure inside the same fetch.
func record(ctx context.Context, rec Recorder, runID string, res edgar.Result) error {
	if rec == nil {
		return nil
	}
	for _, f := range res.Filings {
		if err := rec.RecordFiling(ctx, runID, f); err != nil {
			return fmt.Errorf("recording filing %s: %w", f.AccessionNumber, err)
		}
	}
	return nil
}
