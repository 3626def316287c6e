// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package edgar downloads SEC filings from EDGAR. A Downloader is bound to
// one output directory; Get resolves a company identifier, lists its
// filings, selects the newest of one form, and writes each under
//
//	<output>/sec-edgar-filings/<CIK>/<form>/<accession>/
//
// as full-submission.txt, metadata.yaml, and optionally the primary document.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
	"golang.org/x/time/rate"

	"github.com/pdiddy/filing-engine/internal/httputil"
	"github.com/pdiddy/filing-engine/pkg/types"
)

const (
	filingsDir     = "sec-edgar-filings"
	submissionFile = "full-submission.txt"
	documentStem   = "primary-document"
	metadataFile   = "metadata.yaml"
)

// Result holds the outcome of one Get call.
type Result struct {
	CIK        string
	Company    string
	Downloaded int
	Skipped    int
	Filings    []*types.Filing
}

// Total returns the number of filings selected, downloaded or already present.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped
}

// Downloader fetches filings from EDGAR into a fixed output directory.
// It is not safe for concurrent use.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.FetchConfig
	after   time.Time
	before  time.Time
	w       io.Writer

	// tickers maps upper-case ticker symbols to 10-digit CIKs; loaded lazily.
	tickers map[string]string
}

// NewDownloader returns a Downloader writing under cfg.OutputDir. Progress
// for individual filings is written to w; pass io.Discard to silence it.
func NewDownloader(client *http.Client, cfg types.FetchConfig, w io.Writer) (*Downloader, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, fmt.Errorf("user agent is required: EDGAR rejects anonymous requests")
	}
	after, before, err := cfg.DateRange()
	if err != nil {
		return nil, fmt.Errorf("invalid date bound: %w", err)
	}
	if !after.IsZero() && !before.IsZero() && after.After(before) {
		return nil, fmt.Errorf("after (%s) is later than before (%s)", cfg.After, cfg.Before)
	}
	if w == nil {
		w = io.Discard
	}
	return &Downloader{
		client:  client,
		limiter: httputil.NewLimiter(cfg.RequestsPerSecond),
		cfg:     cfg,
		after:   after,
		before:  before,
		w:       w,
	}, nil
}

// Get downloads up to limit filings of form for identifier, newest first.
// A non-positive limit selects every matching filing. Filings already on
// disk are skipped. The first failed download aborts the call; the result
// still reports what was written before it, including a filing whose
// submission landed but whose primary document did not.
func (d *Downloader) Get(ctx context.Context, form, identifier string, limit int) (Result, error) {
	cik, err := d.ResolveCIK(ctx, identifier)
	if err != nil {
		return Result{}, err
	}

	criteria := Criteria{
		Form:          form,
		IncludeAmends: d.cfg.IncludeAmends,
		After:         d.after,
		Before:        d.before,
		Limit:         limit,
	}
	company, selected, err := d.listFilings(ctx, cik, criteria)
	if err != nil {
		return Result{CIK: cik}, err
	}

	result := Result{CIK: cik, Company: company}
	for _, e := range selected {
		filing, skipped, err := d.fetchFiling(ctx, cik, company, form, e)
		if err != nil {
			if filing != nil {
				result.Filings = append(result.Filings, filing)
			}
			return result, err
		}
		if skipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Filings = append(result.Filings, filing)
	}
	return result, nil
}

// FilingDir returns the directory a filing is stored in.
func (d *Downloader) FilingDir(cik, form, accession string) string {
	return filepath.Join(d.cfg.OutputDir, filingsDir, cik, formDir(form), accession)
}

// fetchFiling downloads one filing and writes its metadata. metadata.yaml is
// written last, so a filing counts as complete only once it exists (and,
// with download_details, once the primary document exists too). A complete
// filing is left alone and reported as skipped. An incomplete one is
// finished, reusing a full submission already on disk.
//
// When the primary document fails after the submission landed, the partial
// filing is returned along with the error so callers can still record it.
func (d *Downloader) fetchFiling(ctx context.Context, cik, company, form string, e entry) (filing *types.Filing, skipped bool, err error) {
	dir := d.FilingDir(cik, form, e.AccessionNumber)
	submissionPath := filepath.Join(dir, submissionFile)
	metaPath := filepath.Join(dir, metadataFile)
	var docPath string
	if d.cfg.DownloadDetails && e.PrimaryDocument != "" {
		docPath = filepath.Join(dir, documentStem+filepath.Ext(e.PrimaryDocument))
	}

	f, readErr := readMetadata(metaPath)
	if readErr == nil && fileExists(submissionPath) && (docPath == "" || fileExists(docPath)) {
		fmt.Fprintf(d.w, "  skipped: %s (already exists)\n", e.AccessionNumber)
		return f, true, nil
	}
	if readErr != nil {
		f = d.newFiling(cik, company, e, submissionPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if fileExists(submissionPath) {
		fmt.Fprintf(d.w, "  resuming: %s\n", e.AccessionNumber)
	} else {
		fmt.Fprintf(d.w, "  downloading: %s (%s, filed %s)\n", e.AccessionNumber, e.Form, e.FilingDate.Format(types.DateLayout))
		if err := d.downloadFile(ctx, f.SourceURL, submissionPath); err != nil {
			return nil, false, fmt.Errorf("downloading %s: %w", e.AccessionNumber, err)
		}
	}

	if docPath != "" {
		if !fileExists(docPath) {
			docURL := archiveDir(cik, e.AccessionNumber) + e.PrimaryDocument
			if err := d.downloadFile(ctx, docURL, docPath); err != nil {
				return f, false, fmt.Errorf("downloading primary document of %s: %w", e.AccessionNumber, err)
			}
		}
		f.DocumentPath = docPath
	}

	f.DownloadedAt = time.Now().UTC()
	if err := writeMetadata(f, metaPath); err != nil {
		return f, false, fmt.Errorf("writing metadata for %s: %w", e.AccessionNumber, err)
	}
	return f, false, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (d *Downloader) newFiling(cik, company string, e entry, submissionPath string) *types.Filing {
	return &types.Filing{
		CIK:             cik,
		Company:         company,
		Form:            e.Form,
		AccessionNumber: e.AccessionNumber,
		FilingDate:      e.FilingDate,
		ReportDate:      e.ReportDate,
		PrimaryDocument: e.PrimaryDocument,
		SourceURL:       archiveDir(cik, e.AccessionNumber) + e.AccessionNumber + ".txt",
		SubmissionPath:  submissionPath,
	}
}

// archiveDir returns the archive folder URL of a filing, with trailing slash.
func archiveDir(cik, accession string) string {
	return archivesBase + archiveCIK(cik) + "/" + strings.ReplaceAll(accession, "-", "") + "/"
}

// formDir makes a form type safe to use as a directory name.
func formDir(form string) string {
	return strings.ReplaceAll(form, "/", "-")
}

// newRequest builds a GET request carrying the configured User-Agent.
func (d *Downloader) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)
	return req, nil
}

// get performs a rate-limited, retried GET and checks for HTTP 200.
func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := d.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	resp, err := httputil.DoWithRetry(ctx, d.client, d.limiter, req, d.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
}

// getJSON fetches url and decodes the JSON body into v.
func (d *Downloader) getJSON(ctx context.Context, url string, v any) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}

// downloadFile fetches url to destPath using a temporary file so a failed
// download never leaves a partial file under the final name.
func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeMetadata writes a Filing record to a YAML file.
func writeMetadata(f *types.Filing, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readMetadata reads a Filing record from a YAML file.
func readMetadata(path string) (*types.Filing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f types.Filing
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
