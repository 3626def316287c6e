// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for filing-engine:
// the run configuration, downloaded filing records, and run records.
package types

import "time"

// DateLayout is the date format EDGAR uses for filing and report dates.
const DateLayout = "2006-01-02"

// Filing holds metadata and file paths for a downloaded EDGAR filing.
type Filing struct {
	// CIK is the filer's Central Index Key, zero-padded to 10 digits.
	CIK string `json:"cik" yaml:"cik"`

	// Company is the filer name as reported by EDGAR.
	Company string `json:"company" yaml:"company"`

	// Form is the filing type (e.g. "10-K", "10-K/A").
	Form string `json:"form" yaml:"form"`

	// AccessionNumber uniquely identifies the filing (e.g. "0000320193-23-000106").
	AccessionNumber string `json:"accession_number" yaml:"accession_number"`

	// FilingDate is the date EDGAR accepted the filing.
	FilingDate time.Time `json:"filing_date" yaml:"filing_date"`

	// ReportDate is the period of report, when EDGAR provides one.
	ReportDate time.Time `json:"report_date,omitempty" yaml:"report_date,omitempty"`

	// PrimaryDocument is the file name of the main document inside the filing.
	PrimaryDocument string `json:"primary_document,omitempty" yaml:"primary_document,omitempty"`

	// SourceURL is the URL the full submission was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// SubmissionPath is the local path of full-submission.txt.
	SubmissionPath string `json:"submission_path" yaml:"submission_path"`

	// DocumentPath is the local path of the primary document, if downloaded.
	DocumentPath string `json:"document_path,omitempty" yaml:"document_path,omitempty"`

	// DownloadedAt is when the submission was written to disk.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}

// RunStatus is the lifecycle state of a fetch run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run records one invocation of the fetch pipeline.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	InputPath  string    `json:"input" yaml:"input"`
	Form string `json:"form" yaml:"form"`
	Limit      int       `json:"limit" yaml:"limit"`
	Companies  int       `json:"companies" yaml:"companies"`
	Downloaded int       `json:"downloaded" yaml:"downloaded"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Status     RunStatus `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}
