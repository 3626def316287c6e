// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records fetch runs and the filings they wrote in a SQLite
// database under the output directory, so past downloads can be listed
// without walking the filing tree.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/filing-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "filings.db"

	// timeLayout sorts lexically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Path returns the ledger location for an output directory.
func Path(outputDir string) string {
	return filepath.Join(outputDir, indexDir, dbFile)
}

// Open opens or creates the ledger at outputDir/index/filings.db and
// creates the schema if it does not exist.
func Open(outputDir string) (*Store, error) {
	dbPath := Path(outputDir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			input TEXT,
			form TEXT NOT NULL,
			filing_limit INTEGER NOT NULL,
			companies INTEGER NOT NULL DEFAULT 0,
			downloaded INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS filings (
			accession_number TEXT PRIMARY KEY,
			cik TEXT NOT NULL,
			company TEXT,
			form TEXT NOT NULL,
			filing_date TEXT NOT NULL,
			report_date TEXT,
			primary_document TEXT,
			source_url TEXT,
			submission_path TEXT NOT NULL,
			document_path TEXT,
			downloaded_at TEXT,
			run_id TEXT REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_filings_cik ON filings(cik)`,
		`CREATE INDEX IF NOT EXISTS idx_filings_form ON filings(form)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run record.
func (s *Store) BeginRun(ctx context.Context, run types.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input, form, filing_limit, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), run.InputPath, run.Form, run.Limit, string(run.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the final counts and status of a run.
func (s *Store) FinishRun(ctx context.Context, run types.Run) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, companies = ?, downloaded = ?, skipped = ?, status = ?, error = ?
		 WHERE id = ?`,
		formatTime(run.FinishedAt), run.Companies, run.Downloaded, run.Skipped,
		string(run.Status), nullString(run.Error), run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// RecordFiling upserts a filing. A filing seen again keeps its original
// download time unless the new record carries one.
func (s *Store) RecordFiling(ctx context.Context, runID string, f *types.Filing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO filings (accession_number, cik, company, form, filing_date, report_date,
			primary_document, source_url, submission_path, document_path, downloaded_at, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession_number) DO UPDATE SET
			cik = excluded.cik,
			company = excluded.company,
			form = excluded.form,
			filing_date = excluded.filing_date,
			report_date = excluded.report_date,
			primary_document = excluded.primary_document,
			source_url = excluded.source_url,
			submission_path = excluded.submission_path,
			document_path = COALESCE(excluded.document_path, filings.document_path),
			downloaded_at = COALESCE(excluded.downloaded_at, filings.downloaded_at),
			run_id = excluded.run_id`,
		f.AccessionNumber, f.CIK, f.Company, f.Form,
		f.FilingDate.Format(types.DateLayout), nullDate(f.ReportDate),
		f.PrimaryDocument, f.SourceURL, f.SubmissionPath, nullString(f.DocumentPath),
		nullTime(f.DownloadedAt), runID,
	)
	if err != nil {
		return fmt.Errorf("recording filing %s: %w", f.AccessionNumber, err)
	}
	return nil
}

// FilingQuery filters Filings. Zero fields match everything.
type FilingQuery struct {
	CIK   string
	Form  string
	RunID string
	Limit int
}

// Filings returns recorded filings, newest filing date first.
func (s *Store) Filings(ctx context.Context, q FilingQuery) ([]types.Filing, error) {
	var (
		where []string
		args  []any
	)
	if q.CIK != "" {
		where = append(where, "cik = ?")
		args = append(args, q.CIK)
	}
	if q.Form != "" {
		where = append(where, "form = ?")
		args = append(args, q.Form)
	}
	if q.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, q.RunID)
	}

	query := `SELECT accession_number, cik, COALESCE(company, ''), form, filing_date,
		COALESCE(report_date, ''), COALESCE(primary_document, ''), COALESCE(source_url, ''),
		submission_path, COALESCE(document_path, ''), COALESCE(downloaded_at, '')
		FROM filings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY filing_date DESC, accession_number DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying filings: %w", err)
	}
	defer rows.Close()

	var out []types.Filing
	for rows.Next() {
		var (
			f                           types.Filing
			filed, reported, downloaded string
		)
		if err := rows.Scan(&f.AccessionNumber, &f.CIK, &f.Company, &f.Form, &filed,
			&reported, &f.PrimaryDocument, &f.SourceURL, &f.SubmissionPath, &f.DocumentPath, &downloaded); err != nil {
			return nil, fmt.Errorf("scanning filing: %w", err)
		}
		f.FilingDate, _ = time.Parse(types.DateLayout, filed)
		f.ReportDate, _ = time.Parse(types.DateLayout, reported)
		f.DownloadedAt, _ = time.Parse(timeLayout, downloaded)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Runs returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.Run, error) {
	query := `SELECT id, started_at, COALESCE(finished_at, ''), COALESCE(input, ''), form,
		filing_limit, companies, downloaded, skipped, status, COALESCE(error, '')
		FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []types.Run
	for rows.Next() {
		var (
			r                 types.Run
			started, finished string
			status            string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputPath, &r.Form,
			&r.Limit, &r.Companies, &r.Downloaded, &r.Skipped, &status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(timeLayout, started)
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		r.Status = types.RunStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(types.DateLayout)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
