// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/filing-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func beginRun(t *testing.T, s *Store, id string, started time.Time) types.Run {
	t.Helper()
	run := types.Run{
		ID:        id,
		StartedAt: started,
		InputPath: "companies.csv",
		Form:      "10-K",
		Limit:     30,
		Status:    types.RunRunning,
	}
	require.NoError(t, s.BeginRun(context.Background(), run))
	return run
}

func filing(cik, acc, filed string) *types.Filing {
	d, _ := time.Parse(types.DateLayout, filed)
	return &types.Filing{
		CIK:             cik,
		Company:         "Company " + cik,
		Form:            "10-K",
		AccessionNumber: acc,
		FilingDate:      d,
		SourceURL:       "https://www.sec.gov/Archives/" + acc + ".txt",
		SubmissionPath:  "/tmp/" + acc + "/full-submission.txt",
		DownloadedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// --- tests ---

func TestOpen_CreatesDatabase(t *testing.T) {
	_, dir := testStore(t)
	_, err := os.Stat(Path(dir))
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	beginRun(t, s, "run-1", time.Now())
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunLifecycle(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	run := beginRun(t, s, "run-1", started)

	run.FinishedAt = started.Add(time.Minute)
	run.Companies = 10
	run.Downloaded = 250
	run.Skipped = 12
	run.Status = types.RunFailed
	run.Error = "fetching 42: HTTP 500"
	require.NoError(t, s.FinishRun(ctx, run))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, "run-1", got.ID)
	assert.True(t, started.Equal(got.StartedAt))
	assert.True(t, run.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, "companies.csv", got.InputPath)
	assert.Equal(t, "10-K", got.Form)
	assert.Equal(t, 30, got.Limit)
	assert.Equal(t, 10, got.Companies)
	assert.Equal(t, 250, got.Downloaded)
	assert.Equal(t, 12, got.Skipped)
	assert.Equal(t, types.RunFailed, got.Status)
	assert.Equal(t, "fetching 42: HTTP 500", got.Error)
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s, _ := testStore(t)
	err := s.FinishRun(context.Background(), types.Run{ID: "missing", Status: types.RunCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRuns_NewestFirstWithLimit(t *testing.T) {
	s, _ := testStore(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	beginRun(t, s, "old", base)
	beginRun(t, s, "newest", base.Add(2*time.Hour+500*time.Millisecond))
	beginRun(t, s, "middle", base.Add(2*time.Hour+450*time.Millisecond))

	runs, err := s.Runs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newest", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)
}

func TestRecordFiling_RoundTripAndFilters(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	beginRun(t, s, "run-1", time.Now())
	beginRun(t, s, "run-2", time.Now())

	require.NoError(t, s.RecordFiling(ctx, "run-1", filing("0000320193", "acc-2022", "2022-10-28")))
	require.NoError(t, s.RecordFiling(ctx, "run-1", filing("0000320193", "acc-2023", "2023-11-03")))
	require.NoError(t, s.RecordFiling(ctx, "run-2", filing("0000789019", "acc-msft", "2023-07-27")))

	all, err := s.Filings(ctx, FilingQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "acc-2023", all[0].AccessionNumber)
	assert.Equal(t, "acc-msft", all[1].AccessionNumber)
	assert.Equal(t, "acc-2022", all[2].AccessionNumber)

	first := all[0]
	assert.Equal(t, "0000320193", first.CIK)
	assert.Equal(t, "Company 0000320193", first.Company)
	assert.Equal(t, "2023-11-03", first.FilingDate.Format(types.DateLayout))
	assert.True(t, first.ReportDate.IsZero())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), first.DownloadedAt)

	byCIK, err := s.Filings(ctx, FilingQuery{CIK: "0000789019"})
	require.NoError(t, err)
	require.Len(t, byCIK, 1)
	assert.Equal(t, "acc-msft", byCIK[0].AccessionNumber)

	byRun, err := s.Filings(ctx, FilingQuery{RunID: "run-1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byRun, 1)
	assert.Equal(t, "acc-2023", byRun[0].AccessionNumber)

	none, err := s.Filings(ctx, FilingQuery{Form: "10-Q"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordFiling_UpsertKeepsDownloadTime(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	beginRun(t, s, "run-1", time.Now())
	beginRun(t, s, "run-2", time.Now())

	f := filing("0000320193", "acc-1", "2023-11-03")
	f.DocumentPath = "/tmp/acc-1/primary-document.htm"
	require.NoError(t, s.RecordFiling(ctx, "run-1", f))

	again := filing("0000320193", "acc-1", "2023-11-03")
	again.DownloadedAt = time.Time{}
	require.NoError(t, s.RecordFiling(ctx, "run-2", again))

	got, err := s.Filings(ctx, FilingQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), got[0].DownloadedAt)
	assert.Equal(t, "/tmp/acc-1/primary-document.htm", got[0].DocumentPath)

	byRun, err := s.Filings(ctx, FilingQuery{RunID: "run-2"})
	require.NoError(t, err)
	assert.Len(t, byRun, 1)
}

func TestRecordFiling_RequiresRun(t *testing.T) {
	s, _ := testStore(t)
	err := s.RecordFiling(context.Background(), "no-such-run", filing("1", "acc", "2023-01-01"))
	assert.Error(t, err)
}
