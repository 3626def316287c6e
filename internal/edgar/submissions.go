// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edgar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pdiddy/filing-engine/pkg/types"
)

// submissions is the subset of data.sec.gov/submissions/CIK##########.json
// the downloader reads.
type submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent filingColumns `json:"recent"`
		Files  []filingPage  `json:"files"`
	} `json:"filings"`
}

// filingColumns holds filings column-wise: index i of every slice describes
// the same filing. Older pages use the same shape at top level.
type filingColumns struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// filingPage names an additional JSON file holding older filings.
type filingPage struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// entry is one filing listed by EDGAR, before download.
type entry struct {
	AccessionNumber string
	Form            string
	FilingDate      time.Time
	ReportDate      time.Time
	PrimaryDocument string
}

// entries converts the column-wise listing into rows. Rows without an
// accession number or a parseable filing date are dropped.
func (c filingColumns) entries() []entry {
	at := func(col []string, i int) string {
		if i < len(col) {
			return col[i]
		}
		return ""
	}

	out := make([]entry, 0, len(c.AccessionNumber))
	for i, acc := range c.AccessionNumber {
		if acc == "" {
			continue
		}
		filed, err := time.Parse(types.DateLayout, at(c.FilingDate, i))
		if err != nil {
			continue
		}
		e := entry{
			AccessionNumber: acc,
			Form:            at(c.Form, i),
			FilingDate:      filed,
			PrimaryDocument: at(c.PrimaryDocument, i),
		}
		if t, err := time.Parse(types.DateLayout, at(c.ReportDate, i)); err == nil {
			e.ReportDate = t
		}
		out = append(out, e)
	}
	return out
}

// Criteria selects filings from a company's listing.
type Criteria struct {
	Form          string
	IncludeAmends bool
	After         time.Time
	Before        time.Time
	Limit         int
}

// matches reports whether e satisfies the form and date criteria.
func (c Criteria) matches(e entry) bool {
	if e.Form != c.Form && !(c.IncludeAmends && e.Form == c.Form+"/A") {
		return false
	}
	if !c.After.IsZero() && e.FilingDate.Before(c.After) {
		return false
	}
	if !c.Before.IsZero() && e.FilingDate.After(c.Before) {
		return false
	}
	return true
}

// full reports whether n selected filings satisfy the limit.
func (c Criteria) full(n int) bool {
	return c.Limit > 0 && n >= c.Limit
}

// selectEntries returns the entries matching c, newest filing first, capped
// at c.Limit when it is positive.
func selectEntries(all []entry, c Criteria) []entry {
	var out []entry
	for _, e := range all {
		if c.matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FilingDate.After(out[j].FilingDate)
	})
	if c.full(len(out)) {
		out = out[:c.Limit]
	}
	return out
}

// listFilings fetches the company's submissions and returns its name and the
// filings matching c. Older pages are fetched only while the recent listing
// has not filled the limit, and pages ending before c.After are skipped.
func (d *Downloader) listFilings(ctx context.Context, cik string, c Criteria) (string, []entry, error) {
	var sub submissions
	if err := d.getJSON(ctx, submissionsAPIBase+"CIK"+cik+".json", &sub); err != nil {
		return "", nil, fmt.Errorf("listing filings for CIK %s: %w", cik, err)
	}

	all := sub.Filings.Recent.entries()
	for _, page := range sub.Filings.Files {
		if c.full(len(selectEntries(all, c))) {
			break
		}
		if !c.After.IsZero() {
			if to, err := time.Parse(types.DateLayout, page.FilingTo); err == nil && to.Before(c.After) {
				continue
			}
		}
		var older filingColumns
		if err := d.getJSON(ctx, submissionsAPIBase+page.Name, &older); err != nil {
			return "", nil, fmt.Errorf("listing older filings (%s): %w", page.Name, err)
		}
		all = append(all, older.entries()...)
	}

	return sub.Name, selectEntries(all, c), nil
}
