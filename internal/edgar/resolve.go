// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edgar

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Base URLs for EDGAR endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	submissionsAPIBase = "https://data.sec.gov/submissions/"
	archivesBase       = "https://www.sec.gov/Archives/edgar/data/"
	tickersURL         = "https://www.sec.gov/files/company_tickers.json"
)

var (
	// ErrUnknownIdentifier is returned when an identifier is neither a CIK
	// nor a ticker EDGAR knows.
	ErrUnknownIdentifier = errors.New("unknown company identifier")

	// ErrNotFound is returned when EDGAR has no record for a resolved CIK.
	ErrNotFound = errors.New("not found on EDGAR")
)

// cikPattern matches an all-digit identifier. Some exports pad CIKs with
// more zeros than EDGAR does, so the digit count is not bounded here.
var cikPattern = regexp.MustCompile(`^\d+$`)

// maxCIK is the largest value that fits EDGAR's 10-digit CIK.
const maxCIK = 9_999_999_999

// NormalizeCIK returns the 10-digit zero-padded form of a numeric CIK.
// The boolean is false when identifier is not a CIK or its value needs
// more than 10 digits.
func NormalizeCIK(identifier string) (string, bool) {
	identifier = strings.TrimSpace(identifier)
	if !cikPattern.MatchString(identifier) {
		return "", false
	}
	n, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil || n > maxCIK {
		return "", false
	}
	return fmt.Sprintf("%010d", n), true
}

// archiveCIK strips the zero padding; archive URLs use the bare number.
func archiveCIK(cik string) string {
	n, err := strconv.ParseUint(cik, 10, 64)
	if err != nil {
		return cik
	}
	return strconv.FormatUint(n, 10)
}

// tickerEntry is one record of company_tickers.json.
type tickerEntry struct {
	CIK    uint64 `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveCIK maps an identifier to a 10-digit CIK. Numeric identifiers are
// CIKs already; anything else is looked up as a ticker symbol. The ticker
// table is fetched once per Downloader.
func (d *Downloader) ResolveCIK(ctx context.Context, identifier string) (string, error) {
	if cik, ok := NormalizeCIK(identifier); ok {
		return cik, nil
	}

	ticker := strings.ToUpper(strings.TrimSpace(identifier))
	if ticker == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrUnknownIdentifier)
	}

	if d.tickers == nil {
		var raw map[string]tickerEntry
		if err := d.getJSON(ctx, tickersURL, &raw); err != nil {
			return "", fmt.Errorf("loading ticker table: %w", err)
		}
		tickers := make(map[string]string, len(raw))
		for _, e := range raw {
			tickers[strings.ToUpper(e.Ticker)] = fmt.Sprintf("%010d", e.CIK)
		}
		d.tickers = tickers
	}

	cik, ok := d.tickers[ticker]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIdentifier, identifier)
	}
	return cik, nil
}
