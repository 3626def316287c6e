// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to EDGAR.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request. EDGAR
	// rejects anonymous clients, so this should name a company and a contact
	// address (e.g. "Example Corp admin@example.com").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond caps the request rate against sec.gov (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for a filing download run.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// InputPath is the CSV file listing the companies to fetch.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// Column is the CSV column holding the identifiers (default "cik").
	Column string `json:"column" yaml:"column" mapstructure:"column"`

	// MaxCompanies truncates the identifier list to its first entries
	// (default 10). Zero or negative processes every row.
	MaxCompanies int `json:"max_companies" yaml:"max_companies" mapstructure:"max_companies"`

	// OutputDir is the root directory downloads are written under.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Form is the filing type requested for every company (default "10-K").
	Form string `json:"form" yaml:"form" mapstructure:"form"`

	// Limit is the maximum number of filings per company (default 30).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// IncludeAmends also selects amended filings ("10-K/A").
	IncludeAmends bool `json:"include_amends" yaml:"include_amends" mapstructure:"include_amends"`

	// DownloadDetails also downloads each filing's primary document.
	DownloadDetails bool `json:"download_details" yaml:"download_details" mapstructure:"download_details"`

	// After and Before bound the filing date, inclusive. Empty means unbounded.
	// Format is YYYY-MM-DD.
	After  string `json:"after,omitempty" yaml:"after,omitempty" mapstructure:"after"`
	Before string `json:"before,omitempty" yaml:"before,omitempty" mapstructure:"before"`
}

// Defaults for FetchConfig.
const (
	DefaultInputPath         = "FINAL_COMPANY_LIST_SEC_INFO.csv"
	DefaultColumn            = "cik"
	DefaultMaxCompanies      = 10
	DefaultOutputDir         = "filings"
	DefaultForm              = "10-K"
	DefaultLimit             = 30
	DefaultTimeout           = 60 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultMaxRetries        = 5
	DefaultUserAgent         = "filing-engine/0.1"
)

// DefaultFetchConfig returns a FetchConfig populated with defaults.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:           DefaultTimeout,
			UserAgent:         DefaultUserAgent,
			RequestsPerSecond: DefaultRequestsPerSecond,
			MaxRetries:        DefaultMaxRetries,
		},
		InputPath:    DefaultInputPath,
		Column:       DefaultColumn,
		MaxCompanies: DefaultMaxCompanies,
		OutputDir:    DefaultOutputDir,
		Form:         DefaultForm,
		Limit:        DefaultLimit,
	}
}

// DateRange parses After and Before. Zero times mean no bound.
func (c FetchConfig) DateRange() (after, before time.Time, err error) {
	if c.After != "" {
		if after, err = time.Parse(DateLayout, c.After); err != nil {
			return after, before, err
		}
	}
	if c.Before != "" {
		if before, err = time.Parse(DateLayout, c.Before); err != nil {
			return after, before, err
		}
	}
	return after, before, nil
}
