package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that call the remote API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for list-creation and probe calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "biomarker-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig holds settings for the BiomarkerKB API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the BiomarkerKB API root (default https://api.biomarkerkb.org).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional key sent as X-Api-Key. The public API requires none.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DownloadTimeout is the request timeout for list downloads, which return
	// entire result sets and run far longer than searches (default 300s).
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for the size-escalation download loop.
type FetchConfig struct {
	APIConfig `yaml:",inline"`

	// InitialSize is the first requested result-list size. Zero omits the size
	// parameter and lets the server choose.
	InitialSize int `json:"initial_size" yaml:"initial_size"`

	// MaxAttempts caps the total downloads per query while escalating the
	// size (default 4).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// EnrichConfig holds settings for the multi-entity enrichment run.
type EnrichConfig struct {
	FetchConfig `yaml:",inline"`

	// InputFile is the spreadsheet holding the entity list.
	InputFile string `json:"input_file" yaml:"input_file"`

	// InputColumn is the header of the column holding entity names.
	InputColumn string `json:"input_column" yaml:"input_column"`

	// OutputFile is the spreadsheet written with the combined results.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// ReportFile, when non-empty, receives a YAML run report.
	ReportFile string `json:"report_file,omitempty" yaml:"report_file,omitempty"`

	// Delay is the pause between consecutive entity fetches.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// KeepGoing records per-entity failures as placeholder rows and keeps
	// processing instead of aborting the run on the first failure.
	KeepGoing bool `json:"keep_going" yaml:"keep_going"`
}
