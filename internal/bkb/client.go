// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bkb is a client for the BiomarkerKB HTTP API. Queries follow the
// API's list-then-download shape: a search request creates a temporary
// server-side list, and a second request downloads the list as CSV.
package bkb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/pdiddy/biomarker-engine/internal/httputil"
	"github.com/pdiddy/biomarker-engine/internal/table"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

// DefaultBaseURL is the public BiomarkerKB API root.
const DefaultBaseURL = "https://api.biomarkerkb.org"

const (
	searchPath   = "/biomarker/search"
	downloadPath = "/data/list_download"
	swaggerPath  = "/swagger.json"
)

// Download responses can be whole result sets, so their timeout is much
// longer than the search timeout.
const (
	defaultSearchTimeout   = 60 * time.Second
	defaultDownloadTimeout = 300 * time.Second
)

// Client calls the BiomarkerKB API.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	// APIKey, when set, is sent as X-Api-Key. The public API needs none.
	APIKey    string
	UserAgent string

	// Timeout bounds search and probe calls; DownloadTimeout bounds list
	// downloads. Zero values fall back to the package defaults.
	Timeout         time.Duration
	DownloadTimeout time.Duration

	// MaxRetries caps retries on HTTP 429.
	MaxRetries int

	// Log receives progress and retry notices. Nil discards them.
	Log io.Writer
}

// NewClient returns a Client configured from cfg, writing progress to w.
func NewClient(cfg types.APIConfig, w io.Writer) *Client {
	return &Client{
		HTTP:            &http.Client{},
		BaseURL:         cfg.BaseURL,
		APIKey:          cfg.APIKey,
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		DownloadTimeout: cfg.DownloadTimeout,
		MaxRetries:      cfg.MaxRetries,
		Log:             w,
	}
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) log() io.Writer {
	if c.Log != nil {
		return c.Log
	}
	return io.Discard
}

// do sends one request and returns the status and the full response body.
// The timeout bounds each attempt including its body read; backoff waits
// between rate-limit retries are not counted against it. A nil payload
// sends no body.
func (c *Client) do(ctx context.Context, method, path string, payload any, accept string, timeout time.Duration) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base()+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout > 0 {
		scoped := *httpClient
		scoped.Timeout = timeout
		httpClient = &scoped
	}

	resp, err := httputil.DoWithRetry(ctx, httpClient, req, c.MaxRetries, c.log())
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// CreateList posts a search and returns the id of the server-side list it
// created. The id can be a string or a number in the response; either way
// it is returned as a string.
func (c *Client) CreateList(ctx context.Context, req ListRequest) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}

	status, body, err := c.do(ctx, http.MethodPost, searchPath, req.Payload, "application/json", timeout)
	if err != nil {
		return "", fmt.Errorf("search request for %s: %w", req.Description, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("search request for %s returned HTTP %d", req.Description, status)
	}

	var sr searchResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&sr); err != nil {
		return "", fmt.Errorf("non-JSON search response for %s (HTTP %d): %q",
			req.Description, status, snippet(body))
	}

	listID := sr.listID()
	if listID == "" {
		return "", fmt.Errorf("search response for %s did not contain a list_id", req.Description)
	}
	return listID, nil
}

// DownloadList redeems a list id for its rows. The primary download asks
// for CSV; when the CSV cannot be parsed the download is retried in JSON
// and converted. An empty body is an empty table, and a header-only body
// keeps its columns with zero rows.
func (c *Client) DownloadList(ctx context.Context, listID string) (table.Table, error) {
	timeout := c.DownloadTimeout
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}

	status, body, err := c.do(ctx, http.MethodPost, downloadPath, downloadPayload(listID, "csv"), "text/csv", timeout)
	if err != nil {
		return table.Table{}, fmt.Errorf("download request for list %s: %w", listID, err)
	}
	if status != http.StatusOK {
		return table.Table{}, fmt.Errorf("download request for list %s returned HTTP %d", listID, status)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return table.Table{}, nil
	}

	tab, csvErr := table.FromCSV(bytes.NewReader(body))
	if csvErr == nil {
		return tab, nil
	}
	return c.downloadJSON(ctx, listID, timeout)
}

// downloadJSON is the fallback for lists whose CSV rendering is malformed,
// for example rows with stray unquoted commas.
func (c *Client) downloadJSON(ctx context.Context, listID string, timeout time.Duration) (table.Table, error) {
	status, body, err := c.do(ctx, http.MethodPost, downloadPath, downloadPayload(listID, "json"), "application/json", timeout)
	if err != nil {
		return table.Table{}, fmt.Errorf("CSV parsing failed and JSON fallback errored for list %s: %w", listID, err)
	}
	if status != http.StatusOK {
		return table.Table{}, fmt.Errorf("CSV parsing failed and JSON fallback for list %s returned HTTP %d", listID, status)
	}

	tab, err := table.FromJSONRecords(body)
	if err != nil {
		return table.Table{}, fmt.Errorf("JSON fallback for list %s: %w", listID, err)
	}
	return tab, nil
}

func downloadPayload(listID, format string) map[string]any {
	return map[string]any{
		"id":            listID,
		"download_type": "biomarker_list",
		"format":        format,
		"compressed":    false,
	}
}

// Paths fetches the API's OpenAPI document and returns its path keys in
// sorted order, a quick probe of the available endpoints.
func (c *Client) Paths(ctx context.Context) ([]string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}

	status, body, err := c.do(ctx, http.MethodGet, swaggerPath, nil, "application/json", timeout)
	if err != nil {
		return nil, fmt.Errorf("fetching swagger.json: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("swagger.json returned HTTP %d", status)
	}

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing swagger.json: %w", err)
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// snippet truncates a response body for error messages.
func snippet(body []byte) string {
	if len(body) > 500 {
		body = body[:500]
	}
	return string(body)
}

// searchResponse is the JSON shape of a successful search.
type searchResponse struct {
	ListID any `json:"list_id"`
}

// listID renders the list id as a string. The API has returned both string
// and numeric ids over time.
func (r searchResponse) listID() string {
	switch v := r.ListID.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
