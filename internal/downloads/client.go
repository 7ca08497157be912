package downloads

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
)

// Client mirrors installers advertised by a running admin service.
type Client struct {
	http *http.Client
}

// NewClient returns a Client; a nil httpClient gets a 60s timeout default.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{http: httpClient}
}

// SyncOptions controls a mirror run.
type SyncOptions struct {
	Source    string
	OutputDir string
	Name      string
	Overwrite bool
}

// SyncResult reports what a mirror run did.
type SyncResult struct {
	IndexURL string
	Saved    []string
	Skipped  []string
}

// IndexURL normalizes source to the /downloads listing endpoint.
func IndexURL(source string) string {
	url := strings.TrimRight(strings.TrimSpace(source), "/")
	if !strings.HasSuffix(url, "/downloads") {
		url += "/downloads"
	}
	return url
}

// Index fetches and decodes the installer listing.
func (c *Client) Index(ctx context.Context, indexURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", indexURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, indexURL)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("server returned invalid JSON: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		if e.Filename == "" || e.URL == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Sync downloads every advertised installer, or only opts.Name when set.
// Existing files are skipped unless Overwrite is true.
func (c *Client) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	result := &SyncResult{IndexURL: IndexURL(opts.Source)}

	entries, err := c.Index(ctx, result.IndexURL)
	if err != nil {
		return nil, err
	}
	if opts.Name != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Filename == opts.Name {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
		if len(entries) == 0 {
			return nil, fmt.Errorf("installer named %s was not advertised by the server", opts.Name)
		}
	}

	for _, e := range entries {
		dest := filepath.Join(opts.OutputDir, filepath.Base(e.Filename))
		if _, err := os.Stat(dest); err == nil && !opts.Overwrite {
			result.Skipped = append(result.Skipped, dest)
			continue
		}
		if err := c.fetch(ctx, e.URL, dest); err != nil {
			return result, err
		}
		result.Saved = append(result.Saved, dest)
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
