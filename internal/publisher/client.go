// Package publisher uploads installer archives to GitHub releases.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
)

const (
	defaultAPIRoot          = "https://api.github.com"
	defaultUploadRoot       = "https://uploads.github.com"
	userAgent               = "retail-admin-installer"
	errorBodyLimit    int64 = 2048
)

var errNoArchives = errors.New("no archives supplied for publishing")

// RemoteError is returned when GitHub answers with an unexpected status.
type RemoteError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s failed with %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Client talks to the GitHub releases API.
type Client struct {
	httpClient *http.Client
	apiRoot    string
	uploadRoot string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIRoot overrides https://api.github.com.
func WithAPIRoot(root string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(root), "/"); trimmed != "" {
			c.apiRoot = trimmed
		}
	}
}

// WithUploadRoot overrides https://uploads.github.com.
func WithUploadRoot(root string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(root), "/"); trimmed != "" {
			c.uploadRoot = trimmed
		}
	}
}

// WithToken sets the personal access token sent as "Authorization: token ...".
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient builds a GitHub releases client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiRoot:    defaultAPIRoot,
		uploadRoot: defaultUploadRoot,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Input describes one publish run.
type Input struct {
	Repository  string
	Tag         string
	ReleaseName string
	Notes       string
	Archives    []string
	Draft       bool
	Prerelease  bool
}

// Result is the outcome of a publish run.
type Result struct {
	ReleaseURL     string
	UploadedAssets []string
}

type release struct {
	ID      int64   `json:"id"`
	HTMLURL string  `json:"html_url"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Publish creates the release for in.Tag, or updates the existing one, then
// uploads every archive, replacing same-named assets. Any unexpected status
// aborts the run; assets already uploaded are left in place.
func (c *Client) Publish(ctx context.Context, in Input) (*Result, error) {
	if len(in.Archives) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errNoArchives, errNoArchives.Error())
	}
	if strings.Count(in.Repository, "/") != 1 || strings.TrimSpace(in.Tag) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repository must be owner/name and tag is required")
	}

	rel, err := c.createOrUpdateRelease(ctx, in)
	if err != nil {
		return nil, err
	}
	if rel.ID == 0 || rel.HTMLURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "GitHub response did not contain release identifiers")
	}

	existing := make(map[string]int64, len(rel.Assets))
	for _, a := range rel.Assets {
		if a.Name != "" && a.ID != 0 {
			existing[a.Name] = a.ID
		}
	}

	uploaded := make([]string, 0, len(in.Archives))
	for _, archive := range in.Archives {
		info, err := os.Stat(archive)
		if err != nil || !info.Mode().IsRegular() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("archive %s does not exist or is not a file", archive))
		}
		name := filepath.Base(archive)
		if id, ok := existing[name]; ok {
			if err := c.deleteAsset(ctx, in.Repository, id); err != nil {
				return nil, err
			}
		}
		if err := c.uploadAsset(ctx, in.Repository, rel.ID, archive, name); err != nil {
			return nil, err
		}
		uploaded = append(uploaded, name)
	}

	final, err := c.releaseByTag(ctx, in.Repository, in.Tag)
	if err != nil {
		return nil, err
	}
	releaseURL := final.HTMLURL
	if releaseURL == "" {
		releaseURL = rel.HTMLURL
	}
	return &Result{ReleaseURL: releaseURL, UploadedAssets: uploaded}, nil
}

func (c *Client) createOrUpdateRelease(ctx context.Context, in Input) (*release, error) {
	name := in.ReleaseName
	if name == "" {
		name = in.Tag
	}
	meta := map[string]any{
		"name":       name,
		"body":       in.Notes,
		"draft":      in.Draft,
		"prerelease": in.Prerelease,
	}
	create := map[string]any{"tag_name": in.Tag}
	for k, v := range meta {
		create[k] = v
	}

	endpoint := fmt.Sprintf("%s/repos/%s/releases", c.apiRoot, in.Repository)
	status, body, err := c.doJSON(ctx, http.MethodPost, endpoint, create, http.StatusCreated, http.StatusUnprocessableEntity)
	if err != nil {
		return nil, err
	}
	if status == http.StatusCreated {
		return decodeRelease(body)
	}

	existing, err := c.releaseByTag(ctx, in.Repository, in.Tag)
	if err != nil {
		return nil, err
	}
	if existing.ID == 0 {
		return existing, nil
	}
	patchURL := fmt.Sprintf("%s/repos/%s/releases/%d", c.apiRoot, in.Repository, existing.ID)
	if _, _, err := c.doJSON(ctx, http.MethodPatch, patchURL, meta, http.StatusOK); err != nil {
		return nil, err
	}
	return c.releaseByTag(ctx, in.Repository, in.Tag)
}

func (c *Client) releaseByTag(ctx context.Context, repository, tag string) (*release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.apiRoot, repository, url.PathEscape(tag))
	_, body, err := c.doJSON(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeRelease(body)
}

func (c *Client) deleteAsset(ctx context.Context, repository string, id int64) error {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/assets/%d", c.apiRoot, repository, id)
	_, _, err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, http.StatusNoContent, http.StatusNotFound)
	return err
}

func (c *Client) uploadAsset(ctx context.Context, repository string, releaseID int64, path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read archive")
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/%d/assets?%s",
		c.uploadRoot, repository, releaseID, url.Values{"name": {name}}.Encode())
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	_, _, err = c.do(req, http.StatusCreated)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload any, accepted ...int) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, accepted...)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, accepted ...int) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", req.Method, req.URL))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}
	for _, code := range accepted {
		if resp.StatusCode == code {
			return resp.StatusCode, body, nil
		}
	}
	if len(body) > int(errorBodyLimit) {
		body = body[:errorBodyLimit]
	}
	remote := &RemoteError{
		Method: req.Method,
		URL:    req.URL.String(),
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
	return resp.StatusCode, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, remote, remote.Error())
}

func decodeRelease(body []byte) (*release, error) {
	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "GitHub API returned invalid JSON")
	}
	return &rel, nil
}
