package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/open-cli-collective/mdsite/internal/version"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

const (
	defaultTimeout = 30 * time.Second

	// maxBodySize bounds every response read into memory.
	maxBodySize = 16 << 20

	// PostsIndexFile is the index written next to the rendered posts.
	PostsIndexFile = "posts.json"
)

// Client reads content published by a deployed site.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a client for the site at baseURL. baseURL may be empty
// when only absolute URLs are requested.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "mdsite/" + version.Version,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// resolve turns a site path or an absolute http(s) URL into a request URL.
func (c *Client) resolve(pathOrURL string) (string, error) {
	if u, err := url.Parse(pathOrURL); err == nil && u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
		}
		return pathOrURL, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("no base URL configured for %q", pathOrURL)
	}

	// Ensure path starts with /
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.baseURL + pathOrURL, nil
}

// do executes an HTTP request and returns the response body.
func (c *Client) do(ctx context.Context, method, pathOrURL string) ([]byte, error) {
	target, err := c.resolve(pathOrURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		errResp := ErrorResponse{StatusCode: resp.StatusCode, URL: target}
		if json.Unmarshal(respBody, &errResp) != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		errResp.StatusCode = resp.StatusCode
		return nil, &errResp
	}

	return respBody, nil
}

// Get performs a GET request for a site path or an absolute URL.
func (c *Client) Get(ctx context.Context, pathOrURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, pathOrURL)
}

// Ping checks that the site answers at its base URL.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodHead, "/")
	return err
}

// GetManifest fetches and parses a comic manifest. It implements
// md.ManifestFetcher.
func (c *Client) GetManifest(ctx context.Context, src string) (*md.Manifest, error) {
	body, err := c.Get(ctx, src)
	if err != nil {
		return nil, err
	}
	return md.ParseManifest(body)
}

// ListPosts fetches the posts index of a deployed site.
func (c *Client) ListPosts(ctx context.Context) ([]PostSummary, error) {
	body, err := c.Get(ctx, "/"+PostsIndexFile)
	if err != nil {
		return nil, err
	}

	var posts []PostSummary
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse posts index: %w", err)
	}
	return posts, nil
}
