package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xva-ops/logdash/internal/metrics"
)

const (
	defaultTimeout   = 60 * time.Second
	maxErrorBodySize = 1 << 20   // 1 MiB
	maxBlobSize      = 512 << 20 // 512 MiB archive ceiling
)

// Client talks to the remote operations API. It holds no token itself;
// every authenticated call takes the bearer token of the operator session
// it serves, so a logout can never corrupt an in-flight request.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client for the remote API rooted at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("upstream base URL is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) ensureClient() error {
	if c.BaseURL == "" {
		return errors.New("upstream base URL is required")
	}
	if c.HTTP == nil {
		return errors.New("upstream http client is not configured")
	}
	return nil
}

// do issues one request and returns the raw body for 2xx responses. Non-2xx
// responses become *APIError. The endpoint label is the path without
// user-supplied segments, used for error context and metrics.
func (c *Client) do(endpoint string, req *http.Request) ([]byte, string, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		return nil, "", fmt.Errorf("upstream %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, "", newAPIError(endpoint, resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize))
	if err != nil {
		return nil, "", fmt.Errorf("upstream %s: read body: %w", endpoint, err)
	}
	return body, contentDispositionFilename(resp), nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path, token string, out any) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	body, _, err := c.do(endpoint, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("upstream %s: decode response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, path, token string, in, out any) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, body)
	if err != nil {
		return err
	}
	raw, _, err := c.do(endpoint, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("upstream %s: decode response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) getBlob(ctx context.Context, endpoint, path, token, fallbackName string) (*Blob, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	return c.blobFromRequest(endpoint, req, fallbackName)
}

func (c *Client) postBlob(ctx context.Context, endpoint, path, token string, in any, fallbackName string) (*Blob, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return c.blobFromRequest(endpoint, req, fallbackName)
}

func (c *Client) blobFromRequest(endpoint string, req *http.Request, fallbackName string) (*Blob, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("upstream %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, newAPIError(endpoint, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize))
	if err != nil {
		return nil, fmt.Errorf("upstream %s: read body: %w", endpoint, err)
	}

	name := contentDispositionFilename(resp)
	if name == "" {
		name = fallbackName
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Blob{ContentType: contentType, Filename: name, Data: data}, nil
}

func contentDispositionFilename(resp *http.Response) string {
	cd := resp.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["filename"])
}

func queryString(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
