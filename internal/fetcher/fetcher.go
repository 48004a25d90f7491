// Package fetcher downloads the raw access log text over HTTP
package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches log text from a remote URL
type Client struct {
	httpClient *http.Client
}

// New creates a fetch client. The timeout bounds the whole request
// including the body read; 0 means no timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the log at url and splits the body into lines.
// Anything other than a 200 response fails the whole run: parsing must
// never start from a partial or error body.
func (c *Client) Fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download logs from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download logs from %s: server returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read log body: %w", err)
	}

	text, err := decompress(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress log body: %w", err)
	}

	return strings.Split(text, "\n"), nil
}

// decompress unwraps a gzip body when present. Public mirrors of the
// common log datasets serve both plain text and .gz objects, so the
// body is sniffed by its magic bytes rather than trusting headers.
func decompress(body []byte) (string, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return string(body), nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
