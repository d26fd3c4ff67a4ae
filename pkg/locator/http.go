package locator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPStorage implements Storage for http/https downloads (read-only)
type HTTPStorage struct {
	client *http.Client
}

// NewHTTPStorage creates a new HTTP storage backend
func NewHTTPStorage() *HTTPStorage {
	return &HTTPStorage{
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Get downloads an object over http/https
func (hs *HTTPStorage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, _, err := ParseSource(uri)
	if err != nil {
		return nil, err
	}

	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("HTTP storage cannot serve %s:// sources", scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// Put is not supported for HTTP storage
func (hs *HTTPStorage) Put(ctx context.Context, uri string, data io.Reader) error {
	return fmt.Errorf("HTTP storage is read-only")
}

// Exists checks reachability with a HEAD request
func (hs *HTTPStorage) Exists(ctx context.Context, uri string) (bool, error) {
	scheme, _, err := ParseSource(uri)
	if err != nil {
		return false, err
	}

	if scheme != "http" && scheme != "https" {
		return false, fmt.Errorf("HTTP storage cannot serve %s:// sources", scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
