// Package locator resolves source references (local paths or remote URLs)
// into readable local files, fetching remote content through pluggable
// storage backends.
package locator

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// AllowedSchemes is the whitelist of remote URI schemes
var AllowedSchemes = []string{"https", "http", "s3", "file"}

// Storage is the interface all storage backends implement
type Storage interface {
	// Get opens the object at the given URI for reading
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Put uploads data to the given URI
	Put(ctx context.Context, uri string, data io.Reader) error

	// Exists checks if an object exists at the given URI
	Exists(ctx context.Context, uri string) (bool, error)
}

// ParseSource splits a source reference into scheme and path. Bare paths
// (no scheme) are treated as local files, matching what callers send.
func ParseSource(source string) (scheme string, path string, err error) {
	if source == "" {
		return "", "", fmt.Errorf("source cannot be empty")
	}

	if !strings.Contains(source, "://") {
		return "file", source, nil
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("invalid source URI: %w", err)
	}

	if parsed.Scheme == "file" {
		return "file", parsed.Path, nil
	}

	path = parsed.Host
	if parsed.Path != "" {
		path = path + parsed.Path
	}

	return parsed.Scheme, path, nil
}

// IsAllowedScheme checks if a URI scheme is in the whitelist
func IsAllowedScheme(scheme string) bool {
	for _, allowed := range AllowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// IsRemote reports whether a source reference points at remote content
func IsRemote(source string) bool {
	scheme, _, err := ParseSource(source)
	if err != nil {
		return false
	}
	return scheme != "file"
}
