package locator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// Allocator hands out tracked temporary artifact paths. Implemented by
// the executor's artifact session; fetched remote content is written into
// artifacts the session owns and deletes.
type Allocator interface {
	Allocate(prefix, ext string) *schemas.ResolvedArtifact
}

// Locator resolves source references into readable local files. Local
// paths pass through untouched; remote sources are fetched through the
// matching storage backend.
type Locator struct {
	local *LocalStorage
	http  *HTTPStorage
	s3    *S3Storage
}

// New creates a locator with all available backends. S3 is initialized
// best-effort; it stays disabled when no AWS credentials are present.
func New() *Locator {
	l := &Locator{
		local: NewLocalStorage(),
		http:  NewHTTPStorage(),
	}

	if s3Storage, err := NewS3Storage(context.Background()); err == nil {
		l.s3 = s3Storage
	}

	return l
}

// backendFor returns the storage backend serving a source's scheme
func (l *Locator) backendFor(source string) (Storage, error) {
	scheme, _, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "file":
		return l.local, nil
	case "http", "https":
		return l.http, nil
	case "s3":
		if l.s3 == nil {
			return nil, fmt.Errorf("S3 backend not initialized (AWS credentials may be missing)")
		}
		return l.s3, nil
	default:
		return nil, fmt.Errorf("unsupported source scheme: %s", scheme)
	}
}

// Session is a per-request resolution scope. It caches fetches so a
// source referenced by several leaves of one request is downloaded once,
// and routes downloaded bytes into artifacts owned by the allocator.
type Session struct {
	loc   *Locator
	alloc Allocator

	mu    sync.Mutex
	cache map[string]*schemas.ResolvedArtifact
}

// NewSession creates a resolution session backed by the given allocator
func (l *Locator) NewSession(alloc Allocator) *Session {
	return &Session{
		loc:   l,
		alloc: alloc,
		cache: make(map[string]*schemas.ResolvedArtifact),
	}
}

// Resolve turns a source reference into a readable local file.
// Local paths resolve in place (Temporary=false, never deleted by the
// system); remote content is fetched into a session-owned temp artifact.
func (s *Session) Resolve(ctx context.Context, src schemas.SourceReference) (*schemas.ResolvedArtifact, error) {
	scheme, localPath, err := ParseSource(src.URL)
	if err != nil {
		return nil, err
	}

	if scheme == "file" {
		info, err := os.Stat(localPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read source %s: %w", localPath, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("source %s is a directory", localPath)
		}
		return &schemas.ResolvedArtifact{Path: localPath, Temporary: false}, nil
	}

	s.mu.Lock()
	if cached, ok := s.cache[src.URL]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	backend, err := s.loc.backendFor(src.URL)
	if err != nil {
		return nil, err
	}

	artifact := s.alloc.Allocate("input", sourceExt(src.URL))

	reader, err := backend.Get(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.URL, err)
	}
	defer reader.Close()

	file, err := os.Create(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create local copy: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return nil, fmt.Errorf("failed to write local copy of %s: %w", src.URL, err)
	}

	s.mu.Lock()
	s.cache[src.URL] = artifact
	s.mu.Unlock()

	return artifact, nil
}

// CheckDestination verifies a destination URI is served by a working
// backend before any rendering effort is spent on the request. For
// remote backends the existence check surfaces credential and
// reachability problems early; whether the object already exists does
// not matter, uploads overwrite.
func (l *Locator) CheckDestination(ctx context.Context, destURI string) error {
	backend, err := l.backendFor(destURI)
	if err != nil {
		return err
	}

	if _, err := backend.Exists(ctx, destURI); err != nil {
		return fmt.Errorf("destination %s is not reachable: %w", destURI, err)
	}

	return nil
}

// Upload copies a local file to a destination URI
func (l *Locator) Upload(ctx context.Context, localPath, destURI string) error {
	backend, err := l.backendFor(destURI)
	if err != nil {
		return err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	if err := backend.Put(ctx, destURI, file); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", destURI, err)
	}

	return nil
}

// sourceExt extracts a sane file extension from a source reference,
// defaulting to .mp4
func sourceExt(source string) string {
	_, p, err := ParseSource(source)
	if err != nil {
		return ".mp4"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := path.Ext(p)
	if ext == "" || len(ext) > 5 {
		return ".mp4"
	}
	return ext
}
