package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// ArtifactSession owns the files of one request: fetched remote inputs,
// intermediate invocation outputs, and the final output. Temporaries live
// in one per-request directory; the final output sits outside it and is
// released to the caller with KeepFinal, or swept with everything else.
type ArtifactSession struct {
	dir string

	mu        sync.Mutex
	artifacts []*schemas.ResolvedArtifact
	final     *schemas.ResolvedArtifact
	delivered bool
	cleaned   bool
}

// NewArtifactSession creates a session with a fresh temp directory
func NewArtifactSession() (*ArtifactSession, error) {
	dir, err := os.MkdirTemp("", "media-editor-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &ArtifactSession{dir: dir}, nil
}

// Dir returns the session's temp directory
func (s *ArtifactSession) Dir() string {
	return s.dir
}

// Allocate reserves a unique temporary path inside the session directory.
// The file is not created; the caller writes it. The session deletes it
// on cleanup.
func (s *ArtifactSession) Allocate(prefix, ext string) *schemas.ResolvedArtifact {
	artifact := &schemas.ResolvedArtifact{
		Path:      filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext)),
		Temporary: true,
	}

	s.mu.Lock()
	s.artifacts = append(s.artifacts, artifact)
	s.mu.Unlock()

	return artifact
}

// AllocateFinal reserves the request's final output path, outside the
// session directory so the directory sweep never touches it. The final
// artifact still belongs to the session until KeepFinal is called: a
// failed request must not leave a partial result behind.
func (s *ArtifactSession) AllocateFinal(ext string) *schemas.ResolvedArtifact {
	artifact := &schemas.ResolvedArtifact{
		Path:      filepath.Join(os.TempDir(), fmt.Sprintf("final_%s%s", uuid.NewString(), ext)),
		Temporary: false,
	}

	s.mu.Lock()
	s.final = artifact
	s.mu.Unlock()

	return artifact
}

// KeepFinal hands ownership of the final artifact to the caller. Called
// on success when the result stays local; without it, cleanup deletes the
// final file along with the temporaries (failed requests, and requests
// whose result was uploaded to a destination).
func (s *ArtifactSession) KeepFinal() {
	s.mu.Lock()
	s.delivered = true
	s.mu.Unlock()
}

// Cleanup deletes every temporary artifact and the session directory.
// Idempotent: a second call is a no-op, so each temporary is removed at
// most once. Runs on success and on failure alike.
func (s *ArtifactSession) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleaned {
		return nil
	}
	s.cleaned = true

	var firstErr error
	for _, artifact := range s.artifacts {
		if !artifact.Temporary {
			continue
		}
		if err := os.Remove(artifact.Path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}

	if s.final != nil && !s.delivered {
		if err := os.Remove(s.final.Path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}

	if err := os.RemoveAll(s.dir); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
