package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// MemoryStore is an in-memory implementation of Store
// Thread-safe for concurrent access
type MemoryStore struct {
	mu      sync.RWMutex
	renders map[string]*Render
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		renders: make(map[string]*Render),
	}
}

// CreateRender creates a new render record
func (m *MemoryStore) CreateRender(ctx context.Context, render *Render) error {
	if render.RenderID == "" {
		return ErrInvalidRenderID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.renders[render.RenderID]; exists {
		return ErrRenderExists
	}

	m.renders[render.RenderID] = m.copyRender(render)
	return nil
}

// GetRender retrieves a render by ID
func (m *MemoryStore) GetRender(ctx context.Context, renderID string) (*Render, error) {
	if renderID == "" {
		return nil, ErrInvalidRenderID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	render, exists := m.renders[renderID]
	if !exists {
		return nil, ErrRenderNotFound
	}

	// Return a copy to prevent external modifications
	return m.copyRender(render), nil
}

// DeleteRender deletes a render by ID
func (m *MemoryStore) DeleteRender(ctx context.Context, renderID string) error {
	if renderID == "" {
		return ErrInvalidRenderID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.renders[renderID]; !exists {
		return ErrRenderNotFound
	}

	delete(m.renders, renderID)
	return nil
}

// ListRenders lists renders with optional filtering, newest first
func (m *MemoryStore) ListRenders(ctx context.Context, filter *ListFilter) ([]*Render, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var renders []*Render
	for _, render := range m.renders {
		if m.matchesFilter(render, filter) {
			renders = append(renders, m.copyRender(render))
		}
	}

	sort.Slice(renders, func(i, j int) bool {
		return renders[i].Created.After(renders[j].Created)
	})

	return m.paginate(renders, filter), nil
}

// UpdateRenderStatus moves a render through its lifecycle
func (m *MemoryStore) UpdateRenderStatus(ctx context.Context, renderID string, status schemas.RenderState) error {
	if renderID == "" {
		return ErrInvalidRenderID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	render, exists := m.renders[renderID]
	if !exists {
		return ErrRenderNotFound
	}
	if render.IsTerminal() {
		return ErrRenderTerminal
	}

	render.Status = status
	render.Updated = time.Now()

	now := time.Now()
	if status == schemas.RenderStateResolving && render.StartedAt == nil {
		render.StartedAt = &now
	}
	if status == schemas.RenderStateCompleted || status == schemas.RenderStateFailed || status == schemas.RenderStateCancelled {
		if render.CompletedAt == nil {
			render.CompletedAt = &now
		}
	}

	return nil
}

// UpdateRenderError records a failure for a render
func (m *MemoryStore) UpdateRenderError(ctx context.Context, renderID string, errInfo *schemas.ErrorInfo) error {
	if renderID == "" {
		return ErrInvalidRenderID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	render, exists := m.renders[renderID]
	if !exists {
		return ErrRenderNotFound
	}
	if render.IsTerminal() {
		return ErrRenderTerminal
	}

	if errInfo != nil {
		e := *errInfo
		render.Error = &e
	}
	render.Updated = time.Now()

	return nil
}

// UpdateRenderOutput records the final output location
func (m *MemoryStore) UpdateRenderOutput(ctx context.Context, renderID string, outputPath string) error {
	if renderID == "" {
		return ErrInvalidRenderID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	render, exists := m.renders[renderID]
	if !exists {
		return ErrRenderNotFound
	}
	if render.IsTerminal() {
		return ErrRenderTerminal
	}

	render.OutputPath = outputPath
	render.Updated = time.Now()

	return nil
}

// Close closes the store (no-op for memory store)
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) copyRender(render *Render) *Render {
	if render == nil {
		return nil
	}

	cp := &Render{
		RenderID:    render.RenderID,
		Created:     render.Created,
		Updated:     render.Updated,
		Node:        render.Node,
		Destination: render.Destination,
		Status:      render.Status,
		OutputPath:  render.OutputPath,
	}

	if render.StartedAt != nil {
		t := *render.StartedAt
		cp.StartedAt = &t
	}
	if render.CompletedAt != nil {
		t := *render.CompletedAt
		cp.CompletedAt = &t
	}
	if render.Error != nil {
		e := *render.Error
		cp.Error = &e
	}

	return cp
}

func (m *MemoryStore) matchesFilter(render *Render, filter *ListFilter) bool {
	if filter == nil {
		return true
	}

	if len(filter.Status) > 0 {
		found := false
		for _, status := range filter.Status {
			if render.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.CreatedAfter != nil && render.Created.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && render.Created.After(*filter.CreatedBefore) {
		return false
	}

	return true
}

func (m *MemoryStore) paginate(renders []*Render, filter *ListFilter) []*Render {
	if filter == nil {
		return renders
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(renders) {
			return []*Render{}
		}
		renders = renders[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(renders) {
		renders = renders[:filter.Limit]
	}

	return renders
}
