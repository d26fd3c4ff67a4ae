// Package store provides render job state persistence
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

var (
	// ErrRenderNotFound is returned when a render job does not exist
	ErrRenderNotFound = errors.New("render not found")

	// ErrRenderExists is returned when creating a render with a taken ID
	ErrRenderExists = errors.New("render already exists")

	// ErrInvalidRenderID is returned for invalid render IDs
	ErrInvalidRenderID = errors.New("invalid render ID")

	// ErrRenderTerminal is returned when updating a render that already
	// reached a final state. Keeps a cancelled render cancelled even when
	// its background processing finishes later.
	ErrRenderTerminal = errors.New("render is in a terminal state")
)

// Store is the interface for render job state persistence
type Store interface {
	// CreateRender creates a new render record
	CreateRender(ctx context.Context, render *Render) error

	// GetRender retrieves a render by ID
	GetRender(ctx context.Context, renderID string) (*Render, error)

	// DeleteRender deletes a render by ID
	DeleteRender(ctx context.Context, renderID string) error

	// ListRenders lists renders with optional filtering
	ListRenders(ctx context.Context, filter *ListFilter) ([]*Render, error)

	// UpdateRenderStatus moves a render through its lifecycle
	UpdateRenderStatus(ctx context.Context, renderID string, status schemas.RenderState) error

	// UpdateRenderError records a failure for a render
	UpdateRenderError(ctx context.Context, renderID string, errInfo *schemas.ErrorInfo) error

	// UpdateRenderOutput records the final output location
	UpdateRenderOutput(ctx context.Context, renderID string, outputPath string) error

	// Close closes the store and releases resources
	Close() error
}

// Render is a complete render job record
type Render struct {
	RenderID string    `json:"render_id"`
	Created  time.Time `json:"created_at"`
	Updated  time.Time `json:"updated_at"`

	// The declarative request tree as submitted
	Node *schemas.OperationNode `json:"node"`

	// Optional destination URI the final output is uploaded to
	Destination string `json:"destination,omitempty"`

	Status      schemas.RenderState `json:"status"`
	Error       *schemas.ErrorInfo  `json:"error,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`

	OutputPath string `json:"output_path,omitempty"`
}

// ListFilter defines filtering criteria for listing renders
type ListFilter struct {
	Status []schemas.RenderState `json:"status,omitempty"`

	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max results (0 = no limit)
	Offset int `json:"offset,omitempty"` // Skip N results
}

// ToStatus converts a Render to its caller-visible view
func (r *Render) ToStatus() *schemas.RenderStatus {
	return &schemas.RenderStatus{
		RenderID:    r.RenderID,
		Status:      r.Status,
		Error:       r.Error,
		CreatedAt:   r.Created,
		UpdatedAt:   r.Updated,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		OutputPath:  r.OutputPath,
	}
}

// IsTerminal returns true if the render reached a final state
func (r *Render) IsTerminal() bool {
	return r.Status == schemas.RenderStateCompleted ||
		r.Status == schemas.RenderStateFailed ||
		r.Status == schemas.RenderStateCancelled
}
