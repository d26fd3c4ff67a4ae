package schemas

import "time"

// RenderState represents the current state of a render job
type RenderState string

const (
	RenderStatePending    RenderState = "pending"
	RenderStateResolving  RenderState = "resolving"
	RenderStateProcessing RenderState = "processing"
	RenderStateUploading  RenderState = "uploading"
	RenderStateCompleted  RenderState = "completed"
	RenderStateFailed     RenderState = "failed"
	RenderStateCancelled  RenderState = "cancelled"
)

// RenderStatus is the caller-visible view of a render job
type RenderStatus struct {
	RenderID    string      `json:"render_id"`
	Status      RenderState `json:"status"`
	Error       *ErrorInfo  `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	OutputPath  string      `json:"output_path,omitempty"`
}

// ErrorInfo identifies a failure: the kind, the offending node's position
// in the request tree, and underlying diagnostic text.
type ErrorInfo struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	NodePath string `json:"node_path,omitempty"`
	Action   string `json:"action,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
}
