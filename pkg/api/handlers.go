// Package api provides HTTP handlers for the media editor API
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ofekfell/media-mcp-editor/pkg/executor"
	"github.com/ofekfell/media-mcp-editor/pkg/locator"
	"github.com/ofekfell/media-mcp-editor/pkg/operators"
	"github.com/ofekfell/media-mcp-editor/pkg/prober"
	"github.com/ofekfell/media-mcp-editor/pkg/resolver"
	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
	"github.com/ofekfell/media-mcp-editor/pkg/store"
)

// Server holds the API server dependencies
type Server struct {
	store    store.Store
	registry *operators.Registry
	resolver *resolver.Resolver
	engine   *executor.Engine
	locator  *locator.Locator
	prober   *prober.Prober

	// In-flight render contexts, so DELETE can stop running work
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewServer creates a new API server
func NewServer(s store.Store) *Server {
	registry := operators.GlobalRegistry()
	return &Server{
		store:    s,
		registry: registry,
		resolver: resolver.New(registry, resolver.NewCommandBuilder()),
		engine:   executor.NewEngine(),
		locator:  locator.New(),
		prober:   prober.New(""),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// trackCancel registers the cancel func of an in-flight render
func (s *Server) trackCancel(renderID string, cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancels[renderID] = cancel
	s.mu.Unlock()
}

// untrackCancel forgets a finished render's cancel func
func (s *Server) untrackCancel(renderID string) {
	s.mu.Lock()
	delete(s.cancels, renderID)
	s.mu.Unlock()
}

// cancelInFlight fires the cancel func of a running render, if any
func (s *Server) cancelInFlight(renderID string) {
	s.mu.Lock()
	cancel, ok := s.cancels[renderID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// CreateRenderRequest is the request body for creating a render
type CreateRenderRequest struct {
	// The declarative operation tree to render
	Node *schemas.OperationNode `json:"node"`

	// Optional destination URI for the final output (file:// or s3://)
	Destination string `json:"destination,omitempty"`
}

// CreateRenderResponse is the response for creating a render
type CreateRenderResponse struct {
	RenderID  string    `json:"render_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HandleCreateRender handles POST /api/v1/renders
func (s *Server) HandleCreateRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req CreateRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.Node == nil {
		s.sendError(w, http.StatusBadRequest, "missing_node", "An operation tree is required; a bare source with no operation has nothing to render")
		return
	}

	// Source hygiene is checked at the request boundary, before anything
	// is fetched or stored
	if err := validateTreeSources(req.Node); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_source", err.Error())
		return
	}

	if req.Destination != "" {
		scheme, _, err := locator.ParseSource(req.Destination)
		if err != nil || !locator.IsAllowedScheme(scheme) || scheme == "http" || scheme == "https" {
			s.sendError(w, http.StatusBadRequest, "invalid_destination", "Destination must be a file or s3 URI")
			return
		}
	}

	renderID := "render_" + uuid.NewString()

	render := &store.Render{
		RenderID:    renderID,
		Created:     time.Now(),
		Updated:     time.Now(),
		Status:      schemas.RenderStatePending,
		Node:        req.Node,
		Destination: req.Destination,
	}

	ctx := r.Context()
	if err := s.store.CreateRender(ctx, render); err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to create render: %v", err))
		return
	}

	// Process in the background; the caller polls for status
	go s.processRender(context.Background(), renderID)

	resp := CreateRenderResponse{
		RenderID:  renderID,
		Status:    string(schemas.RenderStatePending),
		CreatedAt: render.Created,
	}

	s.sendJSON(w, http.StatusCreated, resp)
}

// HandleGetRender handles GET /api/v1/renders/{id}
func (s *Server) HandleGetRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	renderID := extractRenderID(r.URL.Path)
	if renderID == "" {
		s.sendError(w, http.StatusBadRequest, "invalid_render_id", "Render ID is required")
		return
	}

	ctx := r.Context()
	render, err := s.store.GetRender(ctx, renderID)
	if err == store.ErrRenderNotFound {
		s.sendError(w, http.StatusNotFound, "render_not_found", fmt.Sprintf("Render %s not found", renderID))
		return
	}
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to get render: %v", err))
		return
	}

	s.sendJSON(w, http.StatusOK, render.ToStatus())
}

// HandleListRenders handles GET /api/v1/renders
func (s *Server) HandleListRenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	filter := s.parseListFilter(r)

	ctx := r.Context()
	renders, err := s.store.ListRenders(ctx, filter)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to list renders: %v", err))
		return
	}

	statuses := make([]*schemas.RenderStatus, len(renders))
	for i, render := range renders {
		statuses[i] = render.ToStatus()
	}

	s.sendJSON(w, http.StatusOK, statuses)
}

// HandleDeleteRender handles DELETE /api/v1/renders/{id}.
// Terminal renders are removed; in-flight renders are marked cancelled.
func (s *Server) HandleDeleteRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	renderID := extractRenderID(r.URL.Path)
	if renderID == "" {
		s.sendError(w, http.StatusBadRequest, "invalid_render_id", "Render ID is required")
		return
	}

	ctx := r.Context()

	render, err := s.store.GetRender(ctx, renderID)
	if err == store.ErrRenderNotFound {
		s.sendError(w, http.StatusNotFound, "render_not_found", fmt.Sprintf("Render %s not found", renderID))
		return
	}
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to get render: %v", err))
		return
	}

	if render.IsTerminal() {
		if err := s.store.DeleteRender(ctx, renderID); err != nil {
			s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to delete render: %v", err))
			return
		}
	} else {
		// Mark cancelled first so background processing cannot finish the
		// render, then stop its running work
		err := s.store.UpdateRenderStatus(ctx, renderID, schemas.RenderStateCancelled)
		if err != nil && !errors.Is(err, store.ErrRenderTerminal) {
			s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to cancel render: %v", err))
			return
		}
		s.cancelInFlight(renderID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// OperationInfo is the catalog entry for one registered operation
type OperationInfo struct {
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	InputArity  string              `json:"input_arity"`
	MinInputs   int                 `json:"min_inputs"`
	MaxInputs   int                 `json:"max_inputs"`
	Parameters  []ParameterInfo     `json:"parameters,omitempty"`
}

// ParameterInfo describes one operation parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// HandleListOperations handles GET /api/v1/operations
func (s *Server) HandleListOperations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	ops := s.registry.List()
	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		desc := op.Describe()

		params := make([]ParameterInfo, 0, len(desc.Parameters))
		for _, p := range desc.Parameters {
			params = append(params, ParameterInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Required:    p.Required,
				Default:     p.Default,
				Description: p.Description,
			})
		}

		infos = append(infos, OperationInfo{
			Name:        desc.Name,
			Category:    string(desc.Category),
			Description: desc.Description,
			InputArity:  string(desc.InputArity),
			MinInputs:   desc.MinInputs,
			MaxInputs:   desc.MaxInputs,
			Parameters:  params,
		})
	}

	s.sendJSON(w, http.StatusOK, infos)
}

// ProbeRequest is the request body for probing a media file
type ProbeRequest struct {
	URL string `json:"url"`
}

// HandleProbe handles POST /api/v1/probe
func (s *Server) HandleProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req ProbeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	scheme, path, err := locator.ParseSource(req.URL)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_source", err.Error())
		return
	}
	if scheme != "file" {
		s.sendError(w, http.StatusBadRequest, "invalid_source", "Only local files can be probed")
		return
	}

	info, err := s.prober.Probe(r.Context(), path)
	if err != nil {
		s.sendError(w, http.StatusUnprocessableEntity, "probe_failed", err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, info)
}

// HandleHealth handles GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	health := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	}

	s.sendJSON(w, http.StatusOK, health)
}

// processRender runs one render end to end: resolve the tree, execute
// the pipeline, optionally upload, and always clean up temporaries. A
// transition rejected by the store means the render was cancelled out
// from under us; processing stops there.
func (s *Server) processRender(ctx context.Context, renderID string) {
	render, err := s.store.GetRender(ctx, renderID)
	if err != nil {
		return
	}
	if render.IsTerminal() {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.trackCancel(renderID, cancel)
	defer func() {
		s.untrackCancel(renderID)
		cancel()
	}()

	session, err := executor.NewArtifactSession()
	if err != nil {
		s.failRender(renderID, &schemas.ErrorInfo{Kind: "internal", Message: err.Error()})
		return
	}
	defer func() {
		if err := session.Cleanup(); err != nil {
			log.Printf("render %s: cleanup failed: %v", renderID, err)
		}
	}()

	if render.Destination != "" {
		if err := s.locator.CheckDestination(ctx, render.Destination); err != nil {
			s.failRender(renderID, &schemas.ErrorInfo{Kind: "upload_failed", Message: err.Error()})
			return
		}
	}

	if !s.transition(renderID, schemas.RenderStateResolving) {
		return
	}

	sources := s.locator.NewSession(session)
	pipeline, err := s.resolver.Resolve(ctx, render.Node, sources, session)
	if err != nil {
		s.failRender(renderID, errorInfo(err))
		return
	}

	if !s.transition(renderID, schemas.RenderStateProcessing) {
		return
	}

	if err := s.engine.Run(ctx, pipeline, nil); err != nil {
		s.failRender(renderID, errorInfo(err))
		return
	}

	outputPath := pipeline.Output.Path

	if render.Destination != "" {
		if !s.transition(renderID, schemas.RenderStateUploading) {
			return
		}

		if err := s.locator.Upload(ctx, outputPath, render.Destination); err != nil {
			s.failRender(renderID, &schemas.ErrorInfo{Kind: "upload_failed", Message: err.Error()})
			return
		}
		// The local copy is swept with the session; the destination is
		// the deliverable
		outputPath = render.Destination
	}

	if err := s.store.UpdateRenderOutput(context.Background(), renderID, outputPath); err != nil {
		log.Printf("render %s: recording output failed: %v", renderID, err)
		return
	}
	if !s.transition(renderID, schemas.RenderStateCompleted) {
		return
	}

	// Ownership of a local result passes to the caller only once the
	// completion is recorded; a render cancelled this late still leaves
	// nothing behind
	if render.Destination == "" {
		session.KeepFinal()
	}
}

// transition advances a render's lifecycle state. Returns false when the
// store refuses, which means the render already reached a terminal state.
func (s *Server) transition(renderID string, state schemas.RenderState) bool {
	if err := s.store.UpdateRenderStatus(context.Background(), renderID, state); err != nil {
		log.Printf("render %s: halting before %s: %v", renderID, state, err)
		return false
	}
	return true
}

func (s *Server) failRender(renderID string, info *schemas.ErrorInfo) {
	// Store updates run on a fresh context: the render context may
	// already be cancelled, but the failure must still be recorded
	ctx := context.Background()
	if err := s.store.UpdateRenderError(ctx, renderID, info); err != nil {
		log.Printf("render %s: not recording failure: %v", renderID, err)
		return
	}
	if err := s.store.UpdateRenderStatus(ctx, renderID, schemas.RenderStateFailed); err != nil {
		log.Printf("render %s: not marking failed: %v", renderID, err)
		return
	}
	log.Printf("render %s failed: %s at %s: %s", renderID, info.Kind, info.NodePath, info.Message)
}

// errorInfo converts resolution and execution errors to their wire form
func errorInfo(err error) *schemas.ErrorInfo {
	var re *resolver.Error
	if errors.As(err, &re) {
		return &schemas.ErrorInfo{
			Kind:     string(re.Kind),
			Message:  re.Err.Error(),
			NodePath: re.NodePath,
			Action:   re.Action,
		}
	}

	var ee *executor.ExecutionError
	if errors.As(err, &ee) {
		return &schemas.ErrorInfo{
			Kind:     string(resolver.KindExecutionFailed),
			Message:  ee.Err.Error(),
			NodePath: ee.NodePath,
			Action:   ee.Action,
			Stderr:   ee.Stderr,
			ExitCode: ee.ExitCode,
		}
	}

	return &schemas.ErrorInfo{Kind: "internal", Message: err.Error()}
}

// validateTreeSources checks every source leaf of the tree: schemes must
// be on the allowlist, and http/https hosts must not resolve into blocked
// networks
func validateTreeSources(node *schemas.OperationNode) error {
	for _, el := range node.Input.Elements() {
		switch {
		case el.Source != nil:
			scheme, _, err := locator.ParseSource(el.Source.URL)
			if err != nil {
				return err
			}
			if !locator.IsAllowedScheme(scheme) {
				return fmt.Errorf("source scheme %s is not allowed", scheme)
			}
			if scheme == "http" || scheme == "https" {
				if err := locator.ValidateHTTPURI(el.Source.URL); err != nil {
					return err
				}
			}
		case el.Node != nil:
			if err := validateTreeSources(el.Node); err != nil {
				return err
			}
		}
	}
	return nil
}

// Helper methods

func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	}
	s.sendJSON(w, status, resp)
}

func (s *Server) parseListFilter(r *http.Request) *store.ListFilter {
	q := r.URL.Query()
	filter := &store.ListFilter{}

	if statusStr := q.Get("status"); statusStr != "" {
		filter.Status = []schemas.RenderState{schemas.RenderState(statusStr)}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		var limit int
		fmt.Sscanf(limitStr, "%d", &limit)
		filter.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		var offset int
		fmt.Sscanf(offsetStr, "%d", &offset)
		filter.Offset = offset
	}

	return filter
}

// extractRenderID extracts the ID from a path like "/api/v1/renders/{id}"
func extractRenderID(path string) string {
	const prefix = "/api/v1/renders/"
	if len(path) <= len(prefix) {
		return ""
	}
	return path[len(prefix):]
}

// Close closes the server and releases resources
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
