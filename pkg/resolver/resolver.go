// Package resolver turns a declarative operation tree into a compiled
// pipeline of external-process invocations. Resolution is two-phase:
// a pure validation walk that touches no sources, then a depth-first
// resolve walk that fetches sources, compiles each node, and emits one
// invocation per operation node.
package resolver

import (
	"context"
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// SourceResolver turns source references into readable local files.
// Satisfied by locator.Session.
type SourceResolver interface {
	Resolve(ctx context.Context, src schemas.SourceReference) (*schemas.ResolvedArtifact, error)
}

// ArtifactAllocator hands out output paths for invocations. Intermediate
// outputs are temporary and owned by the request; the final output
// outlives it. Satisfied by executor.ArtifactSession.
type ArtifactAllocator interface {
	Allocate(prefix, ext string) *schemas.ResolvedArtifact
	AllocateFinal(ext string) *schemas.ResolvedArtifact
}

// Resolver compiles operation trees against an operation registry
type Resolver struct {
	registry *operators.Registry
	builder  *CommandBuilder
}

// New creates a resolver
func New(registry *operators.Registry, builder *CommandBuilder) *Resolver {
	return &Resolver{
		registry: registry,
		builder:  builder,
	}
}

// Resolve compiles the tree rooted at root into a pipeline. The whole
// tree is validated before any source is fetched, so a request with an
// unknown action or a bad parameter anywhere in it fails without
// downloading anything. On error no pipeline is returned; artifacts
// already allocated remain tracked by the allocator and are reclaimed by
// its cleanup.
func (r *Resolver) Resolve(ctx context.Context, root *schemas.OperationNode, sources SourceResolver, alloc ArtifactAllocator) (*schemas.Pipeline, error) {
	if root == nil {
		return nil, newError(KindInvalidArity, "root", "", fmt.Errorf("request has no root node"))
	}

	if err := r.validateNode(root, "root"); err != nil {
		return nil, err
	}

	pipeline := &schemas.Pipeline{}
	output, _, err := r.resolveNode(ctx, root, "root", sources, alloc, pipeline)
	if err != nil {
		return nil, err
	}

	pipeline.Output = output
	return pipeline, nil
}

// validateNode checks one node and recurses into its children. Pure:
// registry lookups and parameter schema checks only.
func (r *Resolver) validateNode(node *schemas.OperationNode, path string) error {
	op, err := r.registry.Get(node.Action)
	if err != nil {
		return newError(KindUnknownOperation, path, node.Action, err)
	}

	desc := op.Describe()
	elements := node.Input.Elements()

	switch desc.InputArity {
	case operators.AritySingle:
		if node.Input.IsList() {
			return newError(KindInvalidArity, path, node.Action,
				fmt.Errorf("%s takes a single input, got a list of %d", node.Action, len(elements)))
		}
		if node.Input.Single == nil {
			return newError(KindInvalidArity, path, node.Action,
				fmt.Errorf("%s requires an input", node.Action))
		}
	case operators.ArityList:
		if !node.Input.IsList() {
			return newError(KindInvalidArity, path, node.Action,
				fmt.Errorf("%s takes a list of inputs", node.Action))
		}
		if len(elements) < desc.MinInputs {
			return newError(KindInvalidArity, path, node.Action,
				fmt.Errorf("%s requires at least %d inputs, got %d", node.Action, desc.MinInputs, len(elements)))
		}
		if desc.MaxInputs > 0 && len(elements) > desc.MaxInputs {
			return newError(KindInvalidArity, path, node.Action,
				fmt.Errorf("%s accepts at most %d inputs, got %d", node.Action, desc.MaxInputs, len(elements)))
		}
	}

	if err := op.ValidateParams(node.Params); err != nil {
		return newError(KindInvalidParameter, path, node.Action, err)
	}

	if cv, ok := op.(operators.InputCountValidator); ok {
		if err := cv.ValidateParamsForInputs(node.Params, len(elements)); err != nil {
			return newError(KindInvalidParameter, path, node.Action, err)
		}
	}

	for i, el := range elements {
		if el.Node == nil {
			continue
		}
		if err := r.validateNode(el.Node, childPath(path, node.Input.IsList(), i)); err != nil {
			return err
		}
	}

	return nil
}

// resolveNode resolves one node's inputs depth-first, compiles it, and
// appends its invocation to the pipeline. Returns the node's output
// artifact and the index of its invocation.
func (r *Resolver) resolveNode(ctx context.Context, node *schemas.OperationNode, path string, sources SourceResolver, alloc ArtifactAllocator, pipeline *schemas.Pipeline) (*schemas.ResolvedArtifact, int, error) {
	// Validation already passed, so the lookup cannot fail here
	op, err := r.registry.Get(node.Action)
	if err != nil {
		return nil, -1, newError(KindUnknownOperation, path, node.Action, err)
	}

	elements := node.Input.Elements()
	inputs := make([]*schemas.ResolvedArtifact, 0, len(elements))
	dependsOn := []int{}

	for i, el := range elements {
		switch {
		case el.Source != nil:
			artifact, err := sources.Resolve(ctx, *el.Source)
			if err != nil {
				return nil, -1, newError(KindSourceUnavailable, childPath(path, node.Input.IsList(), i), node.Action, err)
			}
			inputs = append(inputs, artifact)

		case el.Node != nil:
			artifact, idx, err := r.resolveNode(ctx, el.Node, childPath(path, node.Input.IsList(), i), sources, alloc, pipeline)
			if err != nil {
				return nil, -1, err
			}
			inputs = append(inputs, artifact)
			dependsOn = append(dependsOn, idx)

		default:
			return nil, -1, newError(KindInvalidArity, childPath(path, node.Input.IsList(), i), node.Action,
				fmt.Errorf("empty input element"))
		}
	}

	result, err := op.Compile(&operators.CompileContext{
		Inputs: operators.InputStreamsFor(len(inputs)),
		Params: node.Params,
	})
	if err != nil {
		return nil, -1, newError(KindInvalidParameter, path, node.Action, err)
	}

	var output *schemas.ResolvedArtifact
	if path == "root" {
		output = alloc.AllocateFinal(".mp4")
	} else {
		output = alloc.Allocate("stage", ".mp4")
	}

	program, args, err := r.builder.Build(result, inputs, output)
	if err != nil {
		return nil, -1, newError(KindInvalidParameter, path, node.Action, err)
	}

	invocation := &schemas.Invocation{
		Program:   program,
		Args:      args,
		Inputs:    inputs,
		Output:    output,
		NodePath:  path,
		Action:    node.Action,
		DependsOn: dependsOn,
	}

	pipeline.Invocations = append(pipeline.Invocations, invocation)
	return output, len(pipeline.Invocations) - 1, nil
}

// childPath names an input position under a parent path
func childPath(parent string, isList bool, index int) string {
	if isList {
		return fmt.Sprintf("%s.input[%d]", parent, index)
	}
	return parent + ".input"
}
