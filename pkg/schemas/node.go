// Package schemas defines the declarative request tree and the compiled
// pipeline types shared by the resolver, executor, and API layers.
package schemas

import (
	"encoding/json"
	"fmt"
)

// SourceReference is a leaf input: a local file path or a remote URL.
// Immutable once constructed.
type SourceReference struct {
	URL string `json:"url"`
}

// OperationNode is one step in a declarative edit request. Nodes form a
// tree rooted at the caller's top-level request; a node's input may itself
// be another node.
type OperationNode struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params,omitempty"`
	Input  NodeInput              `json:"input"`
}

// InputElement is one entry of a node's input: either a source leaf or a
// nested operation. Exactly one field is set.
type InputElement struct {
	Source *SourceReference
	Node   *OperationNode
}

// NodeInput is the input of an OperationNode: a single element or an
// ordered list of elements. Order is semantically significant for
// list-arity operations (concat sequence, overlay layering, crossfade and
// audio_mix stream identity).
type NodeInput struct {
	Single *InputElement
	List   []InputElement
}

// IsList reports whether the input was given as an ordered list.
func (in *NodeInput) IsList() bool {
	return in.List != nil
}

// Elements returns the input as a slice, regardless of shape.
func (in *NodeInput) Elements() []InputElement {
	if in.List != nil {
		return in.List
	}
	if in.Single != nil {
		return []InputElement{*in.Single}
	}
	return nil
}

// UnmarshalJSON accepts three shapes:
//   - {"url": "..."}         a source leaf
//   - {"action": "...", ...} a nested operation
//   - "path-or-url"          bare string shorthand for a source leaf
func (e *InputElement) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		e.Source = &SourceReference{URL: s}
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("input element must be a string or an object: %w", err)
	}

	if _, ok := probe["action"]; ok {
		node := &OperationNode{}
		if err := json.Unmarshal(b, node); err != nil {
			return err
		}
		e.Node = node
		return nil
	}

	if _, ok := probe["url"]; ok {
		src := &SourceReference{}
		if err := json.Unmarshal(b, src); err != nil {
			return err
		}
		if src.URL == "" {
			return fmt.Errorf("source reference has empty url")
		}
		e.Source = src
		return nil
	}

	return fmt.Errorf("input element must carry either \"url\" or \"action\"")
}

// MarshalJSON emits the same shapes UnmarshalJSON accepts.
func (e InputElement) MarshalJSON() ([]byte, error) {
	switch {
	case e.Source != nil:
		return json.Marshal(e.Source)
	case e.Node != nil:
		return json.Marshal(e.Node)
	default:
		return nil, fmt.Errorf("empty input element")
	}
}

// UnmarshalJSON decodes either a single element or a JSON array of elements.
func (in *NodeInput) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var list []InputElement
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		if list == nil {
			list = []InputElement{}
		}
		in.List = list
		return nil
	}

	var single InputElement
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	in.Single = &single
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (in NodeInput) MarshalJSON() ([]byte, error) {
	if in.List != nil {
		return json.Marshal(in.List)
	}
	if in.Single != nil {
		return json.Marshal(in.Single)
	}
	return []byte("null"), nil
}

// CountOperations returns the number of operation nodes in the tree rooted
// at n (the node itself plus all nested operations).
func (n *OperationNode) CountOperations() int {
	count := 1
	for _, el := range n.Input.Elements() {
		if el.Node != nil {
			count += el.Node.CountOperations()
		}
	}
	return count
}
