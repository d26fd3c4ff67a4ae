package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies a resolution failure
type Kind string

const (
	// KindUnknownOperation is returned when a node names an action absent
	// from the registry
	KindUnknownOperation Kind = "unknown_operation"

	// KindInvalidArity is returned when a node's input shape does not
	// match the operation's declared arity
	KindInvalidArity Kind = "invalid_arity"

	// KindInvalidParameter is returned when a parameter fails its
	// operation's schema or cross-checks
	KindInvalidParameter Kind = "invalid_parameter"

	// KindSourceUnavailable is returned when a referenced source cannot
	// be read or fetched
	KindSourceUnavailable Kind = "source_unavailable"

	// KindExecutionFailed is returned when a compiled invocation fails at
	// run time
	KindExecutionFailed Kind = "execution_failed"
)

// Error is a resolution failure pinned to a position in the request tree
type Error struct {
	Kind     Kind
	NodePath string
	Action   string
	Err      error
}

func (e *Error) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s at %s (%s): %v", e.Kind, e.NodePath, e.Action, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.NodePath, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err with its kind and tree position
func newError(kind Kind, nodePath, action string, err error) *Error {
	return &Error{Kind: kind, NodePath: nodePath, Action: action, Err: err}
}

// KindOf extracts the failure kind from an error chain, or "" when the
// error did not originate in resolution
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
