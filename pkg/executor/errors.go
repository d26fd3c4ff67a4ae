package executor

import "fmt"

// ExecutionError reports one failed invocation with enough context to
// point back at the originating node in the request tree
type ExecutionError struct {
	InvocationIndex int
	NodePath        string
	Action          string
	ExitCode        int
	Stderr          string
	Err             error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("invocation %d (%s at %s) failed: %v", e.InvocationIndex, e.Action, e.NodePath, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
