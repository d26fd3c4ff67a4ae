// Package executor runs compiled pipelines: it schedules invocations by
// their declared dependencies, bounds process parallelism, and owns the
// temporary artifacts of each request.
package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// stderrTailLines bounds how much process output is kept for error reports
const stderrTailLines = 30

// Engine executes compiled pipelines
type Engine struct {
	parser      *ProgressParser
	maxParallel int
}

// EngineOption is a functional option for Engine
type EngineOption func(*Engine)

// WithMaxParallel bounds how many invocations may run at once
func WithMaxParallel(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxParallel = n
		}
	}
}

// NewEngine creates an engine. Parallelism defaults to the CPU count.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		parser:      NewProgressParser(),
		maxParallel: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RunOptions contains per-run callbacks
type RunOptions struct {
	// OnProgress is called with encoding progress per invocation
	OnProgress func(invocation int, p *Progress)

	// OnLog is called with raw process output lines
	OnLog func(invocation int, line string)
}

// Run executes every invocation of the pipeline. Invocations whose
// dependencies are all satisfied may run concurrently, bounded by the
// engine's parallelism limit. The first failure cancels everything still
// running and is returned; each invocation runs at most once either way.
func (e *Engine) Run(ctx context.Context, pipeline *schemas.Pipeline, opts *RunOptions) error {
	if opts == nil {
		opts = &RunOptions{}
	}

	stages, err := computeStages(pipeline.Invocations)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, stage := range stages {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.maxParallel)
		errCh := make(chan error, len(stage))

		for _, idx := range stage {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
				case <-runCtx.Done():
					return
				}
				defer func() { <-sem }()

				if err := e.runInvocation(runCtx, idx, pipeline.Invocations[idx], opts); err != nil {
					errCh <- err
					cancel()
				}
			}(idx)
		}

		wg.Wait()
		close(errCh)

		if err := <-errCh; err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

// runInvocation starts one external process, streams its stderr for
// progress, and verifies it produced output
func (e *Engine) runInvocation(ctx context.Context, idx int, inv *schemas.Invocation, opts *RunOptions) error {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return e.fail(idx, inv, 0, "", fmt.Errorf("failed to create stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return e.fail(idx, inv, 0, "", fmt.Errorf("failed to start %s: %w", inv.Program, err))
	}

	tail := e.streamStderr(stderr, idx, opts)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return e.fail(idx, inv, exitCode, tail, err)
	}

	info, err := os.Stat(inv.Output.Path)
	if err != nil {
		return e.fail(idx, inv, 0, tail, fmt.Errorf("no output produced: %w", err))
	}
	if info.Size() == 0 {
		return e.fail(idx, inv, 0, tail, fmt.Errorf("output file is empty"))
	}

	return nil
}

// streamStderr parses progress from process output and keeps a bounded
// tail for error reporting
func (e *Engine) streamStderr(reader io.Reader, idx int, opts *RunOptions) string {
	scanner := bufio.NewScanner(reader)
	tail := make([]string, 0, stderrTailLines)

	for scanner.Scan() {
		line := scanner.Text()

		if progress := e.parser.ParseLine(line); progress != nil && opts.OnProgress != nil {
			opts.OnProgress(idx, progress)
		}
		if opts.OnLog != nil {
			opts.OnLog(idx, line)
		}

		if len(tail) == stderrTailLines {
			tail = tail[1:]
		}
		tail = append(tail, line)
	}

	return strings.Join(tail, "\n")
}

func (e *Engine) fail(idx int, inv *schemas.Invocation, exitCode int, stderr string, err error) error {
	return &ExecutionError{
		InvocationIndex: idx,
		NodePath:        inv.NodePath,
		Action:          inv.Action,
		ExitCode:        exitCode,
		Stderr:          stderr,
		Err:             err,
	}
}

// computeStages groups invocation indexes into waves where every
// invocation's dependencies sit in an earlier wave. Kahn's algorithm over
// the DependsOn edges.
func computeStages(invocations []*schemas.Invocation) ([][]int, error) {
	n := len(invocations)

	inDegree := make([]int, n)
	dependents := make([][]int, n)

	for i, inv := range invocations {
		for _, dep := range inv.DependsOn {
			if dep < 0 || dep >= n {
				return nil, fmt.Errorf("invocation %d depends on out-of-range invocation %d", i, dep)
			}
			inDegree[i]++
			dependents[dep] = append(dependents[dep], i)
		}
	}

	ready := []int{}
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	stages := [][]int{}
	processed := 0

	for len(ready) > 0 {
		stage := ready
		ready = nil
		stages = append(stages, stage)
		processed += len(stage)

		for _, idx := range stage {
			for _, succ := range dependents[idx] {
				inDegree[succ]--
				if inDegree[succ] == 0 {
					ready = append(ready, succ)
				}
			}
		}
	}

	if processed != n {
		return nil, fmt.Errorf("dependency graph contains cycle (processed %d/%d invocations)", processed, n)
	}

	return stages, nil
}
