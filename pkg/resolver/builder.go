package resolver

import (
	"fmt"
	"os/exec"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// CommandBuilder assembles the full ffmpeg argument list for one
// compiled invocation
type CommandBuilder struct {
	ffmpegPath string
}

// BuilderOption is a functional option for CommandBuilder
type BuilderOption func(*CommandBuilder)

// WithFFmpegPath sets a custom ffmpeg binary path
func WithFFmpegPath(path string) BuilderOption {
	return func(cb *CommandBuilder) {
		cb.ffmpegPath = path
	}
}

// NewCommandBuilder creates a command builder, locating ffmpeg in PATH
func NewCommandBuilder(opts ...BuilderOption) *CommandBuilder {
	cb := &CommandBuilder{
		ffmpegPath: findFFmpeg(),
	}

	for _, opt := range opts {
		opt(cb)
	}

	return cb
}

// Build produces the program and argument list for one invocation.
// Inputs are declared in order with -i, so the filtergraph's [N:v]/[N:a]
// references line up with the compile context's stream indexes.
func (cb *CommandBuilder) Build(result *operators.CompileResult, inputs []*schemas.ResolvedArtifact, output *schemas.ResolvedArtifact) (string, []string, error) {
	if cb.ffmpegPath == "" {
		return "", nil, fmt.Errorf("ffmpeg not found in PATH")
	}
	if len(inputs) == 0 {
		return "", nil, fmt.Errorf("invocation has no inputs")
	}
	if output == nil {
		return "", nil, fmt.Errorf("invocation has no output")
	}

	args := []string{"-hide_banner", "-y"}

	for _, input := range inputs {
		args = append(args, "-i", input.Path)
	}

	if result.FilterExpression != "" {
		args = append(args, "-filter_complex", result.FilterExpression)
	}

	for _, stream := range result.MapStreams {
		args = append(args, "-map", stream)
	}

	args = append(args, output.Path)

	return cb.ffmpegPath, args, nil
}

// findFFmpeg locates ffmpeg in PATH
func findFFmpeg() string {
	candidates := []string{
		"ffmpeg",                    // In PATH
		"/usr/local/bin/ffmpeg",     // Homebrew on macOS
		"/opt/homebrew/bin/ffmpeg",  // Apple Silicon Homebrew
		"/usr/bin/ffmpeg",           // Linux
	}

	for _, path := range candidates {
		if _, err := exec.LookPath(path); err == nil {
			return path
		}
	}

	return ""
}
