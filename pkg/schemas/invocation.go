package schemas

// ResolvedArtifact is a concrete local file produced by resolving a node's
// input. Temporary artifacts are owned by the executor's artifact session
// and deleted when the request finishes; caller-supplied sources are never
// deleted by the system.
type ResolvedArtifact struct {
	Path      string `json:"path"`
	Temporary bool   `json:"temporary"`
}

// Invocation is a fully specified external-process call compiled from one
// OperationNode. Produced once per node during resolution; consumed exactly
// once by the execution engine.
type Invocation struct {
	Program string   `json:"program"`
	Args    []string `json:"args"`

	// Declared files. Every input either is a resolved source or the
	// output of an earlier invocation in the pipeline.
	Inputs []*ResolvedArtifact `json:"inputs"`
	Output *ResolvedArtifact   `json:"output"`

	// Position of the originating node in the request tree, e.g.
	// "root.input[1].input". Used for failure reporting.
	NodePath string `json:"node_path"`
	Action   string `json:"action"`

	// Indexes of earlier invocations whose outputs this one consumes.
	DependsOn []int `json:"depends_on,omitempty"`
}

// Pipeline is the compiled form of one request: invocations in dependency
// order plus the final output artifact.
type Pipeline struct {
	Invocations []*Invocation     `json:"invocations"`
	Output      *ResolvedArtifact `json:"output"`
}
