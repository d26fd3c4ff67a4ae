// Package operators defines the operation registry: the catalog of
// operation contracts (arity, parameter schema) and their compile rules.
// Adding an operation means adding one registry entry with its compile
// rule; the resolver itself never changes.
package operators

import "fmt"

// Operator is the contract every operation in the catalog implements
type Operator interface {
	// Name returns the unique operation identifier
	Name() string

	// Category returns the operation category
	Category() Category

	// Describe returns the operation's arity and parameter schema
	Describe() *OperatorDescriptor

	// ValidateParams validates operation parameters. Pure: never touches
	// the filesystem.
	ValidateParams(params map[string]interface{}) error

	// Compile generates the ffmpeg filtergraph fragment for one
	// invocation of this operation
	Compile(ctx *CompileContext) (*CompileResult, error)
}

// InputCountValidator is implemented by operations whose parameter
// validity depends on the number of inputs (audio_mix weights must match
// the input count). The resolver calls it after the arity check, still
// before any source is touched.
type InputCountValidator interface {
	ValidateParamsForInputs(params map[string]interface{}, inputCount int) error
}

// Category represents an operation category
type Category string

const (
	CategoryTimeline    Category = "timeline"    // trim, cut, speed, concat
	CategoryVideo       Category = "video"       // scale, rotate, blur, set_fps
	CategoryAudio       Category = "audio"       // change_volume, audio_mix, audio_resample
	CategoryTransitions Category = "transitions" // fade, crossfade
	CategoryGraphics    Category = "graphics"    // overlay
)

// Arity declares the input shape an operation accepts
type Arity string

const (
	// AritySingle operations take exactly one input
	AritySingle Arity = "single"

	// ArityList operations take an ordered list of inputs; order is
	// semantically significant
	ArityList Arity = "list"
)

// OperatorDescriptor describes an operation contract
type OperatorDescriptor struct {
	Name        string
	Category    Category
	Description string

	// Parameter schema
	Parameters []ParameterDescriptor

	// Input requirements. MinInputs/MaxInputs bound the list length for
	// ArityList operations; both are 1 for AritySingle.
	InputArity Arity
	MinInputs  int
	MaxInputs  int
}

// CompileContext carries the resolved inputs of one node into Compile
type CompileContext struct {
	// One entry per declared input file, in order. The labels address the
	// file's streams inside a -filter_complex expression.
	Inputs []InputStream

	Params map[string]interface{}
}

// InputStream references the streams of one input file
type InputStream struct {
	Index       int
	VideoLabel  string // e.g. "[0:v]"
	AudioLabel  string // e.g. "[0:a]"
	VideoStream string // e.g. "0:v", for direct -map use
	AudioStream string // e.g. "0:a"
}

// CompileResult is the compiled fragment for one invocation
type CompileResult struct {
	// Filtergraph passed to -filter_complex. May be empty for pure
	// stream-copy operations.
	FilterExpression string

	// Stream selectors passed to -map, in output order. Entries are
	// either filtergraph output labels ("[vout]") or direct input
	// specifiers ("0:a").
	MapStreams []string
}

// InputStreamsFor builds the conventional ffmpeg stream references for n
// declared input files.
func InputStreamsFor(n int) []InputStream {
	streams := make([]InputStream, n)
	for i := range streams {
		streams[i] = InputStream{
			Index:       i,
			VideoLabel:  fmt.Sprintf("[%d:v]", i),
			AudioLabel:  fmt.Sprintf("[%d:a]", i),
			VideoStream: fmt.Sprintf("%d:v", i),
			AudioStream: fmt.Sprintf("%d:a", i),
		}
	}
	return streams
}
