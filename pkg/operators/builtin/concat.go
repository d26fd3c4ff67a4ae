package builtin

import (
	"fmt"
	"strings"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// ConcatOperator joins clips back to back in sequence order
type ConcatOperator struct{}

func init() {
	operators.Register(&ConcatOperator{})
}

func (o *ConcatOperator) Name() string {
	return "concat"
}

func (o *ConcatOperator) Category() operators.Category {
	return operators.CategoryTimeline
}

func (o *ConcatOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "concat",
		Category:    operators.CategoryTimeline,
		Description: "Join the inputs back to back, in list order",
		Parameters:  []operators.ParameterDescriptor{},
		InputArity:  operators.ArityList,
		MinInputs:   2,
		MaxInputs:   16,
	}
}

func (o *ConcatOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *ConcatOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	n := len(ctx.Inputs)
	if n < 2 {
		return nil, fmt.Errorf("concat takes at least two inputs, got %d", n)
	}

	// Inputs may come from arbitrary sources, so normalize frame rate,
	// pixel format, sample rate, and timestamps before concatenating.
	var sb strings.Builder
	for i, in := range ctx.Inputs {
		fmt.Fprintf(&sb, "%sfps=30,format=yuv420p,setpts=PTS-STARTPTS[cv%d];", in.VideoLabel, i)
		fmt.Fprintf(&sb, "%saresample=44100,asetpts=PTS-STARTPTS[ca%d];", in.AudioLabel, i)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "[cv%d][ca%d]", i, i)
	}
	fmt.Fprintf(&sb, "concat=n=%d:v=1:a=1[vout][aout]", n)

	return &operators.CompileResult{
		FilterExpression: sb.String(),
		MapStreams:       []string{"[vout]", "[aout]"},
	}, nil
}
