package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// SpeedOperator changes playback speed of video and audio together
type SpeedOperator struct{}

func init() {
	operators.Register(&SpeedOperator{})
}

func (o *SpeedOperator) Name() string {
	return "speed"
}

func (o *SpeedOperator) Category() operators.Category {
	return operators.CategoryTimeline
}

func (o *SpeedOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "speed",
		Category:    operators.CategoryTimeline,
		Description: "Change playback speed by a factor (2.0 = twice as fast)",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "factor",
				Type:        operators.TypeFloat,
				Required:    true,
				Description: "Speed multiplier",
				// atempo accepts 0.5..100 in a single pass
				Validation: &operators.ValidationRules{Min: floatPtr(0.5), Max: floatPtr(100)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *SpeedOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *SpeedOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("speed takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	factor := p.Float("factor")
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%ssetpts=PTS/%g[vout];%satempo=%g[aout]",
		in.VideoLabel, factor, in.AudioLabel, factor)

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", "[aout]"},
	}, nil
}
