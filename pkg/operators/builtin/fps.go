package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// FPSOperator sets the video frame rate
type FPSOperator struct{}

func init() {
	operators.Register(&FPSOperator{})
}

func (o *FPSOperator) Name() string {
	return "set_fps"
}

func (o *FPSOperator) Category() operators.Category {
	return operators.CategoryVideo
}

func (o *FPSOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "set_fps",
		Category:    operators.CategoryVideo,
		Description: "Convert video to a fixed frame rate",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "fps",
				Type:        operators.TypeFloat,
				Required:    false,
				Default:     30,
				Description: "Target frames per second",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(240)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *FPSOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *FPSOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("set_fps takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%sfps=fps=%g[vout]", in.VideoLabel, p.Float("fps"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(in.AudioStream)},
	}, nil
}
