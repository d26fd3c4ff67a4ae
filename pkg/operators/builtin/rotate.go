package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// RotateOperator rotates video by an arbitrary angle
type RotateOperator struct{}

func init() {
	operators.Register(&RotateOperator{})
}

func (o *RotateOperator) Name() string {
	return "rotate"
}

func (o *RotateOperator) Category() operators.Category {
	return operators.CategoryVideo
}

func (o *RotateOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "rotate",
		Category:    operators.CategoryVideo,
		Description: "Rotate video by an angle in degrees (clockwise)",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "angle",
				Type:        operators.TypeFloat,
				Required:    true,
				Description: "Rotation angle in degrees",
				Validation:  &operators.ValidationRules{Min: floatPtr(-360), Max: floatPtr(360)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *RotateOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *RotateOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("rotate takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	// The rotate filter takes radians; express the conversion inline so
	// the angle stays readable in the generated command.
	filter := fmt.Sprintf("%srotate=%g*PI/180[vout]", in.VideoLabel, p.Float("angle"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(in.AudioStream)},
	}, nil
}
