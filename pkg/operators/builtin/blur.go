package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// BlurOperator applies a gaussian blur to video
type BlurOperator struct{}

func init() {
	operators.Register(&BlurOperator{})
}

func (o *BlurOperator) Name() string {
	return "blur"
}

func (o *BlurOperator) Category() operators.Category {
	return operators.CategoryVideo
}

func (o *BlurOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "blur",
		Category:    operators.CategoryVideo,
		Description: "Apply a gaussian blur",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "radius",
				Type:        operators.TypeInt,
				Required:    true,
				Description: "Blur strength (gaussian sigma)",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(100)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *BlurOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *BlurOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("blur takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%sgblur=sigma=%d[vout]", in.VideoLabel, p.Int("radius"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(in.AudioStream)},
	}, nil
}
