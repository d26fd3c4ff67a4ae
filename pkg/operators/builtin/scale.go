package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// ScaleOperator resizes video to a target resolution
type ScaleOperator struct{}

func init() {
	operators.Register(&ScaleOperator{})
}

func (o *ScaleOperator) Name() string {
	return "scale"
}

func (o *ScaleOperator) Category() operators.Category {
	return operators.CategoryVideo
}

func (o *ScaleOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "scale",
		Category:    operators.CategoryVideo,
		Description: "Resize video to the given dimensions",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "width",
				Type:        operators.TypeInt,
				Required:    true,
				Description: "Target width in pixels",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(7680)},
			},
			{
				Name:        "height",
				Type:        operators.TypeInt,
				Required:    true,
				Description: "Target height in pixels",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(4320)},
			},
			{
				Name:        "algorithm",
				Type:        operators.TypeEnum,
				Required:    false,
				Default:     "bicubic",
				Description: "Scaling algorithm",
				Validation: &operators.ValidationRules{
					Enum: []interface{}{"bilinear", "bicubic", "lanczos", "neighbor"},
				},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *ScaleOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *ScaleOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("scale takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%sscale=%d:%d:flags=%s[vout]",
		in.VideoLabel, p.Int("width"), p.Int("height"), p.String("algorithm"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(in.AudioStream)},
	}, nil
}
