package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// CutOperator crops a rectangular region from video frames
type CutOperator struct{}

func init() {
	operators.Register(&CutOperator{})
}

func (o *CutOperator) Name() string {
	return "cut"
}

func (o *CutOperator) Category() operators.Category {
	return operators.CategoryTimeline
}

func (o *CutOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "cut",
		Category:    operators.CategoryTimeline,
		Description: "Crop a rectangular region from the video frames",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "width",
				Type:        operators.TypeInt,
				Required:    true,
				Description: "Width of the crop area in pixels",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(7680)},
			},
			{
				Name:        "height",
				Type:        operators.TypeInt,
				Required:    true,
				Description: "Height of the crop area in pixels",
				Validation:  &operators.ValidationRules{Min: floatPtr(1), Max: floatPtr(4320)},
			},
			{
				Name:        "x",
				Type:        operators.TypeInt,
				Required:    false,
				Default:     0,
				Description: "Horizontal offset from the left edge",
				Validation:  &operators.ValidationRules{Min: floatPtr(0)},
			},
			{
				Name:        "y",
				Type:        operators.TypeInt,
				Required:    false,
				Default:     0,
				Description: "Vertical offset from the top edge",
				Validation:  &operators.ValidationRules{Min: floatPtr(0)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *CutOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *CutOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("cut takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%scrop=%d:%d:%d:%d[vout]",
		in.VideoLabel, p.Int("width"), p.Int("height"), p.Int("x"), p.Int("y"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(in.AudioStream)},
	}, nil
}
