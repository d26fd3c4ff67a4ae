package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// OverlayOperator composites the second input onto the first at a pixel
// offset. The first input is the base layer and supplies the audio.
type OverlayOperator struct{}

func init() {
	operators.Register(&OverlayOperator{})
}

func (o *OverlayOperator) Name() string {
	return "overlay"
}

func (o *OverlayOperator) Category() operators.Category {
	return operators.CategoryGraphics
}

func (o *OverlayOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "overlay",
		Category:    operators.CategoryGraphics,
		Description: "Composite the second input onto the first at offset (x, y)",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "x",
				Type:        operators.TypeInt,
				Required:    false,
				Default:     0,
				Description: "Horizontal offset of the overlay, in pixels",
			},
			{
				Name:        "y",
				Type:        operators.TypeInt,
				Required:    false,
				Default:     0,
				Description: "Vertical offset of the overlay, in pixels",
			},
		},
		InputArity: operators.ArityList,
		MinInputs:  2,
		MaxInputs:  2,
	}
}

func (o *OverlayOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *OverlayOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 2 {
		return nil, fmt.Errorf("overlay takes exactly two inputs, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	base, layer := ctx.Inputs[0], ctx.Inputs[1]

	filter := fmt.Sprintf("%s%soverlay=%d:%d[vout]",
		base.VideoLabel, layer.VideoLabel, p.Int("x"), p.Int("y"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", optional(base.AudioStream)},
	}, nil
}
