package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// VolumeOperator adjusts audio volume by a multiplier
type VolumeOperator struct{}

func init() {
	operators.Register(&VolumeOperator{})
}

func (o *VolumeOperator) Name() string {
	return "change_volume"
}

func (o *VolumeOperator) Category() operators.Category {
	return operators.CategoryAudio
}

func (o *VolumeOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "change_volume",
		Category:    operators.CategoryAudio,
		Description: "Multiply audio volume (0.0 mutes, 1.0 keeps, 2.0 doubles)",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "volume",
				Type:        operators.TypeFloat,
				Required:    true,
				Description: "Volume multiplier",
				Validation:  &operators.ValidationRules{Min: floatPtr(0), Max: floatPtr(10)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *VolumeOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *VolumeOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("change_volume takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%svolume=%g[aout]", in.AudioLabel, p.Float("volume"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{optional(in.VideoStream), "[aout]"},
	}, nil
}
