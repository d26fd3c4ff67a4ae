package builtin

import (
	"fmt"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// ResampleOperator resamples audio to a target sample rate
type ResampleOperator struct{}

func init() {
	operators.Register(&ResampleOperator{})
}

func (o *ResampleOperator) Name() string {
	return "audio_resample"
}

func (o *ResampleOperator) Category() operators.Category {
	return operators.CategoryAudio
}

func (o *ResampleOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "audio_resample",
		Category:    operators.CategoryAudio,
		Description: "Resample audio to the given sample rate",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "sample_rate",
				Type:        operators.TypeInt,
				Required:    false,
				Default:     44100,
				Description: "Target sample rate in Hz",
				Validation:  &operators.ValidationRules{Min: floatPtr(8000), Max: floatPtr(192000)},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *ResampleOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *ResampleOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("audio_resample takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	in := ctx.Inputs[0]

	filter := fmt.Sprintf("%saresample=%d[aout]", in.AudioLabel, p.Int("sample_rate"))

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{optional(in.VideoStream), "[aout]"},
	}, nil
}
