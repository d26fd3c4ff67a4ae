package builtin

import (
	"fmt"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// TrimOperator cuts a portion from the timeline of a stream
type TrimOperator struct{}

func init() {
	operators.Register(&TrimOperator{})
}

func (o *TrimOperator) Name() string {
	return "trim"
}

func (o *TrimOperator) Category() operators.Category {
	return operators.CategoryTimeline
}

func (o *TrimOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "trim",
		Category:    operators.CategoryTimeline,
		Description: "Keep a time range of the input, re-anchoring timestamps at zero",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "start",
				Type:        operators.TypeDuration,
				Required:    true,
				Description: "Start offset into the input",
				Validation: &operators.ValidationRules{
					Min: floatPtr(0),
				},
			},
			{
				Name:        "duration",
				Type:        operators.TypeDuration,
				Required:    true,
				Description: "Length of the range to keep",
				Validation: &operators.ValidationRules{
					CustomValidator: func(v interface{}) error {
						if d, ok := v.(time.Duration); ok && d <= 0 {
							return fmt.Errorf("duration must be greater than 0")
						}
						return nil
					},
				},
			},
		},
		InputArity: operators.AritySingle,
		MinInputs:  1,
		MaxInputs:  1,
	}
}

func (o *TrimOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *TrimOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("trim takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	start := p.Seconds("start")
	duration := p.Seconds("duration")
	in := ctx.Inputs[0]

	filter := fmt.Sprintf(
		"%strim=start=%.3f:duration=%.3f,setpts=PTS-STARTPTS[vout];%satrim=start=%.3f:duration=%.3f,asetpts=PTS-STARTPTS[aout]",
		in.VideoLabel, start, duration,
		in.AudioLabel, start, duration,
	)

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", "[aout]"},
	}, nil
}
