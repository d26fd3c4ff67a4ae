package builtin

import (
	"fmt"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// FadeOperator fades video and audio in or out
type FadeOperator struct{}

func init() {
	operators.Register(&FadeOperator{})
}

func (o *FadeOperator) Name() string {
	return "fade"
}

func (o *FadeOperator) Category() operators.Category {
	return operators.CategoryTransitions
}

func (o *FadeOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "fade",
		Category:    operators.CategoryTransitions,
		Description: "Fade video and audio in or out over a time range",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "type",
				Type:        operators.TypeEnum,
				Required:    true,
				Description: "Fade direction",
				Validation: &operators.ValidationRules{
					Enum: []interface{}{"in", "out"},
				},
			},
			{
				Name:        "start_time",
				Type:        operators.TypeDuration,
				Required:    false,
				Default:     0,
				Description: "When the fade begins",
				Validation:  &operators.ValidationRules{Min: floatPtr(0)},
			},
			{
				Name:        "duration",
				Type:        operators.TypeDuration,
				Required:    true,
				Description: "Length of the fade",
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

func (o *FadeOperator) ValidateParams(params map[string]interface{}) error {
	return operators.StandardValidation(o, params)
}

func (o *FadeOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 1 {
		return nil, fmt.Errorf("fade takes exactly one input, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	fadeType := p.String("type")
	start := p.Seconds("start_time")
	duration := p.Seconds("duration")
	in := ctx.Inputs[0]

	filter := fmt.Sprintf(
		"%sfade=type=%s:start_time=%.3f:duration=%.3f[vout];%safade=type=%s:start_time=%.3f:duration=%.3f[aout]",
		in.VideoLabel, fadeType, start, duration,
		in.AudioLabel, fadeType, start, duration,
	)

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", "[aout]"},
	}, nil
}
