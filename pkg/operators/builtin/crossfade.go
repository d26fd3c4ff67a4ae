package builtin

import (
	"fmt"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// CrossfadeOperator blends two clips with a timed transition
type CrossfadeOperator struct{}

func init() {
	operators.Register(&CrossfadeOperator{})
}

func (o *CrossfadeOperator) Name() string {
	return "crossfade"
}

func (o *CrossfadeOperator) Category() operators.Category {
	return operators.CategoryTransitions
}

func positiveDuration(name string) func(interface{}) error {
	return func(v interface{}) error {
		if d, ok := v.(time.Duration); ok && d <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
		return nil
	}
}

func (o *CrossfadeOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "crossfade",
		Category:    operators.CategoryTransitions,
		Description: "Blend the first input into the second, starting the transition before the first ends",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "duration",
				Type:        operators.TypeDuration,
				Required:    true,
				Description: "Length of the transition",
				Validation: &operators.ValidationRules{
					CustomValidator: positiveDuration("duration"),
				},
			},
			{
				Name:        "stream1_duration",
				Type:        operators.TypeDuration,
				Required:    true,
				Description: "Total duration of the first input; the transition starts at stream1_duration - duration",
				Validation: &operators.ValidationRules{
					CustomValidator: positiveDuration("stream1_duration"),
				},
			},
			{
				Name:        "transition",
				Type:        operators.TypeString,
				Required:    false,
				Default:     "fade",
				Description: "xfade transition name (fade, wipeleft, dissolve, ...)",
			},
		},
		InputArity: operators.ArityList,
		MinInputs:  2,
		MaxInputs:  2,
	}
}

func (o *CrossfadeOperator) ValidateParams(params map[string]interface{}) error {
	if err := operators.StandardValidation(o, params); err != nil {
		return err
	}

	p := operators.NewParams(o.Describe(), params)
	if _, ok := params["duration"]; ok {
		if _, ok := params["stream1_duration"]; ok {
			if p.Duration("duration") > p.Duration("stream1_duration") {
				return &operators.ValidationError{
					Parameter: "duration",
					Message:   "cannot exceed stream1_duration",
				}
			}
		}
	}

	return nil
}

func (o *CrossfadeOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	if len(ctx.Inputs) != 2 {
		return nil, fmt.Errorf("crossfade takes exactly two inputs, got %d", len(ctx.Inputs))
	}

	p := operators.NewParams(o.Describe(), ctx.Params)
	duration := p.Seconds("duration")
	offset := p.Seconds("stream1_duration") - duration
	transition := p.String("transition")
	first, second := ctx.Inputs[0], ctx.Inputs[1]

	// xfade requires matching frame rates, so normalize both sides first.
	filter := fmt.Sprintf(
		"%sfps=30[xf0];%sfps=30[xf1];[xf0][xf1]xfade=transition=%s:offset=%.3f:duration=%.3f[vout];%s%sacrossfade=d=%.3f[aout]",
		first.VideoLabel, second.VideoLabel,
		transition, offset, duration,
		first.AudioLabel, second.AudioLabel, duration,
	)

	return &operators.CompileResult{
		FilterExpression: filter,
		MapStreams:       []string{"[vout]", "[aout]"},
	}, nil
}
