package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ofekfell/media-mcp-editor/pkg/operators"
)

// AudioMixOperator mixes the audio of N input streams into one, keeping
// the first input's video
type AudioMixOperator struct{}

func init() {
	operators.Register(&AudioMixOperator{})
}

func (o *AudioMixOperator) Name() string {
	return "audio_mix"
}

func (o *AudioMixOperator) Category() operators.Category {
	return operators.CategoryAudio
}

func (o *AudioMixOperator) Describe() *operators.OperatorDescriptor {
	return &operators.OperatorDescriptor{
		Name:        "audio_mix",
		Category:    operators.CategoryAudio,
		Description: "Weighted mix of the inputs' audio streams; video is taken from the first input",
		Parameters: []operators.ParameterDescriptor{
			{
				Name:        "weights",
				Type:        operators.TypeString,
				Required:    false,
				Description: "Per-input mix weights, comma or space separated (e.g. \"0.7,0.3\"); equal weights when omitted",
			},
		},
		InputArity: operators.ArityList,
		MinInputs:  2,
		MaxInputs:  16,
	}
}

func (o *AudioMixOperator) ValidateParams(params map[string]interface{}) error {
	if err := operators.StandardValidation(o, params); err != nil {
		return err
	}

	if raw, ok := params["weights"]; ok {
		s, isString := raw.(string)
		if !isString {
			return &operators.ValidationError{Parameter: "weights", Message: "must be a string"}
		}
		if _, err := parseWeights(s); err != nil {
			return &operators.ValidationError{Parameter: "weights", Message: err.Error()}
		}
	}

	return nil
}

// ValidateParamsForInputs cross-checks the weights count against the
// actual number of inputs, which is only known at resolve time
func (o *AudioMixOperator) ValidateParamsForInputs(params map[string]interface{}, inputCount int) error {
	raw, ok := params["weights"]
	if !ok {
		return nil
	}

	s, isString := raw.(string)
	if !isString {
		return &operators.ValidationError{Parameter: "weights", Message: "must be a string"}
	}

	weights, err := parseWeights(s)
	if err != nil {
		return &operators.ValidationError{Parameter: "weights", Message: err.Error()}
	}
	if len(weights) != inputCount {
		return &operators.ValidationError{
			Parameter: "weights",
			Message:   fmt.Sprintf("%d weights given for %d inputs", len(weights), inputCount),
		}
	}

	return nil
}

func (o *AudioMixOperator) Compile(ctx *operators.CompileContext) (*operators.CompileResult, error) {
	n := len(ctx.Inputs)
	if n < 2 {
		return nil, fmt.Errorf("audio_mix takes at least two inputs, got %d", n)
	}

	var sb strings.Builder
	for _, in := range ctx.Inputs {
		sb.WriteString(in.AudioLabel)
	}
	fmt.Fprintf(&sb, "amix=inputs=%d", n)

	if raw, ok := ctx.Params["weights"]; ok {
		weights, err := parseWeights(raw.(string))
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(weights))
		for i, w := range weights {
			parts[i] = strconv.FormatFloat(w, 'g', -1, 64)
		}
		// Space-separated list, quoted for the filtergraph parser
		fmt.Fprintf(&sb, ":weights='%s'", strings.Join(parts, " "))
	}
	sb.WriteString("[aout]")

	return &operators.CompileResult{
		FilterExpression: sb.String(),
		MapStreams:       []string{optional(ctx.Inputs[0].VideoStream), "[aout]"},
	}, nil
}

// parseWeights parses an ordered weight list, accepting comma or
// whitespace separators
func parseWeights(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("weights string is empty")
	}

	weights := make([]float64, 0, len(fields))
	for _, f := range fields {
		w, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q", f)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight %q is negative", f)
		}
		weights = append(weights, w)
	}

	return weights, nil
}
