package operators

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameter_MinMax(t *testing.T) {
	pv := NewParameterValidator()
	desc := &ParameterDescriptor{
		Name:       "width",
		Type:       TypeInt,
		Validation: &ValidationRules{Min: floatPtr(1), Max: floatPtr(7680)},
	}

	assert.NoError(t, pv.ValidateParameter("width", float64(1920), desc))
	assert.Error(t, pv.ValidateParameter("width", float64(0), desc))
	assert.Error(t, pv.ValidateParameter("width", float64(8000), desc))
}

func TestValidateParameter_DurationRangeInSeconds(t *testing.T) {
	pv := NewParameterValidator()
	desc := &ParameterDescriptor{
		Name:       "start",
		Type:       TypeDuration,
		Validation: &ValidationRules{Min: floatPtr(0), Max: floatPtr(3600)},
	}

	assert.NoError(t, pv.ValidateParameter("start", "00:30:00", desc))
	assert.Error(t, pv.ValidateParameter("start", "02:00:00", desc),
		"two hours exceeds the 3600 second ceiling")
}

func TestValidateParameter_Enum(t *testing.T) {
	pv := NewParameterValidator()
	desc := &ParameterDescriptor{
		Name: "algorithm",
		Type: TypeEnum,
		Validation: &ValidationRules{
			Enum: []interface{}{"bilinear", "bicubic"},
		},
	}

	assert.NoError(t, pv.ValidateParameter("algorithm", "bicubic", desc))
	assert.Error(t, pv.ValidateParameter("algorithm", "nearest", desc))
}

func TestValidateParameter_CustomValidator(t *testing.T) {
	pv := NewParameterValidator()
	desc := &ParameterDescriptor{
		Name: "duration",
		Type: TypeDuration,
		Validation: &ValidationRules{
			CustomValidator: func(v interface{}) error {
				if d, ok := v.(time.Duration); ok && d <= 0 {
					return fmt.Errorf("duration must be greater than 0")
				}
				return nil
			},
		},
	}

	assert.NoError(t, pv.ValidateParameter("duration", "5s", desc))

	err := pv.ValidateParameter("duration", float64(0), desc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than 0")
}

func TestValidateParameter_ConversionFailure(t *testing.T) {
	pv := NewParameterValidator()
	desc := &ParameterDescriptor{Name: "radius", Type: TypeInt}

	err := pv.ValidateParameter("radius", "fuzzy", desc)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "radius", verr.Parameter)
}

func TestStandardValidation(t *testing.T) {
	op := &stubSchemaOperator{desc: &OperatorDescriptor{
		Name: "vignette",
		Parameters: []ParameterDescriptor{
			{Name: "strength", Type: TypeFloat, Required: true},
			{Name: "shape", Type: TypeEnum, Required: true, Default: "circle",
				Validation: &ValidationRules{Enum: []interface{}{"circle", "square"}}},
		},
	}}

	// Required with a schema default may be omitted
	assert.NoError(t, StandardValidation(op, map[string]interface{}{
		"strength": 0.5,
	}))

	err := StandardValidation(op, map[string]interface{}{})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "strength", verr.Parameter)

	assert.Error(t, StandardValidation(op, map[string]interface{}{
		"strength": 0.5,
		"shape":    "triangle",
	}))
}

// stubSchemaOperator carries an arbitrary descriptor into
// StandardValidation
type stubSchemaOperator struct {
	desc *OperatorDescriptor
}

func (o *stubSchemaOperator) Name() string                  { return o.desc.Name }
func (o *stubSchemaOperator) Category() Category            { return CategoryVideo }
func (o *stubSchemaOperator) Describe() *OperatorDescriptor { return o.desc }

func (o *stubSchemaOperator) ValidateParams(params map[string]interface{}) error {
	return StandardValidation(o, params)
}

func (o *stubSchemaOperator) Compile(ctx *CompileContext) (*CompileResult, error) {
	return &CompileResult{}, nil
}

func floatPtr(f float64) *float64 {
	return &f
}
