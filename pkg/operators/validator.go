package operators

import (
	"fmt"
	"reflect"
	"time"
)

// ParameterValidator validates operation parameters against their schema
type ParameterValidator struct {
	converter *TypeConverter
}

// NewParameterValidator creates a new parameter validator
func NewParameterValidator() *ParameterValidator {
	return &ParameterValidator{
		converter: NewTypeConverter(),
	}
}

// ValidateParameter validates a single parameter
func (pv *ParameterValidator) ValidateParameter(
	name string,
	value interface{},
	descriptor *ParameterDescriptor,
) error {
	converted, err := pv.converter.Convert(value, descriptor.Type)
	if err != nil {
		return &ValidationError{
			Parameter: name,
			Message:   fmt.Sprintf("type conversion failed: %v", err),
		}
	}

	if descriptor.Validation != nil {
		if err := pv.applyRules(converted, descriptor.Validation); err != nil {
			return &ValidationError{
				Parameter: name,
				Message:   err.Error(),
			}
		}
	}

	return nil
}

// applyRules applies validation rules to a converted value
func (pv *ParameterValidator) applyRules(value interface{}, rules *ValidationRules) error {
	if rules.Min != nil || rules.Max != nil {
		numValue, err := toFloat64(value)
		if err != nil {
			return err
		}

		if rules.Min != nil && numValue < *rules.Min {
			return fmt.Errorf("value %v is less than minimum %v", numValue, *rules.Min)
		}

		if rules.Max != nil && numValue > *rules.Max {
			return fmt.Errorf("value %v is greater than maximum %v", numValue, *rules.Max)
		}
	}

	if rules.Enum != nil {
		found := false
		for _, enumValue := range rules.Enum {
			if reflect.DeepEqual(value, enumValue) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("value %v is not in allowed values %v", value, rules.Enum)
		}
	}

	if rules.CustomValidator != nil {
		if err := rules.CustomValidator(value); err != nil {
			return err
		}
	}

	return nil
}

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string
	Message   string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter '%s': %s", e.Parameter, e.Message)
}

// toFloat64 widens any converted numeric value for range checks.
// Durations are compared in seconds.
func toFloat64(value interface{}) (float64, error) {
	if d, ok := value.(time.Duration); ok {
		return d.Seconds(), nil
	}
	return NewTypeConverter().toFloat(value)
}

// StandardValidation checks every declared parameter of an operation:
// required presence, type conversion, and validation rules
func StandardValidation(op Operator, params map[string]interface{}) error {
	validator := NewParameterValidator()
	descriptor := op.Describe()

	for _, paramDesc := range descriptor.Parameters {
		if value, ok := params[paramDesc.Name]; ok {
			if err := validator.ValidateParameter(paramDesc.Name, value, &paramDesc); err != nil {
				return err
			}
		} else if paramDesc.Required && paramDesc.Default == nil {
			return &ValidationError{
				Parameter: paramDesc.Name,
				Message:   "required parameter is missing",
			}
		}
	}

	return nil
}
