package operators

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// TypeConverter converts untyped parameter values to their declared types
type TypeConverter struct{}

// NewTypeConverter creates a new type converter
func NewTypeConverter() *TypeConverter {
	return &TypeConverter{}
}

// Convert converts a value to the target type
func (tc *TypeConverter) Convert(value interface{}, targetType ParameterType) (interface{}, error) {
	switch targetType {
	case TypeDuration:
		return tc.toDuration(value)
	case TypeInt:
		return tc.toInt(value)
	case TypeFloat:
		return tc.toFloat(value)
	case TypeBool:
		return tc.toBool(value)
	case TypeString, TypeEnum:
		return tc.toString(value)
	default:
		return value, nil
	}
}

// toDuration converts to time.Duration
func (tc *TypeConverter) toDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		return schemas.ParseDuration(v)
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case int:
		return time.Duration(v) * time.Second, nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to duration", value)
	}
}

// toInt converts to int. JSON numbers arrive as float64; only whole values
// are accepted for int parameters.
func (tc *TypeConverter) toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// toFloat converts to float64
func (tc *TypeConverter) toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// toBool converts to bool
func (tc *TypeConverter) toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// toString converts to string. Only genuine strings are accepted for enum
// parameters, so a number never silently satisfies an enum.
func (tc *TypeConverter) toString(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("cannot convert %T to string", value)
}
