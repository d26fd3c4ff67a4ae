package operators

// ParameterDescriptor describes one operation parameter
type ParameterDescriptor struct {
	Name        string
	Type        ParameterType
	Required    bool
	Default     interface{}
	Description string

	// Validation rules
	Validation *ValidationRules
}

// ParameterType represents a parameter's value type
type ParameterType string

const (
	TypeString   ParameterType = "string"
	TypeInt      ParameterType = "int"
	TypeFloat    ParameterType = "float"
	TypeBool     ParameterType = "bool"
	TypeDuration ParameterType = "duration" // "30s", "00:05:30", bare seconds
	TypeEnum     ParameterType = "enum"     // one of predefined values
)

// ValidationRules defines parameter validation constraints
type ValidationRules struct {
	// Numeric constraints
	Min *float64
	Max *float64

	// Enum values
	Enum []interface{}

	// Custom validator, applied after type conversion
	CustomValidator func(interface{}) error
}
