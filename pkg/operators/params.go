package operators

import "time"

// Params provides typed access to an operation's parameters during
// compilation. Values are converted per the descriptor's schema with
// schema defaults applied; lookups assume validation already passed.
type Params struct {
	desc      *OperatorDescriptor
	values    map[string]interface{}
	converter *TypeConverter
}

// NewParams wraps a validated parameter map for typed access
func NewParams(desc *OperatorDescriptor, values map[string]interface{}) *Params {
	return &Params{
		desc:      desc,
		values:    values,
		converter: NewTypeConverter(),
	}
}

// raw returns the caller-supplied value or the schema default
func (p *Params) raw(name string) (interface{}, bool) {
	if v, ok := p.values[name]; ok {
		return v, true
	}
	for _, desc := range p.desc.Parameters {
		if desc.Name == name && desc.Default != nil {
			return desc.Default, true
		}
	}
	return nil, false
}

// Has reports whether the parameter was supplied or has a default
func (p *Params) Has(name string) bool {
	_, ok := p.raw(name)
	return ok
}

// Int returns an int parameter
func (p *Params) Int(name string) int {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	n, _ := p.converter.toInt(v)
	return n
}

// Float returns a float parameter
func (p *Params) Float(name string) float64 {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	f, _ := p.converter.toFloat(v)
	return f
}

// String returns a string or enum parameter
func (p *Params) String(name string) string {
	v, ok := p.raw(name)
	if !ok {
		return ""
	}
	s, _ := p.converter.toString(v)
	return s
}

// Duration returns a duration parameter
func (p *Params) Duration(name string) time.Duration {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	d, _ := p.converter.toDuration(v)
	return d
}

// Seconds returns a duration parameter as fractional seconds
func (p *Params) Seconds(name string) float64 {
	return p.Duration(name).Seconds()
}
