package document

// ValueSource produces the concrete value a processor writes into a
// document, resolved against a template model snapshot. Literals ignore the
// model; templated sources substitute live document values.
type ValueSource interface {
	Resolve(model map[string]interface{}) (interface{}, error)
}

type literalSource struct {
	value interface{}
}

// Literal wraps a static value. Resolving returns a deep copy, so mutating
// the document through a previously resolved value is impossible.
func Literal(value interface{}) ValueSource {
	return literalSource{value: value}
}

func (s literalSource) Resolve(map[string]interface{}) (interface{}, error) {
	return DeepCopy(s.value), nil
}

type templateValueSource struct {
	template *Template
}

// Templated wraps a template whose rendering produces the value.
func Templated(t *Template) ValueSource {
	return templateValueSource{template: t}
}

func (s templateValueSource) Resolve(model map[string]interface{}) (interface{}, error) {
	return s.template.ResolveValue(model)
}

type mapSource struct {
	entries map[string]ValueSource
}

func (s mapSource) Resolve(model map[string]interface{}) (interface{}, error) {
	out := make(map[string]interface{}, len(s.entries))
	for k, entry := range s.entries {
		v, err := entry.Resolve(model)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

type listSource struct {
	elements []ValueSource
}

func (s listSource) Resolve(model map[string]interface{}) (interface{}, error) {
	out := make([]interface{}, len(s.elements))
	for i, element := range s.elements {
		v, err := element.Resolve(model)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// FromConfig builds a ValueSource tree from a configuration value: maps and
// lists recurse, strings containing placeholders become templates, and
// everything else is a literal.
func FromConfig(v interface{}) (ValueSource, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		entries := make(map[string]ValueSource, len(t))
		for k, val := range t {
			source, err := FromConfig(val)
			if err != nil {
				return nil, err
			}
			entries[k] = source
		}
		return mapSource{entries: entries}, nil
	case []interface{}:
		elements := make([]ValueSource, len(t))
		for i, val := range t {
			source, err := FromConfig(val)
			if err != nil {
				return nil, err
			}
			elements[i] = source
		}
		return listSource{elements: elements}, nil
	case string:
		if ContainsPlaceholders(t) {
			tmpl, err := ParseTemplate(t)
			if err != nil {
				return nil, err
			}
			return Templated(tmpl), nil
		}
		return Literal(t), nil
	default:
		return Literal(v), nil
	}
}
