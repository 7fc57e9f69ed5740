package pipeline

import (
	"sort"
	"strings"

	apperrors "docpipe/pkg/errors"
)

// Configuration readers shared by all factories. Each reader extracts and
// removes its key so a factory validates one property at a time and leftover
// keys stay visible to whoever cares.

// ReadString reads a required string property.
func ReadString(config map[string]interface{}, key string) (string, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return "", missingProperty(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.ErrInvalidConfigType.WithMessagef(
			"property [%s] isn't a string, but of type [%T]", key, v)
	}
	return s, nil
}

// ReadOptionalString reads an optional string property, falling back to def.
func ReadOptionalString(config map[string]interface{}, key, def string) (string, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.ErrInvalidConfigType.WithMessagef(
			"property [%s] isn't a string, but of type [%T]", key, v)
	}
	return s, nil
}

// ReadOptionalBool reads an optional boolean property.
func ReadOptionalBool(config map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, apperrors.ErrInvalidConfigType.WithMessagef(
			"property [%s] isn't a boolean, but of type [%T]", key, v)
	}
	return b, nil
}

// ReadOptionalInt reads an optional integer property. YAML and JSON decoders
// disagree on number types, so the common ones are accepted.
func ReadOptionalInt(config map[string]interface{}, key string, def int) (int, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, apperrors.ErrInvalidConfigType.WithMessagef(
		"property [%s] isn't an integer, but of type [%T]", key, v)
}

// ReadOptionalStringList reads an optional list-of-strings property. Present
// but not a list fails; present with a non-string element fails.
func ReadOptionalStringList(config map[string]interface{}, key string) ([]string, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return nil, nil
	}
	list, ok := toList(v)
	if !ok {
		return nil, apperrors.ErrInvalidConfigType.WithMessagef(
			"property [%s] isn't a list, but of type [%T]", key, v)
	}
	out := make([]string, len(list))
	for i, element := range list {
		s, ok := element.(string)
		if !ok {
			return nil, apperrors.ErrInvalidConfigType.WithMessagef(
				"property [%s] isn't a list of strings, element [%d] is of type [%T]", key, i, element)
		}
		out[i] = s
	}
	return out, nil
}

// ReadValue reads a required property of any shape.
func ReadValue(config map[string]interface{}, key string) (interface{}, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return nil, missingProperty(key)
	}
	return v, nil
}

// ReadOptionalMap reads an optional nested map property.
func ReadOptionalMap(config map[string]interface{}, key string) (map[string]interface{}, error) {
	v, ok := takeKey(config, key)
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, apperrors.ErrInvalidConfigType.WithMessagef(
			"property [%s] isn't a map, but of type [%T]", key, v)
	}
	return m, nil
}

// ValidateEnum checks a value against a closed set of choices.
func ValidateEnum(key, value string, valid []string) error {
	for _, choice := range valid {
		if value == choice {
			return nil
		}
	}
	choices := append([]string(nil), valid...)
	sort.Strings(choices)
	return apperrors.ErrInvalidConfigValue.WithMessagef(
		"illegal %s option [%s]. valid values are [%s]", key, value, strings.Join(choices, ", "))
}

func missingProperty(key string) error {
	return apperrors.ErrMissingConfig.WithMessagef("required property [%s] is missing", key)
}

func takeKey(config map[string]interface{}, key string) (interface{}, bool) {
	v, ok := config[key]
	if ok {
		delete(config, key)
	}
	return v, ok
}

func toList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
