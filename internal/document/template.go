package document

import (
	"fmt"
	"strings"

	apperrors "docpipe/pkg/errors"
)

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

type templateChunk struct {
	text  string
	field string
}

// Template is a string with {{field}} placeholders. Placeholders address the
// template model with the same dot-notation semantics as document reads, so
// {{_ingest.timestamp}} and {{_source.user.name}} both work.
type Template struct {
	raw    string
	chunks []templateChunk
}

// ContainsPlaceholders reports whether the string needs template rendering.
func ContainsPlaceholders(s string) bool {
	return strings.Contains(s, placeholderOpen)
}

func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s}
	rest := s
	for {
		open := strings.Index(rest, placeholderOpen)
		if open < 0 {
			if rest != "" {
				t.chunks = append(t.chunks, templateChunk{text: rest})
			}
			return t, nil
		}
		if open > 0 {
			t.chunks = append(t.chunks, templateChunk{text: rest[:open]})
		}
		rest = rest[open+len(placeholderOpen):]
		closing := strings.Index(rest, placeholderClose)
		if closing < 0 {
			return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
				"template [%s] has an unterminated placeholder", s)
		}
		field := strings.TrimSpace(rest[:closing])
		if field == "" {
			return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
				"template [%s] has an empty placeholder", s)
		}
		t.chunks = append(t.chunks, templateChunk{field: field})
		rest = rest[closing+len(placeholderClose):]
	}
}

// Raw returns the unparsed template string.
func (t *Template) Raw() string {
	return t.raw
}

func (t *Template) String() string {
	return t.raw
}

// isSingleField reports whether the template is exactly one placeholder with
// no surrounding text, in which case it can resolve to a structured value.
func (t *Template) isSingleField() bool {
	return len(t.chunks) == 1 && t.chunks[0].field != ""
}

// Execute renders the template to a string. A placeholder referencing an
// unknown field fails with the same error kinds as a document read.
func (t *Template) Execute(model map[string]interface{}) (string, error) {
	var sb strings.Builder
	for _, chunk := range t.chunks {
		if chunk.field == "" {
			sb.WriteString(chunk.text)
			continue
		}
		v, err := resolveModelPath(chunk.field, model)
		if err != nil {
			return "", err
		}
		if v != nil {
			fmt.Fprintf(&sb, "%v", v)
		}
	}
	return sb.String(), nil
}

// ResolveValue renders the template, preserving structure when the whole
// template is a single placeholder: {{user}} yields the user map itself
// (deep-copied), while "name: {{user}}" yields interpolated text.
func (t *Template) ResolveValue(model map[string]interface{}) (interface{}, error) {
	if t.isSingleField() {
		v, err := resolveModelPath(t.chunks[0].field, model)
		if err != nil {
			return nil, err
		}
		return DeepCopy(v), nil
	}
	return t.Execute(model)
}

func resolveModelPath(field string, model map[string]interface{}) (interface{}, error) {
	elements := splitPath(field)
	if len(elements) == 0 {
		return nil, apperrors.ErrInvalidPath.WithMessagef("path [%s] is not valid", field)
	}
	var context interface{} = model
	for _, element := range elements {
		var err error
		context, err = resolve(element, field, context)
		if err != nil {
			return nil, err
		}
	}
	return context, nil
}
