package processors

import (
	"context"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
)

// setProcessor writes a resolved value at a templated path, either replacing
// the existing value or appending to it.
type setProcessor struct {
	typ    string
	tag    string
	field  *document.Template
	value  document.ValueSource
	append bool
}

func (p *setProcessor) Type() string { return p.typ }
func (p *setProcessor) Tag() string  { return p.tag }

func (p *setProcessor) Apply(_ context.Context, doc *document.Document) error {
	model := doc.TemplateModel()
	path, err := p.field.Execute(model)
	if err != nil {
		return err
	}
	value, err := p.value.Resolve(model)
	if err != nil {
		return err
	}
	if p.append {
		return doc.AppendFieldValue(path, value)
	}
	return doc.SetFieldValue(path, value)
}

// NewSetFactory builds the "set" processor: {field, value, tag?}.
func NewSetFactory() pipeline.Factory {
	return setFactory("set", false)
}

// NewAppendFactory builds the "append" processor: {field, value, tag?}.
func NewAppendFactory() pipeline.Factory {
	return setFactory("append", true)
}

func setFactory(typ string, append bool) pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		fieldTemplate, err := document.ParseTemplate(field)
		if err != nil {
			return nil, err
		}
		rawValue, err := pipeline.ReadValue(config, "value")
		if err != nil {
			return nil, err
		}
		value, err := document.FromConfig(rawValue)
		if err != nil {
			return nil, err
		}
		return &setProcessor{
			typ:    typ,
			tag:    pipeline.ReadTag(config),
			field:  fieldTemplate,
			value:  value,
			append: append,
		}, nil
	})
}
