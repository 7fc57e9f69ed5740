package processors

import (
	"context"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
)

type removeProcessor struct {
	tag   string
	field *document.Template
}

func (p *removeProcessor) Type() string { return "remove" }
func (p *removeProcessor) Tag() string  { return p.tag }

func (p *removeProcessor) Apply(_ context.Context, doc *document.Document) error {
	path, err := doc.RenderTemplate(p.field)
	if err != nil {
		return err
	}
	return doc.RemoveField(path)
}

// NewRemoveFactory builds the "remove" processor: {field, tag?}.
func NewRemoveFactory() pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		fieldTemplate, err := document.ParseTemplate(field)
		if err != nil {
			return nil, err
		}
		return &removeProcessor{
			tag:   pipeline.ReadTag(config),
			field: fieldTemplate,
		}, nil
	})
}
