package processors

import (
	"context"
	"fmt"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
)

type renameProcessor struct {
	tag   string
	field string
	to    string
}

func (p *renameProcessor) Type() string { return "rename" }
func (p *renameProcessor) Tag() string  { return p.tag }

func (p *renameProcessor) Apply(_ context.Context, doc *document.Document) error {
	if doc.HasField(p.to) {
		return fmt.Errorf("field [%s] already exists, cannot rename [%s] onto it", p.to, p.field)
	}
	value, err := doc.GetFieldValue(p.field)
	if err != nil {
		return err
	}
	if err := doc.RemoveField(p.field); err != nil {
		return err
	}
	return doc.SetFieldValue(p.to, value)
}

// NewRenameFactory builds the "rename" processor: {field, to, tag?}.
func NewRenameFactory() pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		to, err := pipeline.ReadString(config, "to")
		if err != nil {
			return nil, err
		}
		return &renameProcessor{
			tag:   pipeline.ReadTag(config),
			field: field,
			to:    to,
		}, nil
	})
}
