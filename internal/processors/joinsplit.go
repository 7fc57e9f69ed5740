package processors

import (
	"context"
	"fmt"
	"strings"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
)

type splitProcessor struct {
	tag       string
	field     string
	separator string
}

func (p *splitProcessor) Type() string { return "split" }
func (p *splitProcessor) Tag() string  { return p.tag }

func (p *splitProcessor) Apply(_ context.Context, doc *document.Document) error {
	v, err := doc.GetFieldValue(p.field)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("field [%s] is null, cannot be split", p.field)
	}
	s, err := document.Cast[string](p.field, v)
	if err != nil {
		return err
	}
	parts := strings.Split(s, p.separator)
	list := make([]interface{}, len(parts))
	for i, part := range parts {
		list[i] = part
	}
	return doc.SetFieldValue(p.field, list)
}

type joinProcessor struct {
	tag       string
	field     string
	separator string
}

func (p *joinProcessor) Type() string { return "join" }
func (p *joinProcessor) Tag() string  { return p.tag }

func (p *joinProcessor) Apply(_ context.Context, doc *document.Document) error {
	list, err := document.Get[[]interface{}](doc, p.field)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("field [%s] is null, cannot be joined", p.field)
	}
	parts := make([]string, len(list))
	for i, element := range list {
		parts[i] = fmt.Sprintf("%v", element)
	}
	return doc.SetFieldValue(p.field, strings.Join(parts, p.separator))
}

// NewSplitFactory builds the "split" processor: {field, separator, tag?}.
func NewSplitFactory() pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		separator, err := pipeline.ReadString(config, "separator")
		if err != nil {
			return nil, err
		}
		return &splitProcessor{
			tag:       pipeline.ReadTag(config),
			field:     field,
			separator: separator,
		}, nil
	})
}

// NewJoinFactory builds the "join" processor: {field, separator, tag?}.
func NewJoinFactory() pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		separator, err := pipeline.ReadString(config, "separator")
		if err != nil {
			return nil, err
		}
		return &joinProcessor{
			tag:       pipeline.ReadTag(config),
			field:     field,
			separator: separator,
		}, nil
	})
}
