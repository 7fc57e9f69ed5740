package processors

import (
	"context"
	"fmt"
	"strings"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
)

// caseProcessor rewrites one string field through a case conversion.
type caseProcessor struct {
	typ     string
	tag     string
	field   string
	convert func(string) string
}

func (p *caseProcessor) Type() string { return p.typ }
func (p *caseProcessor) Tag() string  { return p.tag }

func (p *caseProcessor) Apply(_ context.Context, doc *document.Document) error {
	v, err := doc.GetFieldValue(p.field)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("field [%s] is null, cannot be processed", p.field)
	}
	s, err := document.Cast[string](p.field, v)
	if err != nil {
		return err
	}
	return doc.SetFieldValue(p.field, p.convert(s))
}

// NewUppercaseFactory builds the "uppercase" processor: {field, tag?}.
func NewUppercaseFactory() pipeline.Factory {
	return caseFactory("uppercase", strings.ToUpper)
}

// NewLowercaseFactory builds the "lowercase" processor: {field, tag?}.
func NewLowercaseFactory() pipeline.Factory {
	return caseFactory("lowercase", strings.ToLower)
}

func caseFactory(typ string, convert func(string) string) pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		field, err := pipeline.ReadString(config, "field")
		if err != nil {
			return nil, err
		}
		return &caseProcessor{
			typ:     typ,
			tag:     pipeline.ReadTag(config),
			field:   field,
			convert: convert,
		}, nil
	})
}
