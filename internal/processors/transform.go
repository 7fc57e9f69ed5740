package processors

import (
	"context"

	"github.com/google/cel-go/cel"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
	apperrors "docpipe/pkg/errors"
)

// transformProcessor evaluates a CEL expression against a snapshot of the
// document and stores the result. The expression sees two variables:
// `source` (the source-and-metadata map) and `ingest` (the ingest metadata).
type transformProcessor struct {
	tag         string
	targetField string
	expression  string
	program     cel.Program
}

func (p *transformProcessor) Type() string { return "transform" }
func (p *transformProcessor) Tag() string  { return p.tag }

func (p *transformProcessor) Apply(ctx context.Context, doc *document.Document) error {
	model := doc.TemplateModel()
	vars := map[string]interface{}{
		"source": model[document.SourceKey],
		"ingest": model[document.IngestKey],
	}
	result, _, err := p.program.ContextEval(ctx, vars)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal.WithMessagef(
			"expression [%s] failed to evaluate", p.expression))
	}
	return doc.SetFieldValue(p.targetField, result.Value())
}

// NewTransformFactory builds the "transform" processor:
// {expression, target_field, tag?}. The expression is compiled once here and
// the program reused across documents.
func NewTransformFactory() pipeline.Factory {
	return pipeline.FactoryFunc(func(config map[string]interface{}) (pipeline.Processor, error) {
		expression, err := pipeline.ReadString(config, "expression")
		if err != nil {
			return nil, err
		}
		targetField, err := pipeline.ReadString(config, "target_field")
		if err != nil {
			return nil, err
		}

		env, err := cel.NewEnv(
			cel.Variable("source", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("ingest", cel.MapType(cel.StringType, cel.DynType)),
		)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.WithMessagef(
				"failed to create expression environment"))
		}
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
				"property [expression] failed to compile: %v", issues.Err())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
				"property [expression] failed to compile: %v", err)
		}

		return &transformProcessor{
			tag:         pipeline.ReadTag(config),
			targetField: targetField,
			expression:  expression,
			program:     program,
		}, nil
	})
}
