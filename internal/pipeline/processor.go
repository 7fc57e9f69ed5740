package pipeline

import (
	"context"

	"docpipe/internal/document"
)

// TagKey is the configuration key every factory recognizes: a free-form
// identifier used only for diagnostics.
const TagKey = "tag"

// Processor is one configured transformation step. Apply mutates the
// document in place and returns an error to fail the current record.
// Processors are built once at factory time and invoked concurrently for
// distinct documents, so they must not hold per-document state.
type Processor interface {
	Apply(ctx context.Context, doc *document.Document) error
	Type() string
	Tag() string
}

// Factory validates a configuration map and constructs one Processor.
// Factories read the keys they know with the Read* helpers; unknown keys are
// ignored.
type Factory interface {
	Create(config map[string]interface{}) (Processor, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(config map[string]interface{}) (Processor, error)

func (f FactoryFunc) Create(config map[string]interface{}) (Processor, error) {
	return f(config)
}

// ReadTag consumes the optional tag key.
func ReadTag(config map[string]interface{}) string {
	tag, _ := ReadOptionalString(config, TagKey, "")
	return tag
}
