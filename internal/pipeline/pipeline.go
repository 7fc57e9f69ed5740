package pipeline

import (
	"context"
	"fmt"
	"time"

	"docpipe/internal/document"
	"docpipe/internal/logger"
	apperrors "docpipe/pkg/errors"
	"docpipe/pkg/metrics"
)

// Pipeline applies its processors strictly in order against one document per
// run. The pipeline itself is immutable after construction and safe to share
// across concurrent runs; each run owns its Document exclusively.
type Pipeline struct {
	id         string
	processors []Processor
	logger     logger.Logger
}

func New(id string, processors []Processor, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		id:         id,
		processors: processors,
		logger:     log,
	}
}

func (p *Pipeline) ID() string {
	return p.id
}

func (p *Pipeline) Processors() []Processor {
	return p.processors
}

// Run executes every processor against the document, stopping at the first
// failure. Mutations applied before the failing processor remain applied.
func (p *Pipeline) Run(ctx context.Context, doc *document.Document) error {
	start := time.Now()

	for i, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			metrics.ObservePipelineDuration(time.Since(start), "canceled")
			metrics.DocumentsTotal.WithLabelValues("canceled").Inc()
			return err
		}

		p.logger.Debugw("Applying processor",
			"pipeline_id", p.id,
			"processor_index", i+1,
			"total_processors", len(p.processors),
			"processor_type", processor.Type(),
			"processor_tag", processor.Tag(),
		)

		if err := p.apply(ctx, processor, doc); err != nil {
			metrics.ProcessorFailuresTotal.WithLabelValues(processor.Type()).Inc()
			metrics.ObservePipelineDuration(time.Since(start), "error")
			metrics.DocumentsTotal.WithLabelValues("error").Inc()
			p.logger.Warnw("Processor failed",
				"pipeline_id", p.id,
				"processor_type", processor.Type(),
				"processor_tag", processor.Tag(),
				"error", err,
			)
			return fmt.Errorf("processor [%s] failed: %w", processorName(processor), err)
		}
	}

	metrics.ObservePipelineDuration(time.Since(start), "success")
	metrics.DocumentsTotal.WithLabelValues("success").Inc()
	return nil
}

func (p *Pipeline) apply(ctx context.Context, processor Processor, doc *document.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.RecoverPanic(r)
		}
	}()
	return processor.Apply(ctx, doc)
}

// processorName prefers the diagnostic tag, falling back to the type.
func processorName(p Processor) string {
	if p.Tag() != "" {
		return p.Tag()
	}
	return p.Type()
}
