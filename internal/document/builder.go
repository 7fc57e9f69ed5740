package document

import (
	apperrors "docpipe/pkg/errors"
)

// Builder assembles a Document from the system fields of an inbound record.
// Index, type and id are required; the remaining system fields are merged
// into the source map only when set.
type Builder struct {
	index   string
	docType string
	id      string
	source  map[string]interface{}

	routing   *string
	parent    *string
	timestamp *string
	ttl       *string
}

func NewBuilder() *Builder {
	return &Builder{
		source: make(map[string]interface{}),
	}
}

func (b *Builder) WithIndex(index string) *Builder {
	b.index = index
	return b
}

func (b *Builder) WithType(docType string) *Builder {
	b.docType = docType
	return b
}

func (b *Builder) WithID(id string) *Builder {
	b.id = id
	return b
}

func (b *Builder) WithSource(source map[string]interface{}) *Builder {
	b.source = source
	return b
}

func (b *Builder) WithRouting(routing string) *Builder {
	b.routing = &routing
	return b
}

func (b *Builder) WithParent(parent string) *Builder {
	b.parent = &parent
	return b
}

func (b *Builder) WithTimestamp(timestamp string) *Builder {
	b.timestamp = &timestamp
	return b
}

func (b *Builder) WithTTL(ttl string) *Builder {
	b.ttl = &ttl
	return b
}

func (b *Builder) Build() (*Document, error) {
	for _, required := range []struct {
		name  Metadata
		value string
	}{
		{MetadataIndex, b.index},
		{MetadataType, b.docType},
		{MetadataID, b.id},
	} {
		if required.value == "" {
			return nil, apperrors.ErrMissingConfig.WithMessagef(
				"required system field [%s] is missing", required.name.FieldName())
		}
	}

	doc := New(b.index, b.docType, b.id, b.source)
	optional := map[Metadata]*string{
		MetadataRouting:   b.routing,
		MetadataParent:    b.parent,
		MetadataTimestamp: b.timestamp,
		MetadataTTL:       b.ttl,
	}
	for m, v := range optional {
		if v != nil {
			doc.sourceAndMetadata[m.FieldName()] = *v
		}
	}
	return doc, nil
}
