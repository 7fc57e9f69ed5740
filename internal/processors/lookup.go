package processors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"docpipe/internal/document"
	"docpipe/internal/pipeline"
	"docpipe/internal/processors/provider"
	apperrors "docpipe/pkg/errors"
	"docpipe/pkg/metrics"
)

const defaultLookupTarget = "geoip"

// lookupFieldOptions is the closed set of record fields a lookup result can
// expose on the document.
var lookupFieldOptions = []string{
	"ip",
	"country_iso_code",
	"country_name",
	"continent_name",
	"region_name",
	"city_name",
	"timezone",
	"latitude",
	"longitude",
	"location",
}

var defaultLookupFields = []string{
	"country_iso_code",
	"country_name",
	"continent_name",
	"region_name",
	"city_name",
	"location",
}

// lookupProcessor enriches a document with the record a provider holds for
// the value of the source field. Only the selected subset of the record is
// written to the target field.
type lookupProcessor struct {
	tag          string
	sourceField  string
	targetField  string
	fields       []string
	providerName string
	provider     provider.Provider
}

func (p *lookupProcessor) Type() string { return "lookup" }
func (p *lookupProcessor) Tag() string  { return p.tag }

func (p *lookupProcessor) SourceField() string { return p.sourceField }
func (p *lookupProcessor) TargetField() string { return p.targetField }
func (p *lookupProcessor) Fields() []string    { return p.fields }

func (p *lookupProcessor) Apply(ctx context.Context, doc *document.Document) error {
	v, err := doc.GetFieldValue(p.sourceField)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("field [%s] is null, cannot be used as lookup key", p.sourceField)
	}
	key := fmt.Sprintf("%v", v)

	data, err := p.provider.Fetch(ctx, key)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(p.providerName, "error").Inc()
		return fmt.Errorf("lookup of [%s] via provider [%s] failed: %w", key, p.providerName, err)
	}
	metrics.LookupsTotal.WithLabelValues(p.providerName, "success").Inc()

	selected := make(map[string]interface{}, len(p.fields))
	for _, field := range p.fields {
		if value, ok := data[field]; ok {
			selected[field] = value
		}
	}
	return doc.SetFieldValue(p.targetField, selected)
}

// LookupFactory builds "lookup" processors against a fixed set of named
// providers wired in at startup.
type LookupFactory struct {
	providers map[string]provider.Provider
}

func NewLookupFactory(providers map[string]provider.Provider) *LookupFactory {
	return &LookupFactory{providers: providers}
}

// Create validates {source_field, target_field?, fields?, provider?, tag?}.
// target_field defaults to "geoip" and fields to the default subset.
func (f *LookupFactory) Create(config map[string]interface{}) (pipeline.Processor, error) {
	sourceField, err := pipeline.ReadString(config, "source_field")
	if err != nil {
		return nil, err
	}
	targetField, err := pipeline.ReadOptionalString(config, "target_field", defaultLookupTarget)
	if err != nil {
		return nil, err
	}
	fields, err := pipeline.ReadOptionalStringList(config, "fields")
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = append([]string(nil), defaultLookupFields...)
	} else {
		for _, field := range fields {
			if err := pipeline.ValidateEnum("field", field, lookupFieldOptions); err != nil {
				return nil, err
			}
		}
	}

	providerName, err := pipeline.ReadOptionalString(config, "provider", "static")
	if err != nil {
		return nil, err
	}
	prov, ok := f.providers[providerName]
	if !ok {
		return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
			"provider [%s] is not configured. valid values are [%s]",
			providerName, strings.Join(f.providerNames(), ", "))
	}

	return &lookupProcessor{
		tag:          pipeline.ReadTag(config),
		sourceField:  sourceField,
		targetField:  targetField,
		fields:       fields,
		providerName: providerName,
		provider:     prov,
	}, nil
}

func (f *LookupFactory) providerNames() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
