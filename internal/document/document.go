package document

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// ingestTimestampKey holds the processing timestamp inside the ingest
	// metadata map.
	ingestTimestampKey = "timestamp"

	// timestampFormat renders UTC instants with an explicit numeric offset,
	// e.g. 2026-08-29T10:15:30.123+00:00.
	timestampFormat = "2006-01-02T15:04:05.000-07:00"
)

// Document is one record flowing through the pipeline. It owns two disjoint
// maps: the source fields merged with the system metadata fields, and the
// pipeline-internal ingest metadata. A Document is owned by exactly one
// pipeline run and is mutated in place; it requires no synchronization.
type Document struct {
	sourceAndMetadata map[string]interface{}
	ingestMetadata    map[string]string
}

// New builds a Document from the required system fields and the raw source
// fields. Optional system fields are set through the Builder. The ingest
// metadata is seeded with the construction timestamp.
func New(index, docType, id string, source map[string]interface{}) *Document {
	sourceAndMetadata := make(map[string]interface{}, len(source)+3)
	for k, v := range source {
		sourceAndMetadata[k] = v
	}
	sourceAndMetadata[MetadataIndex.FieldName()] = index
	sourceAndMetadata[MetadataType.FieldName()] = docType
	sourceAndMetadata[MetadataID.FieldName()] = id

	return &Document{
		sourceAndMetadata: sourceAndMetadata,
		ingestMetadata: map[string]string{
			ingestTimestampKey: time.Now().UTC().Format(timestampFormat),
		},
	}
}

// FromDocument is the copy constructor: both maps are deep-copied so the two
// documents never observe each other's mutations.
func FromDocument(other *Document) *Document {
	return &Document{
		sourceAndMetadata: DeepCopy(other.sourceAndMetadata).(map[string]interface{}),
		ingestMetadata:    copyStringMap(other.ingestMetadata),
	}
}

// NewWithMetadata builds a Document from pre-assembled maps. The ingest
// metadata is taken as given rather than seeded with the current instant,
// which keeps documents comparable in tests.
func NewWithMetadata(sourceAndMetadata map[string]interface{}, ingestMetadata map[string]string) *Document {
	if sourceAndMetadata == nil {
		sourceAndMetadata = make(map[string]interface{})
	}
	if ingestMetadata == nil {
		ingestMetadata = make(map[string]string)
	}
	return &Document{
		sourceAndMetadata: sourceAndMetadata,
		ingestMetadata:    ingestMetadata,
	}
}

// GetFieldValue resolves the path against the document and returns the value
// found there, nil included. Use Get for a type-checked read.
func (d *Document) GetFieldValue(path string) (interface{}, error) {
	fp, err := parseFieldPath(path)
	if err != nil {
		return nil, err
	}

	var context interface{}
	elements := fp.elements
	if fp.ingest {
		context, err = d.resolveIngestRoot(elements[0], path)
		if err != nil {
			return nil, err
		}
		elements = elements[1:]
	} else {
		context = d.sourceAndMetadata
	}

	for _, element := range elements {
		context, err = resolve(element, path, context)
		if err != nil {
			return nil, err
		}
	}
	return context, nil
}

// Get resolves the path and casts the result to T.
func Get[T any](d *Document, path string) (T, error) {
	v, err := d.GetFieldValue(path)
	if err != nil {
		var zero T
		return zero, err
	}
	return Cast[T](path, v)
}

// HasField reports whether the path resolves to an existing field. It never
// fails: a malformed path or any wrong-shaped intermediate yields false.
func (d *Document) HasField(path string) bool {
	fp, err := parseFieldPath(path)
	if err != nil {
		return false
	}

	if fp.ingest {
		// Ingest metadata is a flat string map; nothing below one level.
		if len(fp.elements) != 1 {
			return false
		}
		_, ok := d.ingestMetadata[fp.elements[0]]
		return ok
	}

	var context interface{} = d.sourceAndMetadata
	for i := 0; i < len(fp.elements)-1; i++ {
		switch t := context.(type) {
		case map[string]interface{}:
			context = t[fp.elements[i]]
		case []interface{}:
			index, err := strconv.Atoi(fp.elements[i])
			if err != nil || index < 0 || index >= len(t) {
				return false
			}
			context = t[index]
		default:
			return false
		}
	}

	leafKey := fp.elements[len(fp.elements)-1]
	switch t := context.(type) {
	case map[string]interface{}:
		_, ok := t[leafKey]
		return ok
	case []interface{}:
		index, err := strconv.Atoi(leafKey)
		return err == nil && index >= 0 && index < len(t)
	default:
		return false
	}
}

// SetFieldValue writes the value at the path. Missing intermediate map keys
// are created as empty maps; list indices are never extended. If the terminal
// container is a list, the index must exist and the element is replaced.
func (d *Document) SetFieldValue(path string, value interface{}) error {
	return d.setFieldValue(path, value, false)
}

// AppendFieldValue appends the value at the path, sharing the set traversal.
// A scalar at the terminal position is coerced into a single-element list
// first; a list value is appended element by element.
func (d *Document) AppendFieldValue(path string, value interface{}) error {
	return d.setFieldValue(path, value, true)
}

func (d *Document) setFieldValue(path string, value interface{}, append bool) error {
	fp, err := parseFieldPath(path)
	if err != nil {
		return err
	}

	if fp.ingest {
		return d.setIngestValue(fp, path, value, append)
	}

	var context interface{} = d.sourceAndMetadata
	for i := 0; i < len(fp.elements)-1; i++ {
		element := fp.elements[i]
		switch t := context.(type) {
		case map[string]interface{}:
			if next, ok := t[element]; ok {
				context = next
			} else {
				newMap := make(map[string]interface{})
				t[element] = newMap
				context = newMap
			}
		case []interface{}:
			index, err := parseIndex(element, path, len(t))
			if err != nil {
				return err
			}
			context = t[index]
		case nil:
			return errResolveFromNull(element, path)
		default:
			return errResolveFromScalar(element, path, context)
		}
	}

	leafKey := fp.elements[len(fp.elements)-1]
	switch t := context.(type) {
	case map[string]interface{}:
		if append {
			if existing, ok := t[leafKey]; ok {
				t[leafKey] = appendValues(coerceToList(existing), value)
			} else {
				t[leafKey] = appendValues(make([]interface{}, 0, 1), value)
			}
			return nil
		}
		t[leafKey] = value
		return nil
	case []interface{}:
		index, err := parseIndex(leafKey, path, len(t))
		if err != nil {
			return err
		}
		if append {
			t[index] = appendValues(coerceToList(t[index]), value)
			return nil
		}
		t[index] = value
		return nil
	case nil:
		return errNotTraversablef("cannot set [%s] with null parent as part of path [%s]", leafKey, path)
	default:
		return errNotTraversablef("cannot set [%s] with parent object of type [%T] as part of path [%s]", leafKey, context, path)
	}
}

// setIngestValue writes into the flat string-valued ingest metadata map.
func (d *Document) setIngestValue(fp fieldPath, path string, value interface{}, append bool) error {
	if len(fp.elements) > 1 {
		if existing, ok := d.ingestMetadata[fp.elements[0]]; ok {
			return errResolveFromScalar(fp.elements[1], path, existing)
		}
		return errResolveFromNull(fp.elements[1], path)
	}
	if append {
		return errNotTraversablef("cannot append to ingest metadata as part of path [%s]", path)
	}
	s, err := Cast[string](path, value)
	if err != nil {
		return err
	}
	d.ingestMetadata[fp.elements[0]] = s
	return nil
}

// RemoveField erases the field at the path. Intermediates are resolved like a
// read; the terminal map key must exist and a terminal list index must be in
// range. Removing a list element shifts later indices down by one.
func (d *Document) RemoveField(path string) error {
	fp, err := parseFieldPath(path)
	if err != nil {
		return err
	}

	if fp.ingest {
		if len(fp.elements) == 1 {
			if _, ok := d.ingestMetadata[fp.elements[0]]; ok {
				delete(d.ingestMetadata, fp.elements[0])
				return nil
			}
			return errFieldNotFound(fp.elements[0], path)
		}
		if existing, ok := d.ingestMetadata[fp.elements[0]]; ok {
			return errResolveFromScalar(fp.elements[1], path, existing)
		}
		return errFieldNotFound(fp.elements[0], path)
	}

	// Track the container holding the terminal context so a shortened list
	// can be written back in place.
	var parent interface{}
	var parentKey string
	var context interface{} = d.sourceAndMetadata
	for i := 0; i < len(fp.elements)-1; i++ {
		parent = context
		parentKey = fp.elements[i]
		context, err = resolve(fp.elements[i], path, context)
		if err != nil {
			return err
		}
	}

	leafKey := fp.elements[len(fp.elements)-1]
	switch t := context.(type) {
	case map[string]interface{}:
		if _, ok := t[leafKey]; ok {
			delete(t, leafKey)
			return nil
		}
		return errFieldNotFound(leafKey, path)
	case []interface{}:
		index, err := parseIndex(leafKey, path, len(t))
		if err != nil {
			return err
		}
		shortened := make([]interface{}, 0, len(t)-1)
		shortened = append(shortened, t[:index]...)
		shortened = append(shortened, t[index+1:]...)
		return storeInContainer(parent, parentKey, path, shortened)
	case nil:
		return errNotTraversablef("cannot remove [%s] from null as part of path [%s]", leafKey, path)
	default:
		return errNotTraversablef("cannot remove [%s] from object of type [%T] as part of path [%s]", leafKey, context, path)
	}
}

// ExtractMetadata removes the system fields from the source map and returns
// them. This is a one-time operation: afterwards path lookups for those
// fields fail with a not-present error, and a second extraction yields only
// empty values.
func (d *Document) ExtractMetadata() (map[Metadata]string, error) {
	metadata := make(map[Metadata]string, len(metadataFieldNames))
	for _, m := range AllMetadata() {
		v, ok := d.sourceAndMetadata[m.FieldName()]
		if ok {
			delete(d.sourceAndMetadata, m.FieldName())
		}
		s, err := Cast[string](m.FieldName(), v)
		if err != nil {
			return nil, err
		}
		metadata[m] = s
	}
	return metadata, nil
}

// IngestMetadata exposes the ingest metadata map for reading. Mutate it
// through SetFieldValue and RemoveField with the _ingest prefix instead.
func (d *Document) IngestMetadata() map[string]string {
	return d.ingestMetadata
}

// SourceAndMetadata exposes the source map, system fields included unless
// ExtractMetadata has been called.
func (d *Document) SourceAndMetadata() map[string]interface{} {
	return d.sourceAndMetadata
}

// TemplateModel builds the flattened model templates resolve against: all
// top-level source entries, plus _source exposing the source map and _ingest
// exposing the ingest metadata. The model is a deep-copied snapshot of the
// document at the moment of the call, so resolving a template can never
// observe or cause a concurrent mutation of the document tree.
func (d *Document) TemplateModel() map[string]interface{} {
	snapshot := DeepCopy(d.sourceAndMetadata).(map[string]interface{})
	model := make(map[string]interface{}, len(snapshot)+2)
	for k, v := range snapshot {
		model[k] = v
	}
	model[SourceKey] = snapshot
	// A source field named _ingest is shadowed here; templates reach it
	// through the _source prefix.
	model[IngestKey] = stringMapAsAny(d.ingestMetadata)
	return model
}

// RenderTemplate executes the template against the current document state.
func (d *Document) RenderTemplate(t *Template) (string, error) {
	return t.Execute(d.TemplateModel())
}

func (d *Document) String() string {
	return fmt.Sprintf("Document{sourceAndMetadata=%v, ingestMetadata=%v}", d.sourceAndMetadata, d.ingestMetadata)
}

func (d *Document) resolveIngestRoot(element, path string) (interface{}, error) {
	if v, ok := d.ingestMetadata[element]; ok {
		return v, nil
	}
	return nil, errFieldNotFound(element, path)
}

func resolve(element, fullPath string, context interface{}) (interface{}, error) {
	switch t := context.(type) {
	case map[string]interface{}:
		if v, ok := t[element]; ok {
			return v, nil
		}
		return nil, errFieldNotFound(element, fullPath)
	case []interface{}:
		index, err := parseIndex(element, fullPath, len(t))
		if err != nil {
			return nil, err
		}
		return t[index], nil
	case nil:
		return nil, errResolveFromNull(element, fullPath)
	default:
		return nil, errResolveFromScalar(element, fullPath, context)
	}
}

func storeInContainer(container interface{}, key, path string, value interface{}) error {
	switch t := container.(type) {
	case map[string]interface{}:
		t[key] = value
		return nil
	case []interface{}:
		index, err := parseIndex(key, path, len(t))
		if err != nil {
			return err
		}
		t[index] = value
		return nil
	default:
		return errNotTraversablef("cannot store [%s] in object of type [%T] as part of path [%s]", key, container, path)
	}
}

func coerceToList(existing interface{}) []interface{} {
	if l, ok := existing.([]interface{}); ok {
		return l
	}
	return []interface{}{existing}
}

func appendValues(list []interface{}, value interface{}) []interface{} {
	if values, ok := value.([]interface{}); ok {
		return append(list, values...)
	}
	return append(list, value)
}

func stringMapAsAny(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
