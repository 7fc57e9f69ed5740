package document

// Metadata identifies one of the closed set of system fields that are merged
// into the source map at construction time.
type Metadata int

const (
	MetadataIndex Metadata = iota
	MetadataType
	MetadataID
	MetadataRouting
	MetadataParent
	MetadataTimestamp
	MetadataTTL
)

var metadataFieldNames = [...]string{
	MetadataIndex:     "_index",
	MetadataType:      "_type",
	MetadataID:        "_id",
	MetadataRouting:   "_routing",
	MetadataParent:    "_parent",
	MetadataTimestamp: "_timestamp",
	MetadataTTL:       "_ttl",
}

// FieldName returns the externally visible field name for the system field.
func (m Metadata) FieldName() string {
	if m < 0 || int(m) >= len(metadataFieldNames) {
		return ""
	}
	return metadataFieldNames[m]
}

func (m Metadata) String() string {
	return m.FieldName()
}

// AllMetadata returns every system field identifier, in declaration order.
func AllMetadata() []Metadata {
	return []Metadata{
		MetadataIndex,
		MetadataType,
		MetadataID,
		MetadataRouting,
		MetadataParent,
		MetadataTimestamp,
		MetadataTTL,
	}
}
