package document

import (
	"strings"

	apperrors "docpipe/pkg/errors"
)

const (
	// IngestKey prefixes paths that address the ingest metadata map.
	IngestKey = "_ingest"
	// SourceKey is the explicit alias for the source map, so templates can
	// reach a top-level field even when its name collides with a reserved key.
	SourceKey = "_source"

	separator = "."
)

// fieldPath is a parsed dot-notation path: the ordered segments plus which
// root map traversal starts from. Whether a segment is a map key or a list
// index is only decided when it is resolved against a concrete value.
type fieldPath struct {
	elements []string
	ingest   bool
}

func parseFieldPath(path string) (fieldPath, error) {
	if path == "" {
		return fieldPath{}, apperrors.ErrInvalidPath.WithMessagef("path cannot be empty")
	}

	fp := fieldPath{}
	rest := path
	if strings.HasPrefix(path, IngestKey+separator) {
		fp.ingest = true
		rest = path[len(IngestKey)+1:]
	} else if strings.HasPrefix(path, SourceKey+separator) {
		rest = path[len(SourceKey)+1:]
	}

	fp.elements = splitPath(rest)
	if len(fp.elements) == 0 {
		return fieldPath{}, apperrors.ErrInvalidPath.WithMessagef("path [%s] is not valid", path)
	}
	return fp, nil
}

// splitPath splits on the separator, dropping empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, separator)
	elements := parts[:0]
	for _, p := range parts {
		if p != "" {
			elements = append(elements, p)
		}
	}
	return elements
}
