package document

import (
	"strconv"

	apperrors "docpipe/pkg/errors"
)

func errFieldNotFound(element, path string) error {
	return apperrors.ErrFieldNotFound.WithMessagef(
		"field [%s] not present as part of path [%s]", element, path)
}

func errResolveFromNull(element, path string) error {
	return apperrors.ErrNotTraversable.WithMessagef(
		"cannot resolve [%s] from null as part of path [%s]", element, path)
}

func errResolveFromScalar(element, path string, context interface{}) error {
	return apperrors.ErrNotTraversable.WithMessagef(
		"cannot resolve [%s] from object of type [%T] as part of path [%s]", element, context, path)
}

func errNotTraversablef(format string, args ...interface{}) error {
	return apperrors.ErrNotTraversable.WithMessagef(format, args...)
}

// parseIndex turns a path segment into a list index checked against the list
// length.
func parseIndex(element, path string, length int) (int, error) {
	index, err := strconv.Atoi(element)
	if err != nil {
		return 0, apperrors.ErrInvalidIndex.WithMessagef(
			"[%s] is not an integer, cannot be used as an index as part of path [%s]", element, path)
	}
	if index < 0 || index >= length {
		return 0, apperrors.ErrIndexOutOfBounds.WithMessagef(
			"[%d] is out of bounds for array with length [%d] as part of path [%s]", index, length, path)
	}
	return index, nil
}
