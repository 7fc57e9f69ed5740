package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPath        = NewError("INVALID_PATH", "invalid document path")
	ErrFieldNotFound      = NewError("FIELD_NOT_FOUND", "field not present")
	ErrInvalidIndex       = NewError("INVALID_INDEX", "segment is not a valid list index")
	ErrIndexOutOfBounds   = NewError("INDEX_OUT_OF_BOUNDS", "list index out of bounds")
	ErrNotTraversable     = NewError("NOT_TRAVERSABLE", "value cannot be traversed")
	ErrTypeMismatch       = NewError("TYPE_MISMATCH", "value has unexpected type")
	ErrMissingConfig      = NewError("MISSING_CONFIG", "required configuration property missing")
	ErrInvalidConfigType  = NewError("INVALID_CONFIG_TYPE", "configuration property has wrong type")
	ErrInvalidConfigValue = NewError("INVALID_CONFIG_VALUE", "configuration property has invalid value")
	ErrInternal           = NewError("INTERNAL_ERROR", "internal error")
)

type RetryableError interface {
	error
	IsRetryable() bool
}

type FatalError interface {
	error
	IsFatal() bool
}

type Error struct {
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	retryable *bool
}

func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error returns the message alone. The messages carry their full context
// (field, path, types), and several of them form the documented contract of
// the document API, so the code is not prefixed.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any error carrying the same code, so callers can
// compare against the package sentinels regardless of the message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

func (e *Error) IsRetryable() bool {
	if e.retryable != nil {
		return *e.retryable
	}
	if e.Cause != nil {
		var retryableErr RetryableError
		if errors.As(e.Cause, &retryableErr) {
			return retryableErr.IsRetryable()
		}
		var fatalErr FatalError
		if errors.As(e.Cause, &fatalErr) {
			return !fatalErr.IsFatal()
		}
	}
	return e.Code == ErrInternal.Code
}

func (e *Error) IsFatal() bool {
	if e.retryable != nil {
		return !*e.retryable
	}
	return !e.IsRetryable()
}

func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	err := *e
	err.Message = fmt.Sprintf(format, args...)
	return &err
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	details := make(map[string]interface{}, len(err.Details)+1)
	for k, v := range err.Details {
		details[k] = v
	}
	details[key] = value
	err.Details = details
	return &err
}

func (e *Error) AsRetryable() *Error {
	err := *e
	retryable := true
	err.retryable = &retryable
	return &err
}

func (e *Error) AsFatal() *Error {
	err := *e
	retryable := false
	err.retryable = &retryable
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsInvalidPath(err error) bool      { return Code(err) == ErrInvalidPath.Code }
func IsFieldNotFound(err error) bool    { return Code(err) == ErrFieldNotFound.Code }
func IsInvalidIndex(err error) bool     { return Code(err) == ErrInvalidIndex.Code }
func IsIndexOutOfBounds(err error) bool { return Code(err) == ErrIndexOutOfBounds.Code }
func IsNotTraversable(err error) bool   { return Code(err) == ErrNotTraversable.Code }
func IsTypeMismatch(err error) bool     { return Code(err) == ErrTypeMismatch.Code }
func IsMissingConfig(err error) bool    { return Code(err) == ErrMissingConfig.Code }
func IsConfigError(err error) bool {
	code := Code(err)
	return code == ErrMissingConfig.Code ||
		code == ErrInvalidConfigType.Code ||
		code == ErrInvalidConfigValue.Code
}
