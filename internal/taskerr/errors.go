// Package taskerr defines the service's stable error taxonomy. Every
// domain error surfaced across the HTTP and MCP layers carries one of
// these Kind values, which both layers map to a transport-specific
// representation (HTTP status code, or a tool-response error field).
package taskerr

import "fmt"

// Kind is a stable error classification, independent of transport.
type Kind string

const (
	KindTaskNotFound          Kind = "TaskNotFound"
	KindWorkflowNotFound      Kind = "WorkflowNotFound"
	KindProjectNotFound       Kind = "ProjectNotFound"
	KindInvalidTaskDefinition Kind = "InvalidTaskDefinition"
	KindWorkflowValidationFailed Kind = "WorkflowValidationFailed"
	KindCircularDependency    Kind = "CircularDependency"
	KindDependencyNotSatisfied Kind = "DependencyNotSatisfied"
	KindInvalidStatusTransition Kind = "InvalidStatusTransition"
	KindValidationError       Kind = "ValidationError"
	KindStorageError          Kind = "StorageError"
	KindSerializationError    Kind = "SerializationError"
	KindTimeoutError          Kind = "TimeoutError"
)

// Error is the service's domain error type: a stable Kind plus a
// human-readable message, optionally wrapping a lower-level cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error,
// defaulting to KindStorageError for unrecognized errors — the service
// treats anything it didn't classify as an internal failure.
func KindOf(err error) Kind {
	var e *Error
	if asError(err, &e) {
		return e.Kind
	}
	return KindStorageError
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
