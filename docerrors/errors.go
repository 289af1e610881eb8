// Package docerrors provides structured error types for specdex.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - NotFoundError: an endpoint or schema name is absent from the document
//   - ReferenceError: $ref resolution failures (invalid syntax, missing
//     target, circular reference)
//   - ResourceLimitError: resolution depth exceeded
//
// # Usage with errors.Is
//
//	detail, err := idx.GetEndpoint("/pets", "GET")
//	if errors.Is(err, docerrors.ErrNotFound) {
//	    // Report the miss to the caller as data, not a fault.
//	}
package docerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrNoDocument indicates no specification document is loaded.
	ErrNoDocument = errors.New("no spec loaded")

	// ErrNotFound indicates a requested endpoint or schema does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrInvalidReference indicates a $ref string is not of the form "#/...".
	ErrInvalidReference = errors.New("invalid reference")

	// ErrReferenceNotFound indicates a $ref path segment does not exist.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")
)

// NotFoundError reports a missing endpoint or schema.
// Exactly one of (Path, Method) or Name is populated.
type NotFoundError struct {
	// Path is the requested endpoint path template, if this was an
	// endpoint lookup
	Path string
	// Method is the requested HTTP method (upper-cased), if this was an
	// endpoint lookup
	Method string
	// Name is the requested schema name, if this was a schema lookup
	Name string
}

// Error returns a human-readable error message.
// The message texts are part of the query wire contract.
func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("Schema '%s' not found", e.Name)
	}
	return fmt.Sprintf("Endpoint %s %s not found", e.Method, e.Path)
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReferenceError represents a failure to resolve a $ref.
// This includes malformed references, missing targets, and cycles.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsInvalid is true when the reference does not start with "#/"
	IsInvalid bool
	// IsMissing is true when a path segment of the reference does not
	// exist in the document
	IsMissing bool
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
// The message texts are part of the query wire contract: they appear
// verbatim as embedded error values in resolved schema trees.
func (e *ReferenceError) Error() string {
	switch {
	case e.IsCircular:
		return "Circular reference detected: " + e.Ref
	case e.IsInvalid:
		return "Invalid reference format: " + e.Ref
	case e.IsMissing:
		return "Reference not found: " + e.Ref
	}
	msg := "reference error: " + e.Ref
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also the specific sentinel for whichever
// failure flag is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrInvalidReference && e.IsInvalid {
		return true
	}
	if target == ErrReferenceNotFound && e.IsMissing {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition during
// reference resolution.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int
	// Ref is the reference being resolved when the limit was hit
	Ref string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	if e.ResourceType == "ref_depth" {
		return "Reference depth limit exceeded: " + e.Ref
	}
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}
