package docerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  *NotFoundError
		want string
	}{
		{
			name: "endpoint miss",
			err:  &NotFoundError{Path: "/missing", Method: "GET"},
			want: "Endpoint GET /missing not found",
		},
		{
			name: "schema miss",
			err:  &NotFoundError{Name: "Widget"},
			want: "Schema 'Widget' not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrNotFound))
			assert.False(t, errors.Is(tt.err, ErrReference))
		})
	}
}

func TestReferenceError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *ReferenceError
		want string
	}{
		{
			name: "circular",
			err:  &ReferenceError{Ref: "#/components/schemas/A", IsCircular: true},
			want: "Circular reference detected: #/components/schemas/A",
		},
		{
			name: "invalid format",
			err:  &ReferenceError{Ref: "components/schemas/A", IsInvalid: true},
			want: "Invalid reference format: components/schemas/A",
		},
		{
			name: "missing target",
			err:  &ReferenceError{Ref: "#/definitions/Nope", IsMissing: true},
			want: "Reference not found: #/definitions/Nope",
		},
		{
			name: "generic with cause",
			err:  &ReferenceError{Ref: "#/x", Cause: fmt.Errorf("boom")},
			want: "reference error: #/x: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestReferenceError_Is(t *testing.T) {
	circular := &ReferenceError{Ref: "#/a", IsCircular: true}
	assert.True(t, errors.Is(circular, ErrReference))
	assert.True(t, errors.Is(circular, ErrCircularReference))
	assert.False(t, errors.Is(circular, ErrInvalidReference))
	assert.False(t, errors.Is(circular, ErrReferenceNotFound))

	invalid := &ReferenceError{Ref: "a", IsInvalid: true}
	assert.True(t, errors.Is(invalid, ErrInvalidReference))
	assert.False(t, errors.Is(invalid, ErrCircularReference))

	missing := &ReferenceError{Ref: "#/nope", IsMissing: true}
	assert.True(t, errors.Is(missing, ErrReferenceNotFound))
}

func TestReferenceError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := &ReferenceError{Ref: "#/a", Cause: cause}
	assert.Equal(t, cause, errors.Unwrap(err))

	wrapped := fmt.Errorf("context: %w", err)
	var refErr *ReferenceError
	assert.True(t, errors.As(wrapped, &refErr))
	assert.Equal(t, "#/a", refErr.Ref)
}

func TestResourceLimitError(t *testing.T) {
	depth := &ResourceLimitError{ResourceType: "ref_depth", Limit: 100, Actual: 101, Ref: "#/components/schemas/Deep"}
	assert.Equal(t, "Reference depth limit exceeded: #/components/schemas/Deep", depth.Error())
	assert.True(t, errors.Is(depth, ErrResourceLimit))

	generic := &ResourceLimitError{ResourceType: "other", Limit: 10, Actual: 12}
	assert.Equal(t, "resource limit exceeded: other (limit: 10, actual: 12)", generic.Error())
}
