package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  &AppError{Type: ErrTypeParsing, Message: "bad row"},
			want: "[PARSING] bad row",
		},
		{
			name: "wrapped cause",
			err:  &AppError{Type: ErrTypeExport, Message: "write failed", Cause: fmt.Errorf("disk full")},
			want: "[EXPORT] write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewAppError(ErrTypeConfig, "load failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewValidationError("step out of range").
		WithContext("step", 0).
		WithContext("flag", "-step")

	require.NotNil(t, err.Context)
	assert.Equal(t, 0, err.Context["step"])
	assert.Equal(t, "-step", err.Context["flag"])
}

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("session_01.csv", "Time")

	assert.Contains(t, err.Error(), "Time")
	assert.Contains(t, err.Error(), "session_01.csv")
	assert.Contains(t, err.Error(), string(ErrTypeSchema))
}

func TestIsSchemaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "direct schema error",
			err:  NewSchemaError("data.csv", "Time"),
			want: true,
		},
		{
			name: "wrapped schema error",
			err:  fmt.Errorf("load: %w", NewSchemaError("data.csv", "Time")),
			want: true,
		},
		{
			name: "unrelated error",
			err:  fmt.Errorf("something else"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSchemaError(tt.err))
		})
	}
}

func TestStaticExportError(t *testing.T) {
	cause := fmt.Errorf("exec: \"google-chrome\": executable file not found in $PATH")
	err := NewStaticExportError(cause)

	assert.Equal(t, StaticExportHint, err.Hint)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), string(ErrTypeStaticExport))
}

func TestIsStaticExportError(t *testing.T) {
	wrapped := fmt.Errorf("export png: %w", NewStaticExportError(nil))

	assert.True(t, IsStaticExportError(wrapped))
	assert.False(t, IsStaticExportError(fmt.Errorf("plain")))
}
