package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_Error(t *testing.T) {
	plain := NewBaseError(ErrorTypeTool, "boom", nil)
	assert.Equal(t, "[tool] boom", plain.Error())

	wrapped := NewBaseError(ErrorTypeHTTP, "fetch", fmt.Errorf("dial tcp: refused"))
	assert.Equal(t, "[http] fetch: dial tcp: refused", wrapped.Error())
}

func TestIsErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{"typed wrapper", NewToolNotFound("nope"), ErrorTypeTool, true},
		{"wrong category", NewToolNotFound("nope"), ErrorTypeHTTP, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", NewInvalidArgument("query", "required")), ErrorTypeInput, true},
		{"inner category found", NewToolExecutionFailed("x", "y", NewHTTPStatus("http://a", 500)), ErrorTypeHTTP, true},
		{"plain error", stderrors.New("x"), ErrorTypeTool, false},
		{"nil", nil, ErrorTypeTool, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsErrorType(tc.err, tc.errType))
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid argument", NewInvalidArgument("url", "must be http"), http.StatusBadRequest},
		{"unknown tool", NewToolNotFound("x"), http.StatusNotFound},
		{"upstream status", NewHTTPStatus("http://a", 503), http.StatusBadGateway},
		{"parse", NewParseFailed("json", stderrors.New("eof")), http.StatusBadGateway},
		{"context", NewContextCancelled("fetch", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", stderrors.New("x"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusCode(tc.err))
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.NoError(t, FromContext(context.Background(), "op"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FromContext(ctx, "op")
	assert.True(t, IsErrorType(err, ErrorTypeContext))
	assert.ErrorIs(t, err, context.Canceled)
}
