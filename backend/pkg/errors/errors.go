package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeTool represents tool lookup and execution errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeHTTP represents upstream HTTP errors
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeInput represents invalid caller-supplied arguments
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeParse represents undecodable upstream payloads
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

func (e *BaseError) base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Tool Errors

// ErrToolNotFound is returned when a requested tool is not registered
type ErrToolNotFound struct {
	*BaseError
	ToolName string
}

func NewToolNotFound(toolName string) *ErrToolNotFound {
	return &ErrToolNotFound{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("unknown tool: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrToolExecutionFailed is returned when tool execution fails
type ErrToolExecutionFailed struct {
	*BaseError
	ToolName string
	Reason   string
}

func NewToolExecutionFailed(toolName, reason string, err error) *ErrToolExecutionFailed {
	return &ErrToolExecutionFailed{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("%s failed: %s", toolName, reason), err),
		ToolName:  toolName,
		Reason:    reason,
	}
}

// Input Errors

// ErrInvalidArgument is returned when a tool argument is missing or malformed
type ErrInvalidArgument struct {
	*BaseError
	Argument string
	Reason   string
}

func NewInvalidArgument(argument, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid argument %q: %s", argument, reason), nil),
		Argument:  argument,
		Reason:    reason,
	}
}

// HTTP Errors

// ErrHTTPStatus is returned when an upstream answers with a non-2xx status
type ErrHTTPStatus struct {
	*BaseError
	URL        string
	StatusCode int
}

func NewHTTPStatus(url string, statusCode int) *ErrHTTPStatus {
	return &ErrHTTPStatus{
		BaseError:  NewBaseError(ErrorTypeHTTP, fmt.Sprintf("HTTP %d from %s", statusCode, url), nil),
		URL:        url,
		StatusCode: statusCode,
	}
}

// ErrRequestFailed is returned when a request never produced a response
type ErrRequestFailed struct {
	*BaseError
	URL string
}

func NewRequestFailed(url string, err error) *ErrRequestFailed {
	return &ErrRequestFailed{
		BaseError: NewBaseError(ErrorTypeHTTP, fmt.Sprintf("request to %s failed", url), err),
		URL:       url,
	}
}

// Parse Errors

// ErrParseFailed is returned when an upstream body cannot be decoded
type ErrParseFailed struct {
	*BaseError
	Format string
}

func NewParseFailed(format string, err error) *ErrParseFailed {
	return &ErrParseFailed{
		BaseError: NewBaseError(ErrorTypeParse, fmt.Sprintf("could not parse %s response", format), err),
		Format:    format,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled or its deadline passes
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type categorised interface {
	base() *BaseError
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if c, ok := err.(categorised); ok && c.base().Type == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// FromContext converts a context error into ErrContextCancelled, or
// returns nil when the context is still live.
func FromContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return NewContextCancelled(operation, err)
	}
	return nil
}

// StatusCode maps an error to the HTTP status the API server answers with
func StatusCode(err error) int {
	var statusErr *ErrHTTPStatus
	switch {
	case err == nil:
		return http.StatusOK
	case IsErrorType(err, ErrorTypeInput):
		return http.StatusBadRequest
	case stderrors.As(err, new(*ErrToolNotFound)):
		return http.StatusNotFound
	case IsErrorType(err, ErrorTypeContext):
		return http.StatusGatewayTimeout
	case stderrors.As(err, &statusErr), IsErrorType(err, ErrorTypeHTTP), IsErrorType(err, ErrorTypeParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
