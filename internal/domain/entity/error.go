package entity

import "fmt"

// ErrorCode identifies one failure class of the gateway. The set is closed:
// every error the pipeline can return to a caller carries one of these codes.
type ErrorCode string

const (
	CodeMissingAuth   ErrorCode = "missing_auth"
	CodeInvalidAuth   ErrorCode = "invalid_auth"
	CodeRateLimited   ErrorCode = "rate_limited"
	CodeInvalidAction ErrorCode = "invalid_action"
	CodeMissingField  ErrorCode = "missing_field"
	CodeNoFile        ErrorCode = "no_file"
	CodeInvalidType   ErrorCode = "invalid_type"
	CodeInvalidMedia  ErrorCode = "invalid_media"
	CodeInvalidBody   ErrorCode = "invalid_body"
	CodeNotFound      ErrorCode = "not_found"
	CodeUpstreamError ErrorCode = "upstream_error"
	CodeInternalError ErrorCode = "internal_error"
)

// GatewayError is a domain failure with its wire representation attached.
// The pipeline maps it to an HTTP status and error body uniformly.
type GatewayError struct {
	Code    ErrorCode
	Message string
	Status  int
	Details interface{}
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrMissingAuth() *GatewayError {
	return &GatewayError{Code: CodeMissingAuth, Message: "Authentication required", Status: 401}
}

func ErrInvalidAuth() *GatewayError {
	return &GatewayError{Code: CodeInvalidAuth, Message: "Invalid authentication key", Status: 403}
}

func ErrRateLimited() *GatewayError {
	return &GatewayError{Code: CodeRateLimited, Message: "Too many requests", Status: 429}
}

func ErrInvalidAction(action string) *GatewayError {
	return &GatewayError{
		Code:    CodeInvalidAction,
		Message: "Invalid action specified",
		Status:  400,
		Details: map[string]string{"action": action},
	}
}

func ErrMissingField(field string) *GatewayError {
	return &GatewayError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("Missing required field: %s", field),
		Status:  400,
		Details: map[string]string{"field": field},
	}
}

func ErrNoFile() *GatewayError {
	return &GatewayError{Code: CodeNoFile, Message: "No file uploaded or URL provided", Status: 400}
}

func ErrInvalidType(mimeType string) *GatewayError {
	return &GatewayError{
		Code:    CodeInvalidType,
		Message: "Unsupported file type",
		Status:  400,
		Details: map[string]string{"type": mimeType},
	}
}

func ErrInvalidMedia() *GatewayError {
	return &GatewayError{Code: CodeInvalidMedia, Message: "Invalid media ID provided", Status: 400}
}

func ErrInvalidBody(parseErr string) *GatewayError {
	return &GatewayError{
		Code:    CodeInvalidBody,
		Message: "Request body could not be parsed",
		Status:  400,
		Details: map[string]string{"parse_error": parseErr},
	}
}

func ErrNotFound(message string) *GatewayError {
	return &GatewayError{Code: CodeNotFound, Message: message, Status: 404}
}

func ErrUpstream(err error) *GatewayError {
	return &GatewayError{Code: CodeUpstreamError, Message: err.Error(), Status: 500}
}

func ErrInternal() *GatewayError {
	return &GatewayError{Code: CodeInternalError, Message: "Internal Server Error", Status: 500}
}
