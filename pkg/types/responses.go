package types

import "errors"

// ErrInvalidParameter marks a malformed or missing url/query parameter. It is
// reported with the invalid-request response code, never retried.
var ErrInvalidParameter = errors.New("invalid parameter")

// Response codes carried by every API response so clients can distinguish
// failure classes without parsing messages.
const (
	ResponseCodeSuccess             = 0
	ResponseCodeInvalidRequest      = 4400
	ResponseCodeAuthenticationError = 4401
	ResponseCodeNotFound            = 4404
	ResponseCodeConflict            = 4409
	ResponseCodeUnhandledError      = 4500
)

// BaseResponse is the minimal envelope returned by every action.
type BaseResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// NewSuccessResponse builds a success envelope with the given message.
func NewSuccessResponse(message string) BaseResponse {
	return BaseResponse{Code: ResponseCodeSuccess, Message: message}
}

// BasicSaveResponse is returned by create-style actions and carries the
// identity assigned to the newly persisted record.
type BasicSaveResponse struct {
	BaseResponse
	ID uint `json:"id"`
}

// FieldError describes a single field that failed pre-invocation validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse enumerates the fields that failed validation.
// It is returned with ResponseCodeInvalidRequest and the target action
// is never invoked.
type ValidationResponse struct {
	BaseResponse
	FieldErrors []FieldError `json:"field_errors"`
}
