package server

import (
	"errors"

	"github.com/localrivet/textsummary/internal/errortypes"
)

// ErrorResponse is the structured form of an error returned to MCP clients.
type ErrorResponse struct {
	Status     string                 `json:"status"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StackTrace string                 `json:"stack_trace,omitempty"`
}

// Error response codes
const (
	StatusCodeValidationError   = "VALIDATION_ERROR"
	StatusCodeConfigError       = "CONFIG_ERROR"
	StatusCodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	StatusCodeComputationError  = "COMPUTATION_ERROR"
	StatusCodeExternalError     = "EXTERNAL_ERROR"
	StatusCodeInternalError     = "INTERNAL_ERROR"
	StatusCodeUnknownError      = "UNKNOWN_ERROR"
)

// ErrorCode maps an error to its response code.
func ErrorCode(err error) string {
	var appErr *errortypes.AppError
	if !errors.As(err, &appErr) {
		return StatusCodeUnknownError
	}

	switch appErr.Type {
	case errortypes.ErrorTypeValidation:
		return StatusCodeValidationError
	case errortypes.ErrorTypeConfig:
		return StatusCodeConfigError
	case errortypes.ErrorTypeUnsupportedMethod:
		return StatusCodeUnsupportedMethod
	case errortypes.ErrorTypeComputation:
		return StatusCodeComputationError
	case errortypes.ErrorTypeExternal:
		return StatusCodeExternalError
	case errortypes.ErrorTypeDatabase, errortypes.ErrorTypeInternal:
		return StatusCodeInternalError
	default:
		return StatusCodeUnknownError
	}
}

// ErrorToResponse converts an error to a standardized ErrorResponse. Stack
// traces are included only when withStack is set.
func ErrorToResponse(err error, withStack bool) ErrorResponse {
	resp := ErrorResponse{
		Status:  "error",
		Code:    ErrorCode(err),
		Message: err.Error(),
	}

	var appErr *errortypes.AppError
	if errors.As(err, &appErr) {
		resp.Details = appErr.Fields
		if withStack {
			resp.StackTrace = appErr.StackInfo
		}
	}
	return resp
}
