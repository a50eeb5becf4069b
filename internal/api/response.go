package api

import (
	"time"

	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/validation"
)

// APIResponse is the standard response envelope for all endpoints,
// preserved from the teacher's shape: a data payload, an optional
// validation result, an optional error, and response metadata.
type APIResponse struct {
	Data             interface{}         `json:"data,omitempty"`
	ValidationResult *validation.Result  `json:"validation,omitempty"`
	Error            *ErrorResponse      `json:"error,omitempty"`
	Meta             ResponseMeta        `json:"meta"`
}

// ErrorResponse contains error details, keyed on the closed entity.ErrorKind
// taxonomy so clients can branch on Code without parsing Message.
type ErrorResponse struct {
	Code    entity.ErrorKind       `json:"code"`
	Message string                 `json:"message"`
	Help    string                 `json:"help,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Version   string    `json:"version,omitempty"`
}

func meta() ResponseMeta {
	return ResponseMeta{Timestamp: entity.Now(), Version: "1.0"}
}

// SuccessResponse returns a successful APIResponse.
func SuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{Data: data, Meta: meta()}
}

// SuccessWithValidation returns a successful APIResponse that also carries
// a (passing) validation result, used by endpoints like GetRule that
// report structural health alongside the requested data.
func SuccessWithValidation(data interface{}, v *validation.Result) *APIResponse {
	return &APIResponse{Data: data, ValidationResult: v, Meta: meta()}
}

// ErrorResponseFromErr renders any error into the envelope. A *entity.
// CoreError carries its Kind/Help/Details through; any other error is
// reported as an opaque internal error.
func ErrorResponseFromErr(err error) *APIResponse {
	if ce, ok := err.(*entity.CoreError); ok {
		return &APIResponse{
			Error: &ErrorResponse{Code: ce.Kind, Message: ce.Message, Help: ce.Help, Details: ce.Details},
			Meta:  meta(),
		}
	}
	return &APIResponse{
		Error: &ErrorResponse{Code: "INTERNAL", Message: err.Error()},
		Meta:  meta(),
	}
}

// ValidationErrorResponse returns a non-2xx envelope for a failed
// validation result (one or more ERROR-severity messages).
func ValidationErrorResponse(v *validation.Result) *APIResponse {
	return &APIResponse{
		ValidationResult: v,
		Error:            &ErrorResponse{Code: entity.KindValidation, Message: "rule tree failed validation"},
		Meta:             meta(),
	}
}

// HTTPStatusForKind maps the closed error-kind taxonomy to an HTTP status,
// grounded on the teacher's router (404 for not-found, 409 for write
// conflicts on a mutable resource, 400 for caller-supplied bad input).
func HTTPStatusForKind(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindNotFound:
		return 404
	case entity.KindSavedSetWrite, entity.KindAlreadySaved, entity.KindNotSaved, entity.KindNoDraft:
		return 409
	case entity.KindMismatch, entity.KindValidation:
		return 400
	case entity.KindCorruptMapping, entity.KindDataIntegrity:
		return 500
	case entity.KindCancelled:
		return 499
	default:
		return 500
	}
}
