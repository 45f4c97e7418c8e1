package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

// JSONResponse is the envelope every JSON endpoint writes.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Missing lists the permission keys
// the caller lacks on PERMISSION_DENIED; Details holds field validation messages.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Missing []string            `json:"missing,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

const (
	codeValidation = "VALIDATION_FAILED"
	codeInternal   = "INTERNAL"
)

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) { r.body.Meta = meta }
}

// JSON responds 200 with v under "data".
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as an error envelope with the status StatusOf picks.
func JSONError(err error, opts ...JSONOption) Response {
	status, detail := Describe(err)
	r := &jsonResponse{status: status, body: JSONResponse{Error: detail}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StatusOf maps an error class to its HTTP status.
func StatusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodeTenantNotSet:
		return http.StatusPreconditionFailed
	case apperr.CodeTenantForbidden, apperr.CodePermissionDenied:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeBadRequest:
		return http.StatusBadRequest
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Describe returns the status and client-safe detail for err. Errors outside
// the apperr taxonomy are reported as INTERNAL without their text.
func Describe(err error) (int, *ErrorDetail) {
	var verr ValidationError
	if errors.As(err, &verr) {
		d := &ErrorDetail{Code: codeValidation, Message: "validation.failed"}
		if len(verr) > 0 {
			d.Details = make(map[string][]string, len(verr))
			maps.Copy(d.Details, verr)
		}
		return http.StatusUnprocessableEntity, d
	}

	var aerr *apperr.Error
	if errors.As(err, &aerr) {
		d := &ErrorDetail{Code: string(aerr.Code), Message: aerr.Message}
		if aerr.Code == apperr.CodePermissionDenied {
			d.Missing = aerr.Missing
		}
		return StatusOf(aerr.Code), d
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    codeInternal,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
