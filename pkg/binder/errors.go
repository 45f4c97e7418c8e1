package binder

import "github.com/dmitrymomot/tenantkit/pkg/apperr"

var (
	ErrUnsupportedMediaType = apperr.New(apperr.CodeBadRequest, "request.unsupported_media_type")
	ErrFailedToParseJSON    = apperr.New(apperr.CodeBadRequest, "request.invalid_json")
	ErrFailedToParsePath    = apperr.New(apperr.CodeBadRequest, "request.invalid_path")
	ErrFailedToParseQuery   = apperr.New(apperr.CodeBadRequest, "request.invalid_query")
)
