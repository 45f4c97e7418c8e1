// Package handler provides typed HTTP handlers with a JSON envelope.
//
// A HandlerFunc receives a request struct that Wrap has already bound (with
// pkg/binder binders) and validated (with `validate` struct tags), and returns
// a Response:
//
//	type renameRoleRequest struct {
//		RoleID uuid.UUID `path:"roleID" validate:"required"`
//		Name   string    `json:"name" validate:"required,max=100"`
//	}
//
//	http.Handle("/roles/{roleID}", handler.Wrap(renameRole,
//		handler.WithBinders[handler.Context, renameRoleRequest](binder.Path(chiParam), binder.JSON()),
//		handler.WithErrorHandler[handler.Context, renameRoleRequest](handler.NewErrorHandler(log)),
//	))
//
// Successful responses are written as {"data": ...}. Failures are written as
// {"error": {"code", "message", "missing", "details"}} where code is the
// apperr class and the status follows StatusOf. Validation failures respond
// 422 with per-field details. Errors outside the apperr taxonomy respond 500
// without leaking their text.
package handler
