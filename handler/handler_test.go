package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/binder"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

type createRequest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"omitempty,email"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWrap(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		func(_ handler.Context, req createRequest) handler.Response {
			return handler.JSON(map[string]string{"name": req.Name}, handler.WithJSONStatus(http.StatusCreated))
		},
		handler.WithBinders[handler.Context, createRequest](binder.JSON()),
	)

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, body handler.JSONResponse)
	}{
		{
			name:   "success",
			body:   `{"name":"acme"}`,
			status: http.StatusCreated,
			check: func(t *testing.T, body handler.JSONResponse) {
				assert.Equal(t, map[string]any{"name": "acme"}, body.Data)
				assert.Nil(t, body.Error)
			},
		},
		{
			name:   "validation failure",
			body:   `{"name":"","email":"nope"}`,
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body handler.JSONResponse) {
				require.NotNil(t, body.Error)
				assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
				assert.Equal(t, []string{"is required"}, body.Error.Details["name"])
				assert.Equal(t, []string{"must be a valid email address"}, body.Error.Details["email"])
			},
		},
		{
			name:   "malformed json",
			body:   `{"name":`,
			status: http.StatusBadRequest,
			check: func(t *testing.T, body handler.JSONResponse) {
				require.NotNil(t, body.Error)
				assert.Equal(t, "BAD_REQUEST", body.Error.Code)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := post(h, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			tt.check(t, decode(t, rec))
		})
	}
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(
		func(handler.Context, struct{}) handler.Response {
			order = append(order, "handler")
			return handler.Empty()
		},
		handler.WithDecorators(mark("outer"), mark("inner")),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWrap_NilResponse(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.Wrap(
		func(handler.Context, struct{}) handler.Response { return nil },
		handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, handler.ErrNilResponse)
}

func TestWrap_ErrorResponse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	h := handler.Wrap(
		func(handler.Context, struct{}) handler.Response {
			return handler.Error(apperr.PermissionDenied("member:invite", "member:view"))
		},
		handler.WithErrorHandler[handler.Context, struct{}](handler.NewErrorHandler(log)),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invitations", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "PERMISSION_DENIED", body.Error.Code)
	assert.Equal(t, []string{"member:invite", "member:view"}, body.Error.Missing)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"route":"unmatched"`)
}

func TestErrorHandler_LogsRoutePatternNotPath(t *testing.T) {
	t.Parallel()

	const token = "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"

	var buf bytes.Buffer
	onError := handler.HTTPErrorFunc(handler.NewErrorHandler(logger.New(logger.WithOutput(&buf))))
	deny := func(err error) func(http.Handler) http.Handler {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { onError(w, r, err) })
		}
	}

	r := chi.NewRouter()
	r.Route("/invitations/{token}", func(r chi.Router) {
		r.With(deny(apperr.ErrUnauthenticated)).Post("/accept", func(http.ResponseWriter, *http.Request) {})
		r.Get("/", handler.Wrap(
			func(handler.Context, struct{}) handler.Response {
				return handler.Error(apperr.ErrNotFound)
			},
			handler.WithErrorHandler[handler.Context, struct{}](handler.NewErrorHandler(logger.New(logger.WithOutput(&buf)))),
		))
	})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/invitations/" + token + "/accept", http.StatusUnauthorized},
		{http.MethodGet, "/invitations/" + token, http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
	}

	out := buf.String()
	assert.NotContains(t, out, token)
	assert.Contains(t, out, "/invitations/{token}/accept")
	assert.Contains(t, out, `"status":404`)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.CodeUnauthenticated, http.StatusUnauthorized},
		{apperr.CodeTenantNotSet, http.StatusPreconditionFailed},
		{apperr.CodeTenantForbidden, http.StatusForbidden},
		{apperr.CodePermissionDenied, http.StatusForbidden},
		{apperr.CodeNotFound, http.StatusNotFound},
		{apperr.CodeConflict, http.StatusConflict},
		{apperr.CodeBadRequest, http.StatusBadRequest},
		{apperr.CodeRateLimited, http.StatusTooManyRequests},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, handler.StatusOf(tt.code), tt.code)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	errExpired := apperr.New(apperr.CodeBadRequest, "invitation.expired")

	t.Run("domain error keeps its message", func(t *testing.T) {
		t.Parallel()
		status, d := handler.Describe(errExpired.Wrap(errors.New("boom")))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "BAD_REQUEST", d.Code)
		assert.Equal(t, "invitation.expired", d.Message)
		assert.Empty(t, d.Missing)
	})

	t.Run("unknown errors do not leak", func(t *testing.T) {
		t.Parallel()
		status, d := handler.Describe(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "INTERNAL", d.Code)
		assert.NotContains(t, d.Message, "connection refused")
	})
}
