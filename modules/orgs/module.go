package orgs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/handler"
	"github.com/dmitrymomot/tenantkit/pkg/binder"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/invitation"
	"github.com/dmitrymomot/tenantkit/svc/organization"
)

// Middleware is a standard net/http middleware.
type Middleware = func(http.Handler) http.Handler

// Options wires the module. Authenticate and ResolveTenant are required.
type Options struct {
	Organizations *organization.Service
	Invitations   *invitation.Service

	// Authenticate puts the caller's user id in the request context.
	Authenticate Middleware
	// ResolveTenant puts the resolved organization id in the request context.
	ResolveTenant Middleware
	// LimitTokens throttles the invitation token endpoints. Optional.
	LimitTokens Middleware

	Cookie tenant.CookieOptions
	Logger *slog.Logger
}

// Module serves the organization, membership, role, override and
// invitation endpoints.
type Module struct {
	orgs        *organization.Service
	invitations *invitation.Service
	authn       Middleware
	tenant      Middleware
	limitTokens Middleware
	cookie      tenant.CookieOptions
	onError     handler.ErrorHandler[handler.Context]
}

func New(opts Options) *Module {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Module{
		orgs:        opts.Organizations,
		invitations: opts.Invitations,
		authn:       opts.Authenticate,
		tenant:      opts.ResolveTenant,
		limitTokens: opts.LimitTokens,
		cookie:      opts.Cookie,
		onError:     handler.NewErrorHandler(log.With(logger.Component("orgs"))),
	}
}

// ErrorFunc renders middleware failures in the module's JSON envelope.
func (m *Module) ErrorFunc() func(http.ResponseWriter, *http.Request, error) {
	return handler.HTTPErrorFunc(m.onError)
}

// Handle builds the router:
//
//	GET    /invitations/{token}                           public
//	POST   /invitations/{token}/reject                    public
//	POST   /invitations/{token}/accept
//	GET    /orgs
//	POST   /orgs
//	GET    /orgs/{orgID}
//	POST   /orgs/{orgID}/switch
//	GET    /orgs/current
//	GET    /orgs/current/abilities
//	POST   /orgs/current/leave
//	POST   /orgs/current/transfer
//	GET    /orgs/current/members
//	DELETE /orgs/current/members/{userID}
//	PUT    /orgs/current/members/{userID}/roles/{roleID}
//	DELETE /orgs/current/members/{userID}/roles/{roleID}
//	GET    /orgs/current/members/{userID}/overrides
//	PUT    /orgs/current/members/{userID}/overrides/{key}
//	DELETE /orgs/current/members/{userID}/overrides/{key}
//	GET    /orgs/current/roles
//	POST   /orgs/current/roles
//	PATCH  /orgs/current/roles/{roleID}
//	PUT    /orgs/current/roles/{roleID}/permissions
//	DELETE /orgs/current/roles/{roleID}
//	GET    /orgs/current/invitations
//	POST   /orgs/current/invitations
//	DELETE /orgs/current/invitations/{invitationID}
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(rbac.MemoMiddleware)

	r.Route("/invitations/{token}", func(r chi.Router) {
		if m.limitTokens != nil {
			r.Use(m.limitTokens)
		}
		r.Get("/", wrap(m, m.getInvitation))
		r.Post("/reject", wrap(m, m.rejectInvitation))
		r.With(m.authn).Post("/accept", wrap(m, m.acceptInvitation))
	})

	r.Route("/orgs", func(r chi.Router) {
		r.Use(m.authn)

		r.Get("/", wrap(m, m.listOrganizations))
		r.Post("/", wrap(m, m.createOrganization))

		r.Route("/current", func(r chi.Router) {
			r.Use(m.tenant)

			r.Get("/", wrap(m, m.currentOrganization))
			r.Get("/abilities", wrap(m, m.abilities))
			r.Post("/leave", wrap(m, m.leave))
			r.Post("/transfer", wrap(m, m.transferOwnership))

			r.Route("/members", func(r chi.Router) {
				r.Get("/", wrap(m, m.listMembers))
				r.Route("/{userID}", func(r chi.Router) {
					r.Delete("/", wrap(m, m.removeMember))
					r.Put("/roles/{roleID}", wrap(m, m.assignRole))
					r.Delete("/roles/{roleID}", wrap(m, m.unassignRole))
					r.Get("/overrides", wrap(m, m.listOverrides))
					r.Put("/overrides/{key}", wrap(m, m.setOverride))
					r.Delete("/overrides/{key}", wrap(m, m.clearOverride))
				})
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", wrap(m, m.listRoles))
				r.Post("/", wrap(m, m.createRole))
				r.Patch("/{roleID}", wrap(m, m.renameRole))
				r.Put("/{roleID}/permissions", wrap(m, m.setRolePermissions))
				r.Delete("/{roleID}", wrap(m, m.deleteRole))
			})

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", wrap(m, m.listInvitations))
				r.Post("/", wrap(m, m.createInvitation))
				r.Delete("/{invitationID}", wrap(m, m.revokeInvitation))
			})
		})

		r.Get("/{orgID}", wrap(m, m.getOrganization))
		r.Post("/{orgID}/switch", wrap(m, m.switchOrganization))
	})

	return r
}

// wrap binds path params and the JSON body into R and runs h with the
// module context.
func wrap[R any](m *Module, h handler.HandlerFunc[*Context, R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithContextFactory[*Context, R](newContext),
		handler.WithBinders[*Context, R](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[*Context, R](func(ctx *Context, err error) {
			m.onError(ctx.Context, err)
		}),
	)
}
