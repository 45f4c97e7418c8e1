package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/internal/store/memory"
	"github.com/dmitrymomot/tenantkit/internal/store/postgres"
	"github.com/dmitrymomot/tenantkit/modules/orgs"
	"github.com/dmitrymomot/tenantkit/pkg/audit"
	"github.com/dmitrymomot/tenantkit/pkg/authn"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/email"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/metrics"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/access"
	"github.com/dmitrymomot/tenantkit/svc/invitation"
	"github.com/dmitrymomot/tenantkit/svc/organization"
	tenantsvc "github.com/dmitrymomot/tenantkit/svc/tenant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			authn.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	slog.SetDefault(log)

	catalog := permission.Default()
	probes := map[string]httpserver.Probe{}

	st, auditStorage, cleanup, err := openStore(ctx, cfg, catalog, log, probes)
	if err != nil {
		return err
	}
	defer cleanup()

	slugCache, limitStore, closeShared, err := openShared(ctx, cfg, log, probes)
	if err != nil {
		return err
	}
	defer closeShared()

	sender, err := newSender(cfg.Email, log)
	if err != nil {
		return err
	}

	auth, err := authn.NewService(cfg.Auth.JWTSecret,
		authn.WithIssuer(cfg.Auth.JWTIssuer),
		authn.WithTTL(cfg.Auth.TokenTTL),
	)
	if err != nil {
		return fmt.Errorf("authn: %w", err)
	}

	tokenLimit, err := ratelimiter.NewBucket(limitStore, cfg.RateLimit)
	if err != nil {
		return err
	}

	m := metrics.New()
	auditor := audit.NewLogger(auditStorage,
		audit.WithOrgIDExtractor(tenant.OrgIDFromContext),
		audit.WithActorIDExtractor(authn.UserIDFromContext),
		audit.WithRequestIDExtractor(requestid.FromContext),
	)

	guard := access.NewGuard(st, rbac.NewResolver(catalog),
		access.WithLogger(log),
		access.WithDenialRecorder(m),
	)
	resolver := tenantsvc.NewResolver(st,
		tenantsvc.WithCache(slugCache),
		tenantsvc.WithLogger(log),
		tenantsvc.WithDenialRecorder(m),
	)
	orgSvc := organization.NewService(st, guard, catalog,
		organization.WithAuditor(auditor),
		organization.WithLogger(log),
	)
	inviteSvc := invitation.NewService(st, guard,
		invitation.WithSender(sender),
		invitation.WithAuditor(auditor),
		invitation.WithTransitionRecorder(m),
		invitation.WithLogger(log),
		invitation.WithBaseURL(cfg.Invitation.BaseURL),
		invitation.WithDefaultExpiryDays(cfg.Invitation.DefaultTTLDays),
	)

	extract := tenant.First(
		tenant.FromHeaderID(cfg.Tenant.IDHeader),
		tenant.FromHeaderSlug(cfg.Tenant.SlugHeader),
		tenant.FromSubdomain(cfg.Tenant.RootDomain),
		tenant.FromCookie(cfg.Tenant.CookieName),
	)

	var module *orgs.Module
	module = orgs.New(orgs.Options{
		Organizations: orgSvc,
		Invitations:   inviteSvc,
		Authenticate: func(next http.Handler) http.Handler {
			return authn.Middleware(auth, authn.WithErrorHandler(module.ErrorFunc()))(next)
		},
		ResolveTenant: func(next http.Handler) http.Handler {
			return tenantsvc.Middleware(resolver, extract, module.ErrorFunc())(next)
		},
		LimitTokens: func(next http.Handler) http.Handler {
			return ratelimiter.Middleware(tokenLimit, ratelimiter.ByIP, module.ErrorFunc())(next)
		},
		Cookie: tenant.CookieOptions{
			Name:   cfg.Tenant.CookieName,
			Domain: cfg.Tenant.RootDomain,
			Secure: cfg.Tenant.CookieSecure,
		},
		Logger: log,
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.RealIP, middleware.Recoverer, m.Middleware)
	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, 2*time.Second, probes))
	r.Handle("/metrics", m.Handler())
	r.Mount("/", module.Handle())

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// openStore connects the configured storage. The catalog is mirrored into
// it before any request is served.
func openStore(
	ctx context.Context,
	cfg appConfig,
	catalog *permission.Catalog,
	log *slog.Logger,
	probes map[string]httpserver.Probe,
) (store.Store, audit.Storage, func(), error) {
	switch cfg.StoreDriver {
	case driverMemory:
		log.WarnContext(ctx, "using in-memory store; data is lost on exit")
		st := memory.New()
		if err := st.SyncPermissions(ctx, catalog.Permissions()); err != nil {
			return nil, nil, nil, fmt.Errorf("sync permissions: %w", err)
		}
		return st, audit.NewMemoryStorage(), func() {}, nil

	case driverPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := preparePostgres(ctx, pool, pgCfg, catalog, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		probes["postgres"] = httpserver.Probe(pg.Healthcheck(pool))
		return postgres.New(pool), postgres.NewAuditStorage(pool), pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func preparePostgres(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, catalog *permission.Catalog, log *slog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, cfg, log); err != nil {
			return err
		}
	}
	if err := postgres.New(pool).SyncPermissions(ctx, catalog.Permissions()); err != nil {
		return fmt.Errorf("sync permissions: %w", err)
	}
	return nil
}

// openShared picks the backing for state shared between instances: slug
// lookups and rate limit buckets go to Redis when configured and stay in
// process otherwise.
func openShared(
	ctx context.Context,
	cfg appConfig,
	log *slog.Logger,
	probes map[string]httpserver.Probe,
) (tenantsvc.SlugCache, ratelimiter.Store, func(), error) {
	if !cfg.Redis.Enabled() {
		limits := ratelimiter.NewMemoryStore()
		return tenantsvc.NewLRUCache(cfg.Tenant.SlugCacheLen, cfg.Tenant.SlugCacheTTL), limits, limits.Close, nil
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	probes["redis"] = httpserver.Probe(redis.Healthcheck(client))
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("close redis", logger.Error(err))
		}
	}
	return tenantsvc.NewRedisCache(client, cfg.Name+":org_slug:", cfg.Tenant.SlugCacheTTL),
		ratelimiter.NewRedisStore(client, cfg.Name+":ratelimit:"),
		closeFn, nil
}

func newSender(cfg email.Config, log *slog.Logger) (email.Sender, error) {
	if !cfg.Enabled() {
		return email.NewLogSender(log.With(logger.Component("email"))), nil
	}
	sender, err := email.NewPostmarkSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("email sender: %w", err)
	}
	return sender, nil
}
