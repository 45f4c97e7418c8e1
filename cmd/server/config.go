package main

import (
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/email"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// appConfig is everything main reads from the environment. pg.Config is
// loaded separately because it is only required for the postgres driver.
type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Name      string `env:"APP_NAME" envDefault:"tenantkit"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// StoreDriver selects postgres or the in-process memory store.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	Auth       authConfig
	Tenant     tenantConfig
	Invitation invitationConfig

	HTTP      httpserver.Config
	Email     email.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config
}

type authConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"tenantkit"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"1h"`
}

type tenantConfig struct {
	RootDomain   string        `env:"TENANT_ROOT_DOMAIN"`
	IDHeader     string        `env:"TENANT_ID_HEADER" envDefault:"X-Organization-ID"`
	SlugHeader   string        `env:"TENANT_SLUG_HEADER" envDefault:"X-Organization-Slug"`
	CookieName   string        `env:"TENANT_COOKIE_NAME" envDefault:"org_id"`
	CookieSecure bool          `env:"TENANT_COOKIE_SECURE" envDefault:"true"`
	SlugCacheTTL time.Duration `env:"TENANT_SLUG_CACHE_TTL" envDefault:"5m"`
	SlugCacheLen int           `env:"TENANT_SLUG_CACHE_SIZE" envDefault:"1024"`
}

type invitationConfig struct {
	BaseURL        string `env:"INVITE_BASE_URL" envDefault:"http://localhost:8080"`
	DefaultTTLDays int    `env:"INVITE_DEFAULT_TTL_DAYS" envDefault:"7"`
}
