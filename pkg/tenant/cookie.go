package tenant

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieOptions control the last-selected-org cookie.
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// SetCookie remembers orgID as the caller's last selected organization.
func SetCookie(w http.ResponseWriter, opts CookieOptions, orgID uuid.UUID) {
	name := opts.Name
	if name == "" {
		name = DefaultCookieName
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    orgID.String(),
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the last-selected-org cookie.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	name := opts.Name
	if name == "" {
		name = DefaultCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
