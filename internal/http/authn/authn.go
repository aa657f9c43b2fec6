// Package authn gates the dashboard routes behind the upstream-backed
// login session.
package authn

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/session"
)

const (
	// ContextKeyPrincipal stores the signed-in principal on the echo context.
	ContextKeyPrincipal = "auth_principal"

	// ContextKeyToken stores the upstream bearer token for the request.
	ContextKeyToken = "auth_token"
)

// Principal is the signed-in operator as seen by handlers.
type Principal struct {
	User  session.User
	Token string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.User.IsAdmin()
}

// PrincipalFromContext returns the principal set by RequireAuth.
func PrincipalFromContext(c *echo.Context) (Principal, bool) {
	p, ok := c.Get(ContextKeyPrincipal).(Principal)
	return p, ok
}

// RequireAuth redirects anonymous requests to the login page and stashes
// the principal for authenticated ones.
func RequireAuth(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			token, user, ok := sessions.Current(c.Request().Context())
			if !ok {
				return handleUnauth(c)
			}
			c.Set(ContextKeyPrincipal, Principal{User: user, Token: token})
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin principals. It must run inside RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			p, ok := PrincipalFromContext(c)
			if !ok {
				return handleUnauth(c)
			}
			if !p.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
			}
			return next(c)
		}
	}
}

func handleUnauth(c *echo.Context) error {
	location := "/login"
	if c.Request().Method == http.MethodGet {
		if next := SanitizeNext(c.Request().URL.RequestURI()); next != "" {
			location = "/login?next=" + url.QueryEscape(next)
		}
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// SanitizeNext validates a post-login redirect target. Anything that is
// not a plain site-relative path comes back empty.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || next == "/" || len(next) > 2048 {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.Contains(next, "\\") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return ""
	}
	if strings.HasPrefix(u.Path, "//") || strings.Contains(u.Path, "\\") {
		return ""
	}
	if u.Path == "/login" || strings.HasPrefix(u.Path, "/login/") {
		return ""
	}
	return next
}
