// Package handlers contains HTTP handler logic split by domain.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/xva-ops/logdash/internal/config"
	"github.com/xva-ops/logdash/internal/http/authn"
	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/session"
	"github.com/xva-ops/logdash/internal/upstream"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// Platforms and Environments are the fixed scopes the upstream serves.
var (
	Platforms    = []string{"XVA", "DANONE"}
	Environments = []string{"dev", "staging", "prod"}
)

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg      config.Config
	Sessions *session.Manager
	API      *upstream.Client
	Renderer *views.Renderer
}

// Render executes a page template as the response.
func (h *Handlers) Render(c *echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, name, data); err != nil {
		return h.RenderError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// RenderError returns a plain text error response.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	path := ""
	if req := c.Request(); req != nil && req.URL != nil {
		path = req.URL.Path
	}
	method := ""
	if req := c.Request(); req != nil {
		method = req.Method
	}
	c.Logger().Error("http error",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", c.RealIP(),
		"error", err,
	)

	msg := "Internal server error."
	if requestID != "" {
		msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
	}
	msg = fmt.Sprintf("%s Code: %s.", msg, InternalErrorCode)
	return c.String(http.StatusInternalServerError, msg)
}

// HandleHealthz reports process liveness.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// RenderNotFound returns a 404 response.
func RenderNotFound(c *echo.Context) error {
	return c.String(http.StatusNotFound, "404 page not found")
}

// Scope returns the validated platform/env pair for the request, falling
// back to the configured defaults.
func (h *Handlers) Scope(c *echo.Context) (string, string) {
	platform := pickScopeValue(c, "platform", Platforms, h.Cfg.DefaultPlatform)
	env := pickScopeValue(c, "env", Environments, h.Cfg.DefaultEnv)
	return platform, env
}

func pickScopeValue(c *echo.Context, name string, allowed []string, def string) string {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		raw = strings.TrimSpace(c.FormValue(name))
	}
	for _, v := range allowed {
		if strings.EqualFold(raw, v) {
			return v
		}
	}
	return def
}

// LayoutData builds the common layout data for page rendering.
func (h *Handlers) LayoutData(c *echo.Context, title string) viewmodels.LayoutData {
	principal, _ := authn.PrincipalFromContext(c)
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	platform, env := h.Scope(c)

	return viewmodels.LayoutData{
		Title:      title,
		CSRFToken:  csrfToken,
		Username:   principal.User.Username,
		UserEmail:  principal.User.Email,
		UserRole:   principal.User.Role,
		IsAdmin:    principal.IsAdmin(),
		ActivePath: c.Request().URL.Path,
		Platform:   platform,
		Env:        env,
		Platforms:  Platforms,
		Envs:       Environments,
		Toast:      popFlashToast(c),
	}
}

// token returns the upstream bearer token for the signed-in request.
func (h *Handlers) token(c *echo.Context) string {
	principal, _ := authn.PrincipalFromContext(c)
	return principal.Token
}

// sessionExpired destroys the login and bounces the operator back to the
// login page. Used whenever the upstream rejects the stored token.
func (h *Handlers) sessionExpired(c *echo.Context) error {
	_ = h.Sessions.SignOut(c.Request().Context())
	setFlashToast(c, viewmodels.ToastViewData{
		Category:    "warning",
		Title:       "Session expired",
		Description: "Please sign in again.",
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}

// userFacingError turns a failed upstream call into a message safe to
// show inline on the page.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, upstream.ErrForbidden):
		return "You do not have permission to view this data."
	case errors.Is(err, upstream.ErrNotFound):
		return "The requested data was not found."
	case errors.Is(err, upstream.ErrRateLimited):
		return "The service is receiving too many requests. Please wait a moment and try again."
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return "The log service reported an internal error. Please try again later."
		}
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return "The log service rejected the request."
	}
	return "Could not reach the log service. Check your connection and try again."
}

// sendBlob proxies an upstream download to the operator.
func (h *Handlers) sendBlob(c *echo.Context, blob *upstream.Blob) error {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if blob.Filename != "" {
		c.Response().Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", blob.Filename))
	}
	return c.Blob(http.StatusOK, contentType, blob.Data)
}
