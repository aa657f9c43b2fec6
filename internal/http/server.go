// Package httpapp wires the echo server: middleware, routes, and the
// error handler that keeps internals out of responses.
package httpapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/xva-ops/logdash/internal/config"
	"github.com/xva-ops/logdash/internal/http/authn"
	"github.com/xva-ops/logdash/internal/http/handlers"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/metrics"
	"github.com/xva-ops/logdash/internal/session"
	"github.com/xva-ops/logdash/internal/upstream"
)

const readHeaderTimeout = 10 * time.Second

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h   *handlers.Handlers
	e   *echo.Echo
	srv *http.Server
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, sessions *session.Manager, api *upstream.Client, logger *slog.Logger) (*EchoServer, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	h := &handlers.Handlers{Cfg: cfg, Sessions: sessions, API: api, Renderer: renderer}
	e := echo.New()
	if logger != nil {
		e.Logger = logger
	}

	es := &EchoServer{
		h:   h,
		e:   e,
		srv: &http.Server{Handler: e, ReadHeaderTimeout: readHeaderTimeout},
	}
	e.HTTPErrorHandler = es.httpErrorHandler
	es.registerMiddleware(sessions)
	es.registerRoutes(sessions)
	return es, nil
}

func (es *EchoServer) registerMiddleware(sessions *session.Manager) {
	es.e.Use(requestIDMiddleware())
	es.e.Use(observeMiddleware())
	es.e.Use(echo.WrapMiddleware(sessions.LoadAndSave))
}

func (es *EchoServer) registerRoutes(sessions *session.Manager) {
	es.e.GET("/healthz", es.h.HandleHealthz)
	es.e.Static("/static", "web/static")

	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken + ",form:csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})

	es.e.GET("/login", es.h.HandleLoginGet, csrf)
	es.e.POST("/login", es.h.HandleLoginPost, csrf)

	authed := es.e.Group("", csrf, authn.RequireAuth(sessions))
	authed.GET("/", es.h.HandleDashboard)
	authed.POST("/logout", es.h.HandleLogoutPost)
	authed.GET("/logs/:server", es.h.HandleLogs)
	authed.GET("/logs/:server/view", es.h.HandleLogContent)
	authed.POST("/logs/:server/download", es.h.HandleLogsDownload)
	authed.GET("/backups", es.h.HandleBackups)
	authed.POST("/backups/download", es.h.HandleBackupDownload)
	authed.GET("/mail", es.h.HandleMail)
	authed.POST("/mail/export", es.h.HandleMailExport)
	authed.GET("/mail/:id", es.h.HandleMailContent)
	authed.POST("/mail/:id/resend", es.h.HandleMailResend)
	authed.GET("/users", es.h.HandleUsers, authn.RequireAdmin())
}

func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(echo.HeaderXRequestID))
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			c.Set(handlers.ContextKeyRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

func observeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := 0
			committed := false
			if res, _ := echo.UnwrapResponse(c.Response()); res != nil {
				status = res.Status
				committed = res.Committed
			}
			if err != nil && !committed {
				status = httpStatusFromError(err)
			}
			metrics.ObserveHTTPRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	if res, _ := echo.UnwrapResponse(c.Response()); res != nil && res.Committed {
		return
	}

	status := httpStatusFromError(err)
	switch {
	case status == http.StatusNotFound:
		_ = handlers.RenderNotFound(c)
	case status >= http.StatusInternalServerError:
		_ = es.h.RenderError(c, err)
	default:
		_ = c.String(status, http.StatusText(status))
	}
}

func httpStatusFromError(err error) int {
	var sc echo.HTTPStatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code != 0 {
			return code
		}
	}
	return http.StatusInternalServerError
}

// Start starts the HTTP server and blocks until it stops.
func (es *EchoServer) Start(addr string) error {
	es.srv.Addr = addr
	return es.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	return es.srv.Shutdown(ctx)
}
