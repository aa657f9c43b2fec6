package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/config"
	"github.com/xva-ops/logdash/internal/http/authn"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/session"
	"github.com/xva-ops/logdash/internal/upstream"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func newTestContext(t *testing.T, method, target string, body io.Reader) (*echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestHandlers(t *testing.T, rt roundTripperFunc) *Handlers {
	t.Helper()

	renderer, err := views.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	api, err := upstream.New("https://upstream.test", time.Second)
	if err != nil {
		t.Fatalf("upstream.New() error = %v", err)
	}
	api.HTTP.Transport = rt

	return &Handlers{
		Cfg:      config.Config{DefaultPlatform: "XVA", DefaultEnv: "dev"},
		Sessions: &session.Manager{SessionManager: scs.New()},
		API:      api,
		Renderer: renderer,
	}
}

// signIn loads a live session context into the request and stashes a
// principal the way RequireAuth does.
func signIn(t *testing.T, h *Handlers, c *echo.Context) {
	t.Helper()

	sessionCtx, err := h.Sessions.Load(c.Request().Context(), "")
	if err != nil {
		t.Fatalf("sessions.Load() error = %v", err)
	}
	c.SetRequest(c.Request().WithContext(sessionCtx))
	c.Set(authn.ContextKeyPrincipal, authn.Principal{
		User:  session.User{ID: 1, Username: "ops", Email: "ops@example.com", Role: "admin"},
		Token: "tok-1",
	})
}

// failingTransport fails the test if any upstream request is attempted.
func failingTransport(t *testing.T) roundTripperFunc {
	return func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected upstream request: %s %s", req.Method, req.URL)
		return nil, nil
	}
}
