package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/xva-ops/logdash/internal/http/authn"
	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/session"
	"github.com/xva-ops/logdash/internal/upstream"
)

func (h *Handlers) HandleLoginGet(c *echo.Context) error {
	if _, _, ok := h.Sessions.Current(c.Request().Context()); ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	data := viewmodels.LoginViewData{
		CSRFToken: csrfToken,
		Next:      authn.SanitizeNext(c.QueryParam("next")),
		Toast:     popFlashToast(c),
	}
	return h.Render(c, "login", data)
}

func (h *Handlers) HandleLoginPost(c *echo.Context) error {
	ctx := c.Request().Context()

	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	next := authn.SanitizeNext(c.FormValue("next"))

	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	data := viewmodels.LoginViewData{
		CSRFToken: csrfToken,
		Email:     email,
		Next:      next,
	}

	if email == "" || strings.TrimSpace(password) == "" {
		data.ErrorMessage = "Invalid email or password."
		return h.Render(c, "login", data)
	}

	result, err := h.API.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, upstream.ErrInvalidCredentials) {
			data.ErrorMessage = "Invalid email or password."
			return h.Render(c, "login", data)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "login", data)
	}

	user := session.User{
		ID:             result.User.ID,
		Username:       result.User.Username,
		Email:          result.User.Email,
		Role:           result.User.Role,
		ProfilePicture: result.User.ProfilePicture,
	}
	if err := h.Sessions.SignIn(ctx, result.Token, user); err != nil {
		return err
	}

	if next != "" {
		return c.Redirect(http.StatusSeeOther, next)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) HandleLogoutPost(c *echo.Context) error {
	if err := h.Sessions.SignOut(c.Request().Context()); err != nil {
		return err
	}
	setFlashToast(c, viewmodels.ToastViewData{
		Category: "success",
		Title:    "Signed out",
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}
