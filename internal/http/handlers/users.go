package handlers

import (
	"errors"

	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/upstream"
)

func (h *Handlers) HandleUsers(c *echo.Context) error {
	layout := h.LayoutData(c, "Operator Accounts")

	data := viewmodels.UsersViewData{Layout: layout}

	users, err := h.API.Users(c.Request().Context(), h.token(c))
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "users", data)
	}

	if len(users) == 0 {
		data.EmptyStateMsg = "No operator accounts found."
		return h.Render(c, "users", data)
	}

	for _, u := range users {
		data.Users = append(data.Users, viewmodels.UserRow{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		})
	}
	return h.Render(c, "users", data)
}
