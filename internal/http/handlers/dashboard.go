package handlers

import (
	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/http/views"
)

func (h *Handlers) HandleDashboard(c *echo.Context) error {
	layout := h.LayoutData(c, "Dashboard")
	scope := views.ScopeQuery{Platform: layout.Platform, Env: layout.Env}

	data := viewmodels.DashboardViewData{
		Layout: layout,
		Sections: []viewmodels.DashboardSection{
			{
				Title:       "UI Server Logs",
				Description: "Browse, search, and download application logs from the UI servers.",
				Href:        views.LogsListURL("ui", scope, "", "", "", 1),
			},
			{
				Title:       "API Server Logs",
				Description: "Browse, search, and download application logs from the API servers.",
				Href:        views.LogsListURL("api", scope, "", "", "", 1),
			},
			{
				Title:       "Database Backups",
				Description: "List and download database backup archives.",
				Href:        views.BackupsListURL(scope, ""),
			},
			{
				Title:       "Mail Activity",
				Description: "Review outbound email activity, delivery metrics, and resend messages.",
				Href:        views.MailListURL(scope, "", "", "", "", 0, 1),
			},
		},
	}
	return h.Render(c, "dashboard", data)
}
