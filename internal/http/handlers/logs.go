package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/highlight"
	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/metrics"
	"github.com/xva-ops/logdash/internal/upstream"
)

const logsPerPage = 50

var logTypeOptions = []viewmodels.SelectOption{
	{Value: "", Label: "All types"},
	{Value: "main", Label: "Main"},
	{Value: "background", Label: "Background"},
	{Value: "sso", Label: "SSO"},
	{Value: "stdout", Label: "Stdout"},
}

func logServerParam(c *echo.Context) (string, bool) {
	server := strings.ToLower(strings.TrimSpace(c.Param("server")))
	return server, server == "ui" || server == "api"
}

func logServerTitle(server string) string {
	if server == "ui" {
		return "UI Server Logs"
	}
	return "API Server Logs"
}

func normalizeLogType(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, opt := range logTypeOptions {
		if opt.Value != "" && strings.EqualFold(raw, opt.Value) {
			return opt.Value
		}
	}
	return ""
}

func (h *Handlers) logQuery(c *echo.Context, server string) upstream.LogQuery {
	platform, env := h.Scope(c)
	return upstream.LogQuery{
		Date:     parseDateParam(c.QueryParam("date"), today()),
		Server:   server,
		Env:      env,
		Platform: platform,
		LogType:  normalizeLogType(c.QueryParam("logType")),
	}
}

func (h *Handlers) HandleLogs(c *echo.Context) error {
	server, ok := logServerParam(c)
	if !ok {
		return RenderNotFound(c)
	}

	layout := h.LayoutData(c, logServerTitle(server))
	scope := views.ScopeQuery{Platform: layout.Platform, Env: layout.Env}
	q := h.logQuery(c, server)
	keyword := strings.TrimSpace(c.QueryParam("keyword"))

	data := viewmodels.LogsViewData{
		Layout:         layout,
		Server:         server,
		Date:           q.Date,
		LogType:        q.LogType,
		LogTypeOptions: logTypeOptions,
		Keyword:        keyword,
		DownloadAction: "/logs/" + server + "/download",
	}

	if keyword != "" {
		matches, err := h.API.SearchLogs(c.Request().Context(), h.token(c), q, keyword)
		if err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				return h.sessionExpired(c)
			}
			data.ErrorMessage = userFacingError(err)
			return h.Render(c, "logs", data)
		}
		if len(matches) == 0 {
			data.EmptyStateMsg = fmt.Sprintf("No matches for %q in the %s logs on %s.", keyword, server, q.Date)
			return h.Render(c, "logs", data)
		}
		for _, m := range matches {
			data.Matches = append(data.Matches, viewmodels.LogMatchRow{
				FileName: m.FileName,
				Server:   m.Server,
				Env:      m.Env,
				Snippet:  highlight.HTML(m.Content, keyword),
			})
		}
		return h.Render(c, "logs", data)
	}

	q.Page = parsePageParam(c)
	q.PageSize = logsPerPage

	list, err := h.API.ListLogs(c.Request().Context(), h.token(c), q)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "logs", data)
	}

	page, totalPages, offset := paginate(list.TotalCount, q.Page, logsPerPage)
	data.Page = page
	data.PerPage = logsPerPage
	data.TotalPages = totalPages
	data.TotalCount = list.TotalCount
	data.ShowingFrom, data.ShowingTo = showingRange(list.TotalCount, offset, len(list.Files))
	if page > 1 {
		data.PrevURL = views.LogsListURL(server, scope, q.Date, q.LogType, "", page-1)
	}
	if page < totalPages {
		data.NextURL = views.LogsListURL(server, scope, q.Date, q.LogType, "", page+1)
	}

	if len(list.Files) == 0 {
		data.EmptyStateMsg = fmt.Sprintf("No log files found for %s on %s.", server, q.Date)
		return h.Render(c, "logs", data)
	}

	for _, f := range list.Files {
		data.Files = append(data.Files, viewmodels.LogFileRow{
			Name:         f.Name,
			Date:         f.Date,
			LogType:      f.LogType,
			SizeLabel:    views.FormatBytes(f.Size),
			LastModified: f.LastModified,
		})
	}
	return h.Render(c, "logs", data)
}

func (h *Handlers) HandleLogContent(c *echo.Context) error {
	server, ok := logServerParam(c)
	if !ok {
		return RenderNotFound(c)
	}

	layout := h.LayoutData(c, logServerTitle(server))
	scope := views.ScopeQuery{Platform: layout.Platform, Env: layout.Env}
	q := h.logQuery(c, server)
	file := strings.TrimSpace(c.QueryParam("file"))
	keyword := strings.TrimSpace(c.QueryParam("q"))

	data := viewmodels.LogContentViewData{
		Layout:  layout,
		Server:  server,
		Date:    q.Date,
		File:    file,
		Keyword: keyword,
		BackURL: views.LogsListURL(server, scope, q.Date, q.LogType, "", 1),
	}
	if file == "" {
		return RenderNotFound(c)
	}

	content, err := h.API.LogContent(c.Request().Context(), h.token(c), q, file)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "log_content", data)
	}

	data.Content = highlight.HTML(content, keyword)
	return h.Render(c, "log_content", data)
}

func (h *Handlers) HandleLogsDownload(c *echo.Context) error {
	server, ok := logServerParam(c)
	if !ok {
		return RenderNotFound(c)
	}

	q := h.logQuery(c, server)
	q.Date = parseDateParam(c.FormValue("date"), today())
	q.LogType = normalizeLogType(c.FormValue("logType"))

	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	files := cleanFileSelection(c.Request().PostForm["files"])
	if len(files) == 0 {
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "warning",
			Title:       "Nothing selected",
			Description: "Select at least one file to download.",
		})
		platform, env := h.Scope(c)
		back := views.LogsListURL(server, views.ScopeQuery{Platform: platform, Env: env}, q.Date, q.LogType, "", 1)
		return c.Redirect(http.StatusSeeOther, back)
	}

	blob, err := h.API.DownloadLogs(c.Request().Context(), h.token(c), q, files)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "error",
			Title:       "Download failed",
			Description: userFacingError(err),
		})
		platform, env := h.Scope(c)
		back := views.LogsListURL(server, views.ScopeQuery{Platform: platform, Env: env}, q.Date, q.LogType, "", 1)
		return c.Redirect(http.StatusSeeOther, back)
	}

	metrics.DownloadBytesTotal.WithLabelValues("logs").Add(float64(len(blob.Data)))
	return h.sendBlob(c, blob)
}

func cleanFileSelection(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
