package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/metrics"
	"github.com/xva-ops/logdash/internal/upstream"
)

func (h *Handlers) HandleBackups(c *echo.Context) error {
	layout := h.LayoutData(c, "Database Backups")
	date := parseDateParam(c.QueryParam("date"), today())

	data := viewmodels.BackupsViewData{
		Layout:         layout,
		Date:           date,
		DownloadAction: "/backups/download",
	}

	files, err := h.API.ListBackups(c.Request().Context(), h.token(c), layout.Env, layout.Platform, date)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "backups", data)
	}

	if len(files) == 0 {
		data.EmptyStateMsg = fmt.Sprintf("No backup files found for %s/%s on %s.", layout.Platform, layout.Env, date)
		return h.Render(c, "backups", data)
	}

	for _, f := range files {
		data.Files = append(data.Files, viewmodels.BackupRow{
			FileName:     f.FileName,
			Date:         f.Date,
			SizeLabel:    views.FormatBytes(f.Size),
			LastModified: f.LastModified,
		})
	}
	return h.Render(c, "backups", data)
}

func (h *Handlers) HandleBackupDownload(c *echo.Context) error {
	platform, env := h.Scope(c)
	date := parseDateParam(c.FormValue("date"), today())
	file := strings.TrimSpace(c.FormValue("file"))

	back := views.BackupsListURL(views.ScopeQuery{Platform: platform, Env: env}, date)
	if file == "" {
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "warning",
			Title:       "Nothing selected",
			Description: "Select a backup file to download.",
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	blob, err := h.API.DownloadBackup(c.Request().Context(), h.token(c), env, platform, date, file)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "error",
			Title:       "Download failed",
			Description: userFacingError(err),
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	metrics.DownloadBytesTotal.WithLabelValues("backups").Add(float64(len(blob.Data)))
	return h.sendBlob(c, blob)
}
