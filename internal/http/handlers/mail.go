package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/xva-ops/logdash/internal/highlight"
	"github.com/xva-ops/logdash/internal/http/viewmodels"
	"github.com/xva-ops/logdash/internal/http/views"
	"github.com/xva-ops/logdash/internal/metrics"
	"github.com/xva-ops/logdash/internal/upstream"
)

const (
	mailDefaultLimit   = 100
	mailDefaultDayspan = 7
)

var mailLimitOptions = []int{25, 50, 100, 250, 500}

var mailStatusOptions = []viewmodels.SelectOption{
	{Value: "", Label: "All statuses"},
	{Value: "delivered", Label: "Delivered"},
	{Value: "rejected", Label: "Rejected"},
	{Value: "bounced", Label: "Bounced"},
}

// mailStatusBuckets maps the UI status filter onto the provider states it
// covers. An absent key means no state filter.
var mailStatusBuckets = map[string][]string{
	"delivered": {"sent"},
	"rejected":  {"rejected"},
	"bounced":   {"bounced", "soft-bounced"},
}

// mailStateDisplay maps a provider-reported state to its label and badge
// class. The provider says "sent" for successfully handed-off mail; the
// dashboard shows that as delivered.
func mailStateDisplay(state string) (string, string) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "sent":
		return "Delivered", "status-ok"
	case "rejected":
		return "Rejected", "status-error"
	case "bounced":
		return "Bounced", "status-error"
	case "soft-bounced":
		return "Soft bounced", "status-warning"
	case "spam":
		return "Spam", "status-error"
	case "queued":
		return "Queued", "status-info"
	case "deferred":
		return "Deferred", "status-warning"
	default:
		if state == "" {
			return "Unknown", "status-info"
		}
		return strings.ToUpper(state[:1]) + state[1:], "status-info"
	}
}

func normalizeMailStatus(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if _, ok := mailStatusBuckets[raw]; ok {
		return raw
	}
	return ""
}

func parseMailLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return mailDefaultLimit
	}
	for _, opt := range mailLimitOptions {
		if n == opt {
			return n
		}
	}
	return mailDefaultLimit
}

// mailFilters reads the shared filter set from either the query string or
// the posted form.
func (h *Handlers) mailFilters(get func(string) string) upstream.MailQuery {
	status := normalizeMailStatus(get("status"))
	return upstream.MailQuery{
		Statuses: mailStatusBuckets[status],
		DateFrom: parseDateParam(get("from"), daysAgo(mailDefaultDayspan)),
		DateTo:   parseDateParam(get("to"), today()),
		Keyword:  strings.TrimSpace(get("q")),
		Limit:    parseMailLimit(get("limit")),
	}
}

func (h *Handlers) HandleMail(c *echo.Context) error {
	layout := h.LayoutData(c, "Mail Activity")
	scope := views.ScopeQuery{Platform: layout.Platform, Env: layout.Env}

	status := normalizeMailStatus(c.QueryParam("status"))
	q := h.mailFilters(c.QueryParam)
	q.Page = parsePageParam(c)

	data := viewmodels.MailViewData{
		Layout:        layout,
		DateFrom:      q.DateFrom,
		DateTo:        q.DateTo,
		Status:        status,
		StatusOptions: mailStatusOptions,
		Keyword:       q.Keyword,
		Limit:         q.Limit,
		LimitOptions:  mailLimitOptions,
		ExportAction:  "/mail/export",
	}

	if msg := validateDateRange(q.DateFrom, q.DateTo); msg != "" {
		data.ValidationError = msg
		return h.Render(c, "mail", data)
	}

	page, err := h.API.MailActivity(c.Request().Context(), h.token(c), q)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		data.ErrorMessage = userFacingError(err)
		return h.Render(c, "mail", data)
	}

	data.Quota = &viewmodels.MailQuotaView{
		MonthlyLimit:    page.Quota.MonthlyLimit,
		EmailsSent:      page.Quota.EmailsSent,
		EmailsRemaining: page.Quota.EmailsRemaining,
		PercentageUsed:  fmt.Sprintf("%.1f%%", page.Quota.PercentageUsed),
		ResetDate:       page.Quota.ResetDate,
	}
	data.Metrics = &viewmodels.MailMetricsView{
		Sent:           page.Metrics.Sent,
		Delivered:      page.Metrics.Delivered,
		Rejected:       page.Metrics.Rejected,
		Deliverability: fmt.Sprintf("%.1f%%", page.Metrics.Deliverability),
	}

	curPage, totalPages, offset := paginate(page.TotalCount, q.Page, q.Limit)
	data.Page = curPage
	data.TotalPages = totalPages
	data.TotalCount = page.TotalCount
	data.ShowingFrom, data.ShowingTo = showingRange(page.TotalCount, offset, len(page.Messages))
	if curPage > 1 {
		data.PrevURL = views.MailListURL(scope, status, q.DateFrom, q.DateTo, q.Keyword, q.Limit, curPage-1)
	}
	if curPage < totalPages {
		data.NextURL = views.MailListURL(scope, status, q.DateFrom, q.DateTo, q.Keyword, q.Limit, curPage+1)
	}

	if len(page.Messages) == 0 {
		data.EmptyStateMsg = fmt.Sprintf("No email activity between %s and %s.", q.DateFrom, q.DateTo)
		return h.Render(c, "mail", data)
	}

	for _, m := range page.Messages {
		statusText, statusClass := mailStateDisplay(m.State)
		data.Messages = append(data.Messages, viewmodels.MailRow{
			ID:          m.ID,
			Email:       m.Email,
			Sender:      m.Sender,
			Subject:     highlight.HTML(m.Subject, q.Keyword),
			StatusText:  statusText,
			StatusClass: statusClass,
			DateLabel:   views.FormatUnixTime(m.TS),
			Opens:       m.Opens,
			Clicks:      m.Clicks,
			CanResend:   true,
		})
	}
	return h.Render(c, "mail", data)
}

func (h *Handlers) HandleMailExport(c *echo.Context) error {
	q := h.mailFilters(c.FormValue)
	q.FetchContent = true

	platform, env := h.Scope(c)
	status := normalizeMailStatus(c.FormValue("status"))
	back := views.MailListURL(views.ScopeQuery{Platform: platform, Env: env}, status, q.DateFrom, q.DateTo, q.Keyword, q.Limit, 1)

	if msg := validateDateRange(q.DateFrom, q.DateTo); msg != "" {
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "warning",
			Title:       "Invalid date range",
			Description: msg,
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	blob, err := h.API.ExportMail(c.Request().Context(), h.token(c), q)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "error",
			Title:       "Export failed",
			Description: userFacingError(err),
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	metrics.DownloadBytesTotal.WithLabelValues("mail").Add(float64(len(blob.Data)))
	return h.sendBlob(c, blob)
}

func (h *Handlers) HandleMailContent(c *echo.Context) error {
	layout := h.LayoutData(c, "Email Content")
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return RenderNotFound(c)
	}

	data := viewmodels.MailContentViewData{Layout: layout}

	content, err := h.API.MailContentByID(c.Request().Context(), h.token(c), id)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		if errors.Is(err, upstream.ErrNotFound) {
			data.ErrorMessage = "This message is no longer available."
		} else {
			data.ErrorMessage = userFacingError(err)
		}
		return h.Render(c, "mail_content", data)
	}

	data.Subject = content.Subject
	data.FromLabel = formatMailAddress(content.FromName, content.FromEmail)
	data.ToLabel = formatRecipients(content.To)
	data.Content = highlight.SanitizeHTML(content.Content)
	return h.Render(c, "mail_content", data)
}

func (h *Handlers) HandleMailResend(c *echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return RenderNotFound(c)
	}

	platform, env := h.Scope(c)
	back := views.MailListURL(views.ScopeQuery{Platform: platform, Env: env}, "", "", "", "", 0, 1)

	if c.FormValue("confirm") != "1" {
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "warning",
			Title:       "Confirmation required",
			Description: "Resending an email requires explicit confirmation.",
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	result, err := h.API.ResendMail(c.Request().Context(), h.token(c), id)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessionExpired(c)
		}
		setFlashToast(c, viewmodels.ToastViewData{
			Category:    "error",
			Title:       "Resend failed",
			Description: resendFailureMessage(err),
		})
		return c.Redirect(http.StatusSeeOther, back)
	}

	setFlashToast(c, viewmodels.ToastViewData{
		Category:    "success",
		Title:       "Email resent",
		Description: fmt.Sprintf("New message ID: %s", result.NewMessageID),
	})
	return c.Redirect(http.StatusSeeOther, back)
}

// resendFailureMessage maps resend failures onto the operator-facing
// explanations, which are more specific than the generic fetch errors.
func resendFailureMessage(err error) string {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return "The original message could not be found. It may have expired from the provider's retention window."
	case errors.Is(err, upstream.ErrForbidden):
		return "You do not have permission to resend emails."
	case errors.Is(err, upstream.ErrRateLimited):
		return "The provider is rate limiting resends. Please wait a moment and try again."
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 500 {
		return "The email provider reported an internal error. The message was not resent."
	}
	return userFacingError(err)
}

func formatMailAddress(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return email
	}
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

func formatRecipients(to []upstream.MailRecipient) string {
	parts := make([]string, 0, len(to))
	for _, r := range to {
		if label := formatMailAddress(r.Name, r.Email); label != "" {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, ", ")
}
