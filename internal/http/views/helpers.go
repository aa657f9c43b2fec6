package views

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ScopeQuery carries the platform/env scope every data URL preserves.
type ScopeQuery struct {
	Platform string
	Env      string
}

func (s ScopeQuery) apply(values url.Values) {
	if p := strings.TrimSpace(s.Platform); p != "" {
		values.Set("platform", p)
	}
	if e := strings.TrimSpace(s.Env); e != "" {
		values.Set("env", e)
	}
}

// LogsListURL builds the log browser URL for one filter state.
func LogsListURL(server string, scope ScopeQuery, date, logType, keyword string, page int) string {
	values := url.Values{}
	scope.apply(values)
	if date = strings.TrimSpace(date); date != "" {
		values.Set("date", date)
	}
	if logType = strings.TrimSpace(logType); logType != "" {
		values.Set("logType", logType)
	}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		values.Set("keyword", keyword)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	base := "/logs/" + url.PathEscape(server)
	if len(values) == 0 {
		return base
	}
	return base + "?" + values.Encode()
}

// LogContentURL builds the single-file content view URL.
func LogContentURL(server string, scope ScopeQuery, date, file, keyword string) string {
	values := url.Values{}
	scope.apply(values)
	values.Set("date", date)
	values.Set("file", file)
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		values.Set("q", keyword)
	}
	return "/logs/" + url.PathEscape(server) + "/view?" + values.Encode()
}

// BackupsListURL builds the backup browser URL.
func BackupsListURL(scope ScopeQuery, date string) string {
	values := url.Values{}
	scope.apply(values)
	if date = strings.TrimSpace(date); date != "" {
		values.Set("date", date)
	}
	if len(values) == 0 {
		return "/backups"
	}
	return "/backups?" + values.Encode()
}

// MailListURL builds the mail activity URL for one filter state.
func MailListURL(scope ScopeQuery, status, dateFrom, dateTo, keyword string, limit, page int) string {
	values := url.Values{}
	scope.apply(values)
	if status = strings.TrimSpace(status); status != "" {
		values.Set("status", status)
	}
	if dateFrom = strings.TrimSpace(dateFrom); dateFrom != "" {
		values.Set("from", dateFrom)
	}
	if dateTo = strings.TrimSpace(dateTo); dateTo != "" {
		values.Set("to", dateTo)
	}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		values.Set("q", keyword)
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if len(values) == 0 {
		return "/mail"
	}
	return "/mail?" + values.Encode()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatUnixTime renders a unix timestamp the way the activity feed shows
// it, e.g. "May 2, 2025 9:12 am".
func FormatUnixTime(ts int64) string {
	if ts <= 0 {
		return ""
	}
	t := time.Unix(ts, 0).UTC()
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%s %d, %d %d:%02d %s",
		t.Month().String(), t.Day(), t.Year(), hour, t.Minute(), meridiem)
}
