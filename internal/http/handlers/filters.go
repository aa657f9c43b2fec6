package handlers

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseDateParam validates a YYYY-MM-DD filter value, falling back to
// def when absent or malformed.
func parseDateParam(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return def
	}
	return raw
}

// validateDateRange rejects an inverted from/to pair before any upstream
// request is made.
func validateDateRange(from, to string) string {
	if from == "" || to == "" {
		return ""
	}
	fromT, err := time.Parse(dateLayout, from)
	if err != nil {
		return ""
	}
	toT, err := time.Parse(dateLayout, to)
	if err != nil {
		return ""
	}
	if fromT.After(toT) {
		return "The start date must not be after the end date."
	}
	return ""
}

func today() string {
	return time.Now().UTC().Format(dateLayout)
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(dateLayout)
}
