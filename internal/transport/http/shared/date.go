package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// MonthQuery resolves the month=YYYY-MM parameter to [first day, last day] of
// that month, defaulting to the month containing now.
func MonthQuery(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	var start time.Time
	if raw == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	return start, start.AddDate(0, 1, -1), nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageQuery turns page= and limit= parameters into a LIMIT/OFFSET pair.
// Out-of-range values fall back to the defaults rather than erroring.
func PageQuery(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}

// ClientIP prefers the first X-Forwarded-For hop over the raw remote address.
func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	return host
}
