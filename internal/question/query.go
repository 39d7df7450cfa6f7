package question

import (
	"net/url"
	"strconv"
	"time"
)

// Listing defaults applied when a parameter is absent.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseListQuery translates raw query-string values into a typed ListQuery.
// It only coerces types and fills defaults; semantic validation of the values
// happens at the request-validation boundary before the core is invoked.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Filter: Filter{
			Company:    values.Get("company"),
			Topic:      values.Get("topic"),
			Role:       values.Get("role"),
			Difficulty: values.Get("difficulty"),
			From:       parseDate(values.Get("fromDate")),
			To:         parseDate(values.Get("toDate")),
		},
		Sort:  SortLatest,
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	switch values.Get("sort") {
	case SortOldest:
		q.Sort = SortOldest
	case SortUpvotes:
		q.Sort = SortUpvotes
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Pages computes the page count for a result set: ceil(total/limit).
func Pages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
