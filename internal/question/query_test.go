package question

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseListQueryDefaults(t *testing.T) {
	q := ParseListQuery(url.Values{})

	assert.Equal(t, SortLatest, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, Filter{}, q.Filter)
}

func TestParseListQueryCoercesValues(t *testing.T) {
	q := ParseListQuery(url.Values{
		"company":    {"Google"},
		"topic":      {"System Design"},
		"role":       {"SWE"},
		"difficulty": {"Hard"},
		"sort":       {"upvotes"},
		"page":       {"3"},
		"limit":      {"25"},
		"fromDate":   {"2024-01-01"},
		"toDate":     {"2024-06-30T23:59:59Z"},
	})

	assert.Equal(t, "Google", q.Filter.Company)
	assert.Equal(t, "System Design", q.Filter.Topic)
	assert.Equal(t, "SWE", q.Filter.Role)
	assert.Equal(t, DifficultyHard, q.Filter.Difficulty)
	assert.Equal(t, SortUpvotes, q.Sort)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Filter.From)
	assert.Equal(t, time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), q.Filter.To)
}

func TestParseListQueryIgnoresMalformedValues(t *testing.T) {
	q := ParseListQuery(url.Values{
		"sort":     {"trending"},
		"page":     {"zero"},
		"limit":    {"-5"},
		"fromDate": {"soon"},
	})

	assert.Equal(t, SortLatest, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.True(t, q.Filter.From.IsZero())
}

func TestPages(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 7, 4},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Pages(tc.total, tc.limit), "total=%d limit=%d", tc.total, tc.limit)
	}
}
