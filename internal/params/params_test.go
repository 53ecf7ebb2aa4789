package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(url.Values{})

	assert.Equal(t, 15, p.Limit)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePaginationOffset(t *testing.T) {
	q := url.Values{"page": {"3"}, "limit": {"20"}}
	p := ParsePagination(q)

	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 40, p.Offset)
}

func TestParsePaginationClampsLimit(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"500"}})
	assert.Equal(t, 50, p.Limit)

	p = ParsePagination(url.Values{"limit": {"-1"}})
	assert.Equal(t, 15, p.Limit)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	q := url.Values{"page": {"abc"}, "limit": {"xyz"}}
	p := ParsePagination(q)

	assert.Equal(t, 15, p.Limit)
	assert.Equal(t, 1, p.Page)
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2}
	p.ComputeMeta(35)

	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = Pagination{Limit: 10, Page: 4}
	p.ComputeMeta(35)
	assert.False(t, p.HasNext)
}

func TestParseSort(t *testing.T) {
	q := url.Values{"sort": {"helpful"}}
	assert.Equal(t, "helpful", ParseSort(q, "newest", "newest", "helpful"))

	q = url.Values{"sort": {"sneaky"}}
	assert.Equal(t, "newest", ParseSort(q, "newest", "newest", "helpful"))

	assert.Equal(t, "newest", ParseSort(url.Values{}, "newest", "newest", "helpful"))
}
