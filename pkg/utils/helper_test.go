package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 20, ParseInt("0", 20))
	assert.Equal(t, 20, ParseInt("-3", 20))
}

func TestParseTimestamp(t *testing.T) {
	got, ok := ParseTimestamp("2026-03-10T12:30:00+02:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), got)

	got, ok = ParseTimestamp("2026-03-10T10:30:00.5Z")
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, time.Duration(got.Nanosecond()))

	_, ok = ParseTimestamp("2026-03-10")
	assert.False(t, ok)

	_, ok = ParseTimestamp("tomorrow")
	assert.False(t, ok)
}

func TestParseTime(t *testing.T) {
	got, ok := ParseTime("2026-03-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseTime("2026-03-10T08:00:00Z")
	assert.True(t, ok)

	_, ok = ParseTime("")
	assert.False(t, ok)

	_, ok = ParseTime("10/03/2026")
	assert.False(t, ok)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 0, CalculateTotalPages(10, 0))

	assert.Equal(t, 0, CalculateOffset(1, 20))
	assert.Equal(t, 40, CalculateOffset(3, 20))
	assert.Equal(t, 0, CalculateOffset(0, 20))

	assert.Equal(t, DefaultPerPage, ClampPerPage(0))
	assert.Equal(t, MaxPerPage, ClampPerPage(1000))
	assert.Equal(t, 50, ClampPerPage(50))
}
