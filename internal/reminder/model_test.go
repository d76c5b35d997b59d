package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextExpiryDaily(t *testing.T) {
	expires := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	next, repeats := Reminder{Repeat: RepeatDaily, Expires: expires}.NextExpiry()
	require.True(t, repeats)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC), next)
}

func TestNextExpiryWeekly(t *testing.T) {
	expires := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	next, repeats := Reminder{Repeat: RepeatWeekly, Expires: expires}.NextExpiry()
	require.True(t, repeats)
	assert.Equal(t, time.Date(2026, 9, 5, 9, 30, 0, 0, time.UTC), next)
}

func TestNextExpiryCrossesMonthBoundary(t *testing.T) {
	expires := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	next, repeats := Reminder{Repeat: RepeatDaily, Expires: expires}.NextExpiry()
	require.True(t, repeats)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), next)
}

func TestNextExpiryOneShot(t *testing.T) {
	_, repeats := Reminder{Repeat: RepeatNone}.NextExpiry()
	assert.False(t, repeats)
	_, repeats = Reminder{}.NextExpiry()
	assert.False(t, repeats)
}

func TestValidFilter(t *testing.T) {
	for _, f := range []string{FilterDefault, FilterRelevance, FilterSalary, FilterDate, FilterAlphabetical, FilterDistance} {
		assert.True(t, ValidFilter(f), f)
	}
	assert.False(t, ValidFilter("newest"))
	assert.False(t, ValidFilter(""))
}
