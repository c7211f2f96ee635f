package remuneration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	start, end, err := ParseMonth("2026-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), end)

	_, _, err = ParseMonth("April 2026")
	assert.ErrorIs(t, err, ErrBadMonth)
}

func TestEffectiveWindow(t *testing.T) {
	monthStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	t.Run("no joining date uses full month", func(t *testing.T) {
		from, to, ok := EffectiveWindow(monthStart, monthEnd, nil)
		require.True(t, ok)
		assert.Equal(t, monthStart, from)
		assert.Equal(t, monthEnd, to)
	})

	t.Run("mid-month joiner clipped", func(t *testing.T) {
		joined := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
		from, _, ok := EffectiveWindow(monthStart, monthEnd, &joined)
		require.True(t, ok)
		assert.Equal(t, joined, from)
	})

	t.Run("joined after month has no window", func(t *testing.T) {
		joined := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		_, _, ok := EffectiveWindow(monthStart, monthEnd, &joined)
		assert.False(t, ok)
	})
}

func TestCountWeekends(t *testing.T) {
	// April 2026 has four full weekends plus Sat the 4th week pattern:
	// Saturdays 4, 11, 18, 25 and Sundays 5, 12, 19, 26.
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8, CountWeekends(from, to))
}

func TestCountWeekdayHolidays(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	holidays := []time.Time{
		time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), // Tuesday, counts
		time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC), // Saturday, already a weekend
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),  // outside window
	}
	assert.Equal(t, 1, CountWeekdayHolidays(from, to, holidays))
}

func TestPayoutPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{85, 100},
		{80, 90}, // exactly 80 is not "above 80"
		{60, 90},
		{55, 80},
		{45, 50},
		{35, 40},
		{25, 30},
		{0, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PayoutPercent(tt.score), "score %v", tt.score)
	}
}

func TestTotalScore(t *testing.T) {
	r := Ratings{Discipline: 18, WorkQuality: 16, Initiative: 15, Collaboration: 17}
	assert.Equal(t, 80.5, TotalScore(r, 14.5))
}

func TestProRate(t *testing.T) {
	assert.Equal(t, 45000.0, ProRate(45000, 30, 30))
	assert.Equal(t, 30000.0, ProRate(45000, 20, 30))
	assert.Equal(t, 0.0, ProRate(45000, 10, 0))
}
