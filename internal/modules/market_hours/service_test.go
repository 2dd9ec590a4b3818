package market_hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNSEService(t *testing.T) (*MarketHoursService, *time.Location) {
	t.Helper()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return NewMarketHoursService(NSEConfig(ist)), ist
}

func TestIsMarketOpen_RegularHours(t *testing.T) {
	service, ist := newNSEService(t)

	tests := []struct {
		name     string
		datetime time.Time
		expected bool
	}{
		{
			name:     "Before open",
			datetime: time.Date(2024, 1, 16, 9, 13, 59, 0, ist), // Tuesday
			expected: false,
		},
		{
			name:     "Exactly at open",
			datetime: time.Date(2024, 1, 16, 9, 14, 0, 0, ist),
			expected: true,
		},
		{
			name:     "Midday",
			datetime: time.Date(2024, 1, 16, 12, 30, 0, 0, ist),
			expected: true,
		},
		{
			name:     "One second before close",
			datetime: time.Date(2024, 1, 16, 15, 13, 59, 0, ist),
			expected: true,
		},
		{
			name:     "Exactly at close",
			datetime: time.Date(2024, 1, 16, 15, 14, 0, 0, ist),
			expected: false,
		},
		{
			name:     "Evening",
			datetime: time.Date(2024, 1, 16, 20, 0, 0, 0, ist),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.IsMarketOpen(tt.datetime))
		})
	}
}

func TestIsMarketOpen_Weekend(t *testing.T) {
	service, ist := newNSEService(t)

	// Every minute of a Saturday and a Sunday must be closed
	for _, day := range []int{13, 14} {
		start := time.Date(2024, 1, day, 0, 0, 0, 0, ist)
		for m := 0; m < 24*60; m += 7 {
			ts := start.Add(time.Duration(m) * time.Minute)
			assert.False(t, service.IsMarketOpen(ts), "weekend time %v", ts)
		}
	}
}

func TestIsMarketOpen_WeekdaySweep(t *testing.T) {
	service, ist := newNSEService(t)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, ist) // Monday
	for d := 0; d < 5; d++ {
		for m := 0; m < 24*60; m++ {
			ts := start.AddDate(0, 0, d).Add(time.Duration(m) * time.Minute)
			minuteOfDay := ts.Hour()*60 + ts.Minute()
			expected := minuteOfDay >= 9*60+14 && minuteOfDay < 15*60+14
			require.Equal(t, expected, service.IsMarketOpen(ts), "weekday time %v", ts)
		}
	}
}

func TestIsMarketOpen_IgnoresHostTimezone(t *testing.T) {
	service, _ := newNSEService(t)

	// 04:00 UTC is 09:30 IST
	utc := time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC)
	assert.True(t, service.IsMarketOpen(utc))

	// Friday 20:00 in New York is already Saturday in India
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	fridayNY := time.Date(2024, 1, 19, 20, 0, 0, 0, ny)
	assert.False(t, service.IsMarketOpen(fridayNY))
}

func TestGetMarketStatus(t *testing.T) {
	service, ist := newNSEService(t)

	t.Run("open", func(t *testing.T) {
		status := service.GetMarketStatus(time.Date(2024, 1, 16, 10, 0, 0, 0, ist))
		assert.True(t, status.Open)
		assert.Equal(t, "XNSE", status.Exchange)
		assert.Equal(t, "Asia/Kolkata", status.Timezone)
		assert.Equal(t, "15:14", status.ClosesAt)
		assert.Empty(t, status.OpensAt)
	})

	t.Run("before open same day", func(t *testing.T) {
		status := service.GetMarketStatus(time.Date(2024, 1, 16, 8, 0, 0, 0, ist))
		assert.False(t, status.Open)
		assert.Equal(t, "09:14", status.OpensAt)
		assert.Empty(t, status.OpensDate)
	})

	t.Run("friday after close opens monday", func(t *testing.T) {
		status := service.GetMarketStatus(time.Date(2024, 1, 19, 16, 0, 0, 0, ist))
		assert.False(t, status.Open)
		assert.Equal(t, "09:14", status.OpensAt)
		assert.Equal(t, "2024-01-22", status.OpensDate)
	})

	t.Run("sunday opens monday", func(t *testing.T) {
		status := service.GetMarketStatus(time.Date(2024, 1, 21, 8, 0, 0, 0, ist))
		assert.Equal(t, "2024-01-22", status.OpensDate)
	})
}
