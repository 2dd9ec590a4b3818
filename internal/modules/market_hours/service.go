package market_hours

import (
	"time"
)

// MarketHoursService is the trading window gate.
// It is pure: every answer depends only on the time passed in.
type MarketHoursService struct {
	exchange ExchangeConfig
}

// NewMarketHoursService creates a gate for one exchange
func NewMarketHoursService(exchange ExchangeConfig) *MarketHoursService {
	if exchange.Timezone == nil {
		exchange.Timezone = time.UTC
	}
	return &MarketHoursService{exchange: exchange}
}

// Location returns the exchange timezone
func (s *MarketHoursService) Location() *time.Location {
	return s.exchange.Timezone
}

// Now returns the current exchange-local time
func (s *MarketHoursService) Now() time.Time {
	return time.Now().In(s.exchange.Timezone)
}

// IsMarketOpen reports whether t falls inside [open, close) on a weekday,
// evaluated in the exchange timezone regardless of t's own location.
func (s *MarketHoursService) IsMarketOpen(t time.Time) bool {
	marketTime := t.In(s.exchange.Timezone)

	if isWeekend(marketTime) {
		return false
	}

	openTime, closeTime := s.windowOn(marketTime)
	return !marketTime.Before(openTime) && marketTime.Before(closeTime)
}

// GetMarketStatus returns detailed status for the exchange at t
func (s *MarketHoursService) GetMarketStatus(t time.Time) *MarketStatus {
	marketTime := t.In(s.exchange.Timezone)

	status := &MarketStatus{
		Open:     s.IsMarketOpen(marketTime),
		Exchange: s.exchange.Code,
		Timezone: s.exchange.Timezone.String(),
	}

	openTime, closeTime := s.windowOn(marketTime)
	if status.Open {
		status.ClosesAt = closeTime.Format("15:04")
		return status
	}

	next := openTime
	if isWeekend(marketTime) || !marketTime.Before(openTime) {
		next = s.nextWeekdayOpen(marketTime)
	}

	status.OpensAt = next.Format("15:04")
	if !sameDay(next, marketTime) {
		status.OpensDate = next.Format("2006-01-02")
	}

	return status
}

// windowOn returns the open and close instants on the calendar day of t
func (s *MarketHoursService) windowOn(t time.Time) (time.Time, time.Time) {
	h := s.exchange.TradingHours
	openTime := time.Date(t.Year(), t.Month(), t.Day(), h.OpenHour, h.OpenMinute, 0, 0, s.exchange.Timezone)
	closeTime := time.Date(t.Year(), t.Month(), t.Day(), h.CloseHour, h.CloseMinute, 0, 0, s.exchange.Timezone)
	return openTime, closeTime
}

// nextWeekdayOpen returns the open instant of the first weekday after t's day
func (s *MarketHoursService) nextWeekdayOpen(t time.Time) time.Time {
	day := t.AddDate(0, 0, 1)
	for isWeekend(day) {
		day = day.AddDate(0, 0, 1)
	}
	openTime, _ := s.windowOn(day)
	return openTime
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
