// Package market_hours decides whether the exchange is inside its sampling window.
package market_hours

import "time"

// TradingHours represents the daily sampling window of an exchange
type TradingHours struct {
	OpenHour    int // Hour (0-23)
	OpenMinute  int // Minute (0-59)
	CloseHour   int // Hour (0-23)
	CloseMinute int // Minute (0-59)
}

// ExchangeConfig represents configuration for a single exchange
type ExchangeConfig struct {
	Code         string
	Name         string
	TradingHours TradingHours
	Timezone     *time.Location
}

// MarketStatus represents the current status of a market
type MarketStatus struct {
	Open      bool   `json:"open"`
	Exchange  string `json:"exchange"`
	Timezone  string `json:"timezone"`
	ClosesAt  string `json:"closes_at,omitempty"`  // Time when window closes (if open)
	OpensAt   string `json:"opens_at,omitempty"`   // Time when window opens (if closed)
	OpensDate string `json:"opens_date,omitempty"` // Date when window opens (if not today)
}
