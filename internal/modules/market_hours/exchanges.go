package market_hours

import "time"

// NSE sampling window. The window starts a minute before the regular
// 09:15 open and stops at 15:14, ahead of the closing session.
var nseTradingHours = TradingHours{
	OpenHour:    9,
	OpenMinute:  14,
	CloseHour:   15,
	CloseMinute: 14,
}

// NSEConfig returns the National Stock Exchange of India configuration
// pinned to loc (normally Asia/Kolkata).
func NSEConfig(loc *time.Location) ExchangeConfig {
	return ExchangeConfig{
		Code:         "XNSE",
		Name:         "National Stock Exchange of India",
		TradingHours: nseTradingHours,
		Timezone:     loc,
	}
}
