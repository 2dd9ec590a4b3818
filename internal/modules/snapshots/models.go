// Package snapshots persists point-in-time option chain observations and
// computes how they changed against earlier observations.
package snapshots

import "errors"

// Side identifies which instrument an observation belongs to.
// Values are the upstream codes and are stored verbatim.
type Side string

const (
	SideCall   Side = "CE"
	SidePut    Side = "PE"
	SideFuture Side = "FUT"
)

// Valid reports whether s is one of the known sides
func (s Side) Valid() bool {
	switch s {
	case SideCall, SidePut, SideFuture:
		return true
	}
	return false
}

// FutureStrike is the sentinel strike recorded for futures rows
const FutureStrike int64 = 0

// ErrStorage wraps every I/O failure of the snapshot store
var ErrStorage = errors.New("snapshot storage error")

// Observation is one persisted row. (Timestamp, Side, Strike) is the key.
// All observations written during one sampling cycle share a Timestamp and
// together form a snapshot.
type Observation struct {
	Timestamp         int64   `json:"ts"` // Unix seconds
	Expiry            string  `json:"expiry"`
	Side              Side    `json:"side"`
	Strike            int64   `json:"strike"`
	OpenInterest      int64   `json:"oi"`
	ImpliedVolatility float64 `json:"iv"` // Percent
	TradedVolume      int64   `json:"vol"`
}

// Key identifies an instrument across snapshots
type Key struct {
	Side   Side
	Strike int64
}

// Key returns the instrument key of the observation
func (o Observation) Key() Key {
	return Key{Side: o.Side, Strike: o.Strike}
}
