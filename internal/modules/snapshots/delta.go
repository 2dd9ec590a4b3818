package snapshots

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLookback is how far back the delta engine searches for a prior observation
const DefaultLookback = 5 * time.Minute

// Delta is the change of an observation against its prior match
type Delta struct {
	OpenInterest      int64
	ImpliedVolatility float64 // Rounded to 2 decimals
	TradedVolume      int64
	Found             bool // False when no prior observation matched
}

// ComputeDelta compares current with the first observation in pool that has the
// same side and strike. pool must be ordered oldest first, so the baseline is
// the oldest match inside the window, not the most recent one.
// No match yields a zero Delta.
func ComputeDelta(current Observation, pool []Observation) Delta {
	key := current.Key()
	for _, prior := range pool {
		if prior.Key() != key {
			continue
		}
		return Delta{
			OpenInterest:      current.OpenInterest - prior.OpenInterest,
			ImpliedVolatility: roundTo2(current.ImpliedVolatility - prior.ImpliedVolatility),
			TradedVolume:      current.TradedVolume - prior.TradedVolume,
			Found:             true,
		}
	}
	return Delta{}
}

// roundTo2 rounds half away from zero
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriorSource supplies the candidate pool for delta lookups
type PriorSource interface {
	QuerySince(ctx context.Context, cutoff int64) ([]Observation, error)
}

// DeltaEngine computes deltas against the store
type DeltaEngine struct {
	source   PriorSource
	lookback time.Duration
	log      zerolog.Logger
}

// NewDeltaEngine creates a delta engine. A non-positive lookback uses DefaultLookback.
func NewDeltaEngine(source PriorSource, lookback time.Duration, log zerolog.Logger) *DeltaEngine {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &DeltaEngine{
		source:   source,
		lookback: lookback,
		log:      log.With().Str("component", "delta_engine").Logger(),
	}
}

// Compute returns the delta of current against observations written within the
// lookback window ending at current.Timestamp. A failing store read is logged
// and treated as "no prior observation".
func (e *DeltaEngine) Compute(ctx context.Context, current Observation) Delta {
	cutoff := current.Timestamp - int64(e.lookback/time.Second)

	pool, err := e.source.QuerySince(ctx, cutoff)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("side", string(current.Side)).
			Int64("strike", current.Strike).
			Msg("Failed to load prior observations, reporting zero deltas")
		return Delta{}
	}

	return ComputeDelta(current, pool)
}
