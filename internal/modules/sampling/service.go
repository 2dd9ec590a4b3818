// Package sampling runs the periodic option-chain sampling cycle: fetch, store,
// compare against the lookback window and notify.
package sampling

import (
	"context"
	"errors"
	"time"

	"github.com/aristath/oi-sentinel/internal/clients/nse"
	"github.com/aristath/oi-sentinel/internal/clients/telegram"
	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBandSize is the number of strikes reported around the spot price
const DefaultBandSize = 6

// Gate decides whether sampling is permitted at an instant
type Gate interface {
	IsMarketOpen(t time.Time) bool
}

// MarketData fetches upstream option chain and futures data
type MarketData interface {
	PrimeSession(ctx context.Context) error
	FetchOptionChain(ctx context.Context) (*nse.OptionChain, error)
	FetchFutures(ctx context.Context) (*nse.Futures, error)
}

// DeltaCalculator computes changes against the lookback window
type DeltaCalculator interface {
	Compute(ctx context.Context, current snapshots.Observation) snapshots.Delta
}

// Store persists observations
type Store interface {
	Upsert(ctx context.Context, obs snapshots.Observation) error
}

// Notifier delivers the assembled alert
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Config holds the cycle parameters
type Config struct {
	Symbol   string
	BandSize int
}

// Service runs sampling cycles. Cycles must not overlap; the scheduler
// serialises them.
type Service struct {
	cfg      Config
	gate     Gate
	data     MarketData
	deltas   DeltaCalculator
	store    Store
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a new sampling service
func NewService(
	cfg Config,
	gate Gate,
	data MarketData,
	deltas DeltaCalculator,
	store Store,
	notifier Notifier,
	log zerolog.Logger,
) *Service {
	if cfg.BandSize <= 0 {
		cfg.BandSize = DefaultBandSize
	}

	return &Service{
		cfg:      cfg,
		gate:     gate,
		data:     data,
		deltas:   deltas,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		log:      log.With().Str("component", "sampling").Logger(),
	}
}

// SetClock overrides the wall clock
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RunOnce executes one sampling cycle. Every failure is handled inside the
// cycle: a closed gate is a silent no-op, fetch failures degrade the alert,
// storage and send failures are logged.
func (s *Service) RunOnce(ctx context.Context) {
	log := s.log.With().Str("cycle_id", uuid.NewString()).Logger()

	now := s.now()
	if !s.gate.IsMarketOpen(now) {
		log.Debug().Time("now", now).Msg("Outside trading window, skipping")
		return
	}

	if err := s.data.PrimeSession(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to prime upstream session")
	}

	chain, err := s.data.FetchOptionChain(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Option chain unavailable")
		s.send(ctx, log, UnavailableMessage)
		return
	}

	ts := now.Unix()
	rows := expiryRows(chain)
	strikes := make([]int64, 0, len(rows))
	for strike := range rows {
		strikes = append(strikes, strike)
	}
	band := NearestStrikes(strikes, chain.Spot, s.cfg.BandSize)

	msg := newReport(s.cfg.Symbol, chain.Expiry, chain.Spot)

	stored, baselined := 0, 0
	for _, side := range []snapshots.Side{snapshots.SideCall, snapshots.SidePut} {
		msg.section(side)
		for _, strike := range band {
			leg := rows[strike].Call
			if side == snapshots.SidePut {
				leg = rows[strike].Put
			}

			obs := snapshots.Observation{
				Timestamp:         ts,
				Expiry:            chain.Expiry,
				Side:              side,
				Strike:            strike,
				OpenInterest:      leg.OpenInterest,
				ImpliedVolatility: leg.ImpliedVolatility,
				TradedVolume:      leg.TradedVolume,
			}

			delta := s.deltas.Compute(ctx, obs)
			if delta.Found {
				baselined++
			}
			msg.row(strike, leg, delta)

			if s.upsert(ctx, log, obs) {
				stored++
			}
		}
	}

	futures, err := s.data.FetchFutures(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Futures data unavailable")
		msg.futuresError()
	} else {
		obs := snapshots.Observation{
			Timestamp:    ts,
			Expiry:       chain.Expiry,
			Side:         snapshots.SideFuture,
			Strike:       snapshots.FutureStrike,
			TradedVolume: futures.TradedVolume,
		}
		delta := s.deltas.Compute(ctx, obs)
		if delta.Found {
			baselined++
		}
		msg.futures(futures.TradedVolume, delta)
		if s.upsert(ctx, log, obs) {
			stored++
		}
	}

	log.Info().
		Int64("ts", ts).
		Str("expiry", chain.Expiry).
		Float64("spot", chain.Spot).
		Ints64("strikes", band).
		Int("stored", stored).
		Int("baselined", baselined).
		Msg("Sampling cycle completed")

	s.send(ctx, log, msg.String())
}

// expiryRows indexes the rows of the chain's expiry by strike, keeping the
// first row of a repeated strike
func expiryRows(chain *nse.OptionChain) map[int64]nse.StrikeRow {
	rows := make(map[int64]nse.StrikeRow, len(chain.Rows))
	for _, row := range chain.Rows {
		if row.Expiry != "" && row.Expiry != chain.Expiry {
			continue
		}
		if _, ok := rows[row.Strike]; ok {
			continue
		}
		rows[row.Strike] = row
	}
	return rows
}

func (s *Service) upsert(ctx context.Context, log zerolog.Logger, obs snapshots.Observation) bool {
	if err := s.store.Upsert(ctx, obs); err != nil {
		log.Error().
			Err(err).
			Str("side", string(obs.Side)).
			Int64("strike", obs.Strike).
			Msg("Failed to store observation")
		return false
	}
	return true
}

func (s *Service) send(ctx context.Context, log zerolog.Logger, text string) {
	err := s.notifier.Send(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrNotConfigured):
		log.Warn().Msg("Notifications disabled, BOT_TOKEN or CHAT_ID missing")
	default:
		log.Error().Err(err).Msg("Failed to send notification")
	}
}
