// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"

	"github.com/aristath/oi-sentinel/internal/clients/nse"
	"github.com/aristath/oi-sentinel/internal/clients/telegram"
	"github.com/aristath/oi-sentinel/internal/config"
	"github.com/aristath/oi-sentinel/internal/modules/market_hours"
	"github.com/aristath/oi-sentinel/internal/modules/sampling"
	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/aristath/oi-sentinel/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeServices creates repositories, clients and services.
// Must be called after InitializeDatabases.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.DB == nil {
		return fmt.Errorf("container database not initialized")
	}

	// Repositories
	container.SnapshotRepo = snapshots.NewRepository(container.DB.Conn(), log)

	// Clients
	container.NSEClient = nse.NewClient(nse.ClientConfig{
		BaseURL: cfg.NSEBaseURL,
		Symbol:  cfg.Symbol,
		Timeout: cfg.FetchTimeout,
	}, log)

	container.TelegramClient = telegram.NewClient(telegram.ClientConfig{
		BaseURL: cfg.TelegramBaseURL,
		Token:   cfg.BotToken,
		ChatID:  cfg.ChatID,
		Timeout: cfg.SendTimeout,
	}, log)

	if !cfg.NotificationsEnabled() {
		log.Warn().Msg("BOT_TOKEN or CHAT_ID missing, notifications disabled")
	}

	if cfg.Backup.Enabled() {
		uploader, err := reliability.NewS3Client(ctx, cfg.Backup, log)
		if err != nil {
			return fmt.Errorf("failed to create backup client: %w", err)
		}
		container.BackupUploader = uploader
	}

	// Services
	container.MarketHours = market_hours.NewMarketHoursService(market_hours.NSEConfig(cfg.Location))
	container.DeltaEngine = snapshots.NewDeltaEngine(container.SnapshotRepo, cfg.LookbackWindow, log)

	container.SamplingService = sampling.NewService(
		sampling.Config{
			Symbol:   cfg.Symbol,
			BandSize: cfg.StrikeBandSize,
		},
		container.MarketHours,
		container.NSEClient,
		container.DeltaEngine,
		container.SnapshotRepo,
		container.TelegramClient,
		log,
	)

	return nil
}
