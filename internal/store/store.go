package store

import (
	"context"
	"time"

	"signal_bot/internal/models"
)

// Strategies persists strategy records and the scheduler's dedupe state.
type Strategies interface {
	Create(ctx context.Context, st *models.Strategy) error
	Get(ctx context.Context, id int64) (*models.Strategy, error)
	// ListRunning returns RUNNING strategies with their setups attached.
	ListRunning(ctx context.Context) ([]*models.Strategy, error)
	// UpdateEvaluation is the atomic evaluate-and-update write: it stamps
	// last_signal/last_check and bumps version, but only if the caller
	// still holds the version it read. Returns ErrVersionConflict when a
	// concurrent worker got there first.
	UpdateEvaluation(ctx context.Context, id int64, sig models.Signal, checkedAt time.Time, version int64) error
}

type Setups interface {
	Create(ctx context.Context, s *models.TradingSetup) error
	Get(ctx context.Context, id int64) (*models.TradingSetup, error)
}

type Trades interface {
	Create(ctx context.Context, t *models.Trade) error
	UpdateStatus(ctx context.Context, id int64, status models.TradeStatus, brokerOrderID string, executedAt *time.Time) error
	// StalePending returns PENDING trades created before the cutoff; the
	// scheduler's watchdog reconciles them on startup.
	StalePending(ctx context.Context, olderThan time.Time) ([]*models.Trade, error)
}

// BotLog is the audit sink: append-only from the core's perspective.
type BotLog interface {
	Append(ctx context.Context, e *models.BotLogEntry) error
}
