package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"signal_bot/internal/models"
)

// ReconcilePending fails PENDING trades older than two poll intervals.
// A trade can only stay PENDING that long if a previous process died
// between creating the record and hearing back from the broker.
func (s *Service) ReconcilePending(ctx context.Context) {
	cutoff := time.Now().Add(-2 * s.interval)
	stale, err := s.trades.StalePending(ctx, cutoff)
	if err != nil {
		s.log.Error("stale pending lookup failed", zap.Error(err))
		return
	}

	for _, tr := range stale {
		if err := s.trades.UpdateStatus(ctx, tr.ID, models.TradeFailed, "", nil); err != nil {
			s.log.Error("stale pending reconcile failed",
				zap.Int64("trade_id", tr.ID),
				zap.Error(err),
			)
			continue
		}
		sid := tr.StrategyID
		_ = s.audit.Append(ctx, &models.BotLogEntry{
			UserID:     tr.UserID,
			StrategyID: &sid,
			Type:       models.LogTradeFailed,
			Message:    "Stale PENDING trade reconciled to FAILED on startup",
			Details: map[string]any{
				"trade_id":   tr.ID,
				"symbol":     tr.Symbol,
				"side":       tr.Side,
				"created_at": tr.CreatedAt,
			},
		})
		s.log.Warn("reconciled stale pending trade",
			zap.Int64("trade_id", tr.ID),
			zap.String("symbol", tr.Symbol),
		)
	}
}
