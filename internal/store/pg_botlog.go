package store

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

type PGBotLog struct {
	m *db.PgTxManager
}

func NewPGBotLog(m *db.PgTxManager) *PGBotLog {
	return &PGBotLog{m: m}
}

func (l *PGBotLog) Append(ctx context.Context, e *models.BotLogEntry) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PGBotLog.Append")
		}
	}()

	var details []byte
	if e.Details != nil {
		details, err = sonic.Marshal(e.Details)
		if err != nil {
			return err
		}
	}

	return l.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO bot_logs (user_id, strategy_id, log_type, message, details, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
			RETURNING id, created_at`,
			e.UserID, e.StrategyID, e.Type, e.Message, details,
		).Scan(&e.ID, &e.CreatedAt)
	})
}
