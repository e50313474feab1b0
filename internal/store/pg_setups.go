package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

type PGSetups struct {
	m *db.PgTxManager
}

func NewPGSetups(m *db.PgTxManager) *PGSetups {
	return &PGSetups{m: m}
}

func (s *PGSetups) Create(ctx context.Context, setup *models.TradingSetup) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PGSetups.Create")
		}
	}()
	return s.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO trading_setups (user_id, symbol, indicator, timeframe, quantity, direction, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			RETURNING id, created_at`,
			setup.UserID, setup.Symbol, setup.Indicator, setup.Timeframe, setup.Quantity, setup.Direction,
		).Scan(&setup.ID, &setup.CreatedAt)
	})
}

func (s *PGSetups) Get(ctx context.Context, id int64) (*models.TradingSetup, error) {
	var setup models.TradingSetup
	err := s.m.Conn().QueryRow(ctx, `
		SELECT id, user_id, symbol, indicator, timeframe, quantity, direction, created_at
		FROM trading_setups WHERE id = $1`, id,
	).Scan(&setup.ID, &setup.UserID, &setup.Symbol, &setup.Indicator, &setup.Timeframe, &setup.Quantity, &setup.Direction, &setup.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "PGSetups.Get")
	}
	return &setup, nil
}
