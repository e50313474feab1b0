package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

type PGTrades struct {
	m *db.PgTxManager
}

func NewPGTrades(m *db.PgTxManager) *PGTrades {
	return &PGTrades{m: m}
}

func (t *PGTrades) Create(ctx context.Context, tr *models.Trade) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PGTrades.Create")
		}
	}()
	return t.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO trades (user_id, strategy_id, setup_id, symbol, side, quantity, price, total_amount, status, client_tag, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			RETURNING id, created_at`,
			tr.UserID, tr.StrategyID, tr.SetupID, tr.Symbol, tr.Side,
			tr.Quantity, tr.Price, tr.TotalAmount, tr.Status, tr.ClientTag,
		).Scan(&tr.ID, &tr.CreatedAt)
	})
}

func (t *PGTrades) UpdateStatus(ctx context.Context, id int64, status models.TradeStatus, brokerOrderID string, executedAt *time.Time) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PGTrades.UpdateStatus")
		}
	}()
	return t.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE trades SET status = $2, broker_order_id = NULLIF($3, ''), executed_at = $4
			WHERE id = $1`,
			id, status, brokerOrderID, executedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

func (t *PGTrades) StalePending(ctx context.Context, olderThan time.Time) ([]*models.Trade, error) {
	rows, err := t.m.Conn().Query(ctx, `
		SELECT id, user_id, strategy_id, setup_id, symbol, side, quantity, price, total_amount,
		       status, COALESCE(broker_order_id, ''), client_tag, executed_at, created_at
		FROM trades
		WHERE status = $1 AND created_at < $2
		ORDER BY id`,
		models.TradePending, olderThan,
	)
	if err != nil {
		return nil, errors.Wrap(err, "PGTrades.StalePending")
	}
	defer rows.Close()

	var out []*models.Trade
	for rows.Next() {
		var tr models.Trade
		err := rows.Scan(
			&tr.ID, &tr.UserID, &tr.StrategyID, &tr.SetupID, &tr.Symbol, &tr.Side,
			&tr.Quantity, &tr.Price, &tr.TotalAmount, &tr.Status, &tr.BrokerOrderID,
			&tr.ClientTag, &tr.ExecutedAt, &tr.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "PGTrades.StalePending: scan")
		}
		out = append(out, &tr)
	}
	return out, errors.Wrap(rows.Err(), "PGTrades.StalePending: rows")
}
