package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

type PGStrategies struct {
	m *db.PgTxManager
}

func NewPGStrategies(m *db.PgTxManager) *PGStrategies {
	return &PGStrategies{m: m}
}

func (s *PGStrategies) Create(ctx context.Context, st *models.Strategy) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PGStrategies.Create")
		}
	}()
	return s.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO strategies (user_id, name, setup_id, status, last_signal, take_profit_pct, stop_loss_pct, version, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, now())
			RETURNING id, created_at`,
			st.UserID, st.Name, st.SetupID, st.Status, st.LastSignal,
			nullDec(st.TakeProfitPct), nullDec(st.StopLossPct),
		).Scan(&st.ID, &st.CreatedAt)
	})
}

func (s *PGStrategies) Get(ctx context.Context, id int64) (*models.Strategy, error) {
	row := s.m.Conn().QueryRow(ctx, selectStrategy+` WHERE s.id = $1`, id)
	st, err := scanStrategy(row)
	if err != nil {
		return nil, errors.Wrap(err, "PGStrategies.Get")
	}
	return st, nil
}

func (s *PGStrategies) ListRunning(ctx context.Context) ([]*models.Strategy, error) {
	rows, err := s.m.Conn().Query(ctx, selectStrategy+` WHERE s.status = $1 ORDER BY s.id`, models.StrategyRunning)
	if err != nil {
		return nil, errors.Wrap(err, "PGStrategies.ListRunning")
	}
	defer rows.Close()

	var out []*models.Strategy
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, errors.Wrap(err, "PGStrategies.ListRunning: scan")
		}
		out = append(out, st)
	}
	return out, errors.Wrap(rows.Err(), "PGStrategies.ListRunning: rows")
}

func (s *PGStrategies) UpdateEvaluation(ctx context.Context, id int64, sig models.Signal, checkedAt time.Time, version int64) error {
	return s.m.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE strategies
			SET last_signal = $2, last_check = $3, version = version + 1
			WHERE id = $1 AND version = $4`,
			id, sig, checkedAt, version,
		)
		if err != nil {
			return errors.Wrap(err, "PGStrategies.UpdateEvaluation")
		}
		if tag.RowsAffected() == 0 {
			return models.ErrVersionConflict
		}
		return nil
	})
}

const selectStrategy = `
	SELECT s.id, s.user_id, s.name, s.setup_id, s.status, s.last_signal,
	       s.last_check, s.take_profit_pct, s.stop_loss_pct, s.version, s.created_at,
	       ts.id, ts.user_id, ts.symbol, ts.indicator, ts.timeframe, ts.quantity, ts.direction, ts.created_at
	FROM strategies s
	JOIN trading_setups ts ON ts.id = s.setup_id`

func scanStrategy(row pgx.Row) (*models.Strategy, error) {
	var (
		st        models.Strategy
		setup     models.TradingSetup
		lastCheck *time.Time
		tp, sl    decimal.NullDecimal
	)
	err := row.Scan(
		&st.ID, &st.UserID, &st.Name, &st.SetupID, &st.Status, &st.LastSignal,
		&lastCheck, &tp, &sl, &st.Version, &st.CreatedAt,
		&setup.ID, &setup.UserID, &setup.Symbol, &setup.Indicator, &setup.Timeframe, &setup.Quantity, &setup.Direction, &setup.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	st.LastCheck = lastCheck
	if tp.Valid {
		st.TakeProfitPct = &tp.Decimal
	}
	if sl.Valid {
		st.StopLossPct = &sl.Decimal
	}
	st.Setup = &setup
	return &st, nil
}

func nullDec(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
