package storage

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/store"
	"signal_bot/pkg/db"
)

// Stores bundles the four aggregate stores for fx.
type Stores struct {
	fx.Out

	Strategies store.Strategies
	Setups     store.Setups
	Trades     store.Trades
	BotLog     store.BotLog
}

func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(
			newStores,
		),
	)
}

func newStores(ctx context.Context, cfg *config.Config, lc fx.Lifecycle, log *zap.Logger) (Stores, error) {
	if cfg.Storage == "memory" {
		log.Warn("using in-memory storage, dedupe state will not survive a restart")
		m := store.NewMemory()
		return Stores{
			Strategies: m.Strategies(),
			Setups:     m.Setups(),
			Trades:     m.Trades(),
			BotLog:     m.BotLog(),
		}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return Stores{}, errors.Wrap(err, "create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		return Stores{}, errors.Wrap(err, "ping postgres")
	}

	m := db.NewPgTxManager(pool)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			m.Close()
			return nil
		},
	})

	return Stores{
		Strategies: store.NewPGStrategies(m),
		Setups:     store.NewPGSetups(m),
		Trades:     store.NewPGTrades(m),
		BotLog:     store.NewPGBotLog(m),
	}, nil
}
