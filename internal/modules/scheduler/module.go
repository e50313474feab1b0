package scheduler

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/executor"
	brokersvc "signal_bot/internal/modules/broker/service"
	"signal_bot/internal/modules/scheduler/service"
)

func Module() fx.Option {
	return fx.Module("scheduler",
		fx.Provide(
			executor.New,
			service.New, // *service.Service
			func(c *brokersvc.Client) executor.Broker { return c },
			func(c *brokersvc.Client) service.MarketData { return c },
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Service, ctx context.Context) {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						defer close(done)
						s.Run(runCtx)
					}()
					return nil
				},
				OnStop: func(stopCtx context.Context) error {
					cancel()
					// даём in-flight оценкам дозавершиться
					select {
					case <-done:
						return nil
					case <-stopCtx.Done():
						return stopCtx.Err()
					}
				},
			})
		}),
	)
}
