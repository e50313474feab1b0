package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/broker"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/scheduler"
	"signal_bot/internal/modules/storage"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

const serviceName = "signal-bot"

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func() (*zap.Logger, error) {
				return logger.New(serviceName)
			},
			newNotifier,
		),
		config.Module(),
		storage.Module(),
		broker.Module(),
		scheduler.Module(),
		fx.Invoke(initTracing),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()
	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	// без токена получается типизированный nil — все вызовы no-op
	return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.Tracing.Enabled {
		return nil
	}
	_, closeFn, err := tracing.InitTracer(serviceName, tracing.Config{
		Host: cfg.Tracing.Host,
		Port: cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closeFn()
		},
	})
	return nil
}
