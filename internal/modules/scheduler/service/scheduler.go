package service

import (
	"context"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/dispatch"
	"signal_bot/internal/executor"
	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/store"
)

// MarketData is the series-fetch capability the scheduler needs from the
// market data gateway.
type MarketData interface {
	RecentSeries(ctx context.Context, symbol, timeframe string) (models.Series, error)
}

// Service polls all RUNNING strategies on a fixed interval and drives
// series fetch → indicator → dispatch → execute for each one
// independently. A failure in one strategy never aborts the rest.
type Service struct {
	strategies store.Strategies
	trades     store.Trades
	audit      store.BotLog
	market     MarketData
	exec       *executor.Executor
	log        *zap.Logger

	interval    time.Duration
	evalTimeout time.Duration
	workers     int

	// inflight держит не больше одной оценки на стратегию: медленный
	// брокер не должен давать двум циклам задублировать ордер.
	mu       sync.Mutex
	inflight map[int64]bool
}

func New(
	cfg *config.Config,
	strategies store.Strategies,
	trades store.Trades,
	audit store.BotLog,
	market MarketData,
	exec *executor.Executor,
	log *zap.Logger,
) *Service {
	workers := cfg.Scheduler.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		strategies:  strategies,
		trades:      trades,
		audit:       audit,
		market:      market,
		exec:        exec,
		log:         log.Named("scheduler"),
		interval:    cfg.Scheduler.Interval,
		evalTimeout: cfg.Scheduler.EvalTimeout,
		workers:     workers,
		inflight:    make(map[int64]bool),
	}
}

// Run blocks until ctx is cancelled. Unexpected loop-level errors are
// logged and backed off, never fatal.
func (s *Service) Run(ctx context.Context) {
	s.systemLog(ctx, models.LogStrategyStart, "trading bot started", map[string]any{
		"interval": s.interval.String(),
		"workers":  s.workers,
	})
	defer s.systemLog(context.WithoutCancel(ctx), models.LogStrategyStop, "trading bot stopped", nil)

	s.ReconcilePending(ctx)

	b := &backoff.Backoff{
		Min:    s.interval,
		Max:    10 * s.interval,
		Factor: 2,
		Jitter: true,
	}

	for {
		wait := s.interval
		if err := s.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("cycle failed, backing off", zap.Error(err))
			wait = b.Duration()
		} else {
			b.Reset()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Cycle evaluates every RUNNING strategy once, bounded-parallel, and
// waits for all in-flight evaluations before returning.
func (s *Service) Cycle(ctx context.Context) error {
	list, err := s.strategies.ListRunning(ctx)
	if err != nil {
		return errors.Wrap(err, "list running strategies")
	}
	if len(list) == 0 {
		return nil
	}

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for _, st := range list {
		if !s.acquire(st.ID) {
			// предыдущая оценка этой стратегии ещё висит
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(st *models.Strategy) {
			defer wg.Done()
			defer func() {
				<-sem
				s.release(st.ID)
			}()
			s.Evaluate(ctx, st)
		}(st)
	}
	wg.Wait()
	return nil
}

// Evaluate runs one full evaluate-then-maybe-trade pass for a strategy.
// Every failure path logs to the audit sink and returns; nothing
// propagates to the loop.
func (s *Service) Evaluate(parent context.Context, st *models.Strategy) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("evaluation panic",
				zap.Int64("strategy_id", st.ID),
				zap.Any("panic", p),
			)
		}
	}()

	span := opentracing.StartSpan("strategy.evaluate")
	span.SetTag("strategy_id", st.ID)
	span.SetTag("symbol", st.Setup.Symbol)
	span.SetTag("indicator", string(st.Setup.Indicator))
	defer span.Finish()

	ctx, cancel := context.WithTimeout(opentracing.ContextWithSpan(parent, span), s.evalTimeout)
	defer cancel()

	setup := st.Setup
	series, err := s.market.RecentSeries(ctx, setup.Symbol, setup.Timeframe)
	if err != nil {
		s.auditError(ctx, st, "No market data for "+setup.Symbol, err)
		return
	}
	s.appendLog(ctx, st, models.LogDataFetch, "Series fetched for "+setup.Symbol, map[string]any{
		"symbol":      setup.Symbol,
		"timeframe":   setup.Timeframe,
		"data_points": len(series),
	})

	fn, err := indicator.ForKind(setup.Indicator)
	if err != nil {
		s.auditError(ctx, st, "Unknown indicator for "+setup.Symbol, err)
		return
	}
	s.appendLog(ctx, st, models.LogIndicatorCalc,
		"Calculating "+string(setup.Indicator)+" for "+setup.Symbol, map[string]any{
			"symbol":      setup.Symbol,
			"indicator":   setup.Indicator,
			"timeframe":   setup.Timeframe,
			"data_points": len(series),
		})

	sig, err := fn(series)
	if err != nil {
		s.auditError(ctx, st, "Indicator failed for "+setup.Symbol, err)
		return
	}

	now := time.Now()
	if sig == st.LastSignal {
		// trend persists: no repeat order, only last_check moves
		s.persistEvaluation(ctx, st, sig, now)
		return
	}

	s.appendLog(ctx, st, models.LogSignalGenerated,
		"Generated "+string(sig)+" signal for "+setup.Symbol, map[string]any{
			"symbol":       setup.Symbol,
			"indicator":    setup.Indicator,
			"signal":       sig,
			"latest_close": series[len(series)-1].Close,
		})

	act := dispatch.Decide(sig, setup.Direction)
	if act.Kind == dispatch.ActionNone {
		s.appendLog(ctx, st, models.LogInfo, act.Reason, map[string]any{
			"symbol":    setup.Symbol,
			"signal":    sig,
			"direction": setup.Direction,
		})
	} else {
		if _, err := s.exec.Execute(ctx, st, act); err != nil {
			// не двигаем dedupe-состояние: сигнал должен перестрелить
			// на следующем цикле, когда брокер оживёт
			s.auditError(ctx, st, "Trade aborted for "+setup.Symbol, err)
			return
		}
	}

	s.persistEvaluation(ctx, st, sig, now)
}

func (s *Service) persistEvaluation(ctx context.Context, st *models.Strategy, sig models.Signal, at time.Time) {
	err := s.strategies.UpdateEvaluation(ctx, st.ID, sig, at, st.Version)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrVersionConflict):
		// другой воркер успел раньше — его запись главнее
		s.log.Warn("concurrent evaluation, state write skipped",
			zap.Int64("strategy_id", st.ID),
		)
	default:
		s.log.Error("persist evaluation failed",
			zap.Int64("strategy_id", st.ID),
			zap.Error(err),
		)
	}
}

func (s *Service) acquire(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[id] {
		return false
	}
	s.inflight[id] = true
	return true
}

func (s *Service) release(id int64) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *Service) auditError(ctx context.Context, st *models.Strategy, msg string, cause error) {
	s.appendLog(ctx, st, models.LogError, msg, map[string]any{
		"symbol": st.Setup.Symbol,
		"error":  cause.Error(),
	})
	s.log.Warn(msg, zap.Int64("strategy_id", st.ID), zap.Error(cause))
}

func (s *Service) appendLog(ctx context.Context, st *models.Strategy, t models.LogType, msg string, details map[string]any) {
	sid := st.ID
	err := s.audit.Append(ctx, &models.BotLogEntry{
		UserID:     st.UserID,
		StrategyID: &sid,
		Type:       t,
		Message:    msg,
		Details:    details,
	})
	if err != nil {
		s.log.Error("audit append failed", zap.Error(err))
	}
}

func (s *Service) systemLog(ctx context.Context, t models.LogType, msg string, details map[string]any) {
	if err := s.audit.Append(ctx, &models.BotLogEntry{Type: t, Message: msg, Details: details}); err != nil {
		s.log.Error("audit append failed", zap.Error(err))
	}
}
