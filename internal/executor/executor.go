package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"signal_bot/internal/dispatch"
	"signal_bot/internal/models"
	"signal_bot/internal/notify"
	"signal_bot/internal/store"
)

// Broker is the order-placement capability the executor needs from the
// market data gateway.
type Broker interface {
	LiveQuote(ctx context.Context, symbol string) (models.Quote, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
}

// Executor places at most one primary order per triggering signal and
// attaches best-effort TP/SL orders. Broker failures never escape to the
// scheduler: they end as a FAILED trade plus an audit entry.
type Executor struct {
	broker Broker
	trades store.Trades
	audit  store.BotLog
	n      notify.Notifier
	log    *zap.Logger
}

func New(broker Broker, trades store.Trades, audit store.BotLog, n notify.Notifier, log *zap.Logger) *Executor {
	return &Executor{
		broker: broker,
		trades: trades,
		audit:  audit,
		n:      n,
		log:    log.Named("executor"),
	}
}

// Execute runs the primary-order state machine for one resolved action.
// The returned error is non-nil only for conditions the scheduler should
// record as a cycle failure: no live quote (no Trade row exists then) or
// a persistence failure.
func (e *Executor) Execute(ctx context.Context, st *models.Strategy, act dispatch.Action) (*models.Trade, error) {
	if act.Kind != dispatch.ActionPlace {
		return nil, nil
	}
	setup := st.Setup

	quote, err := e.broker.LiveQuote(ctx, setup.Symbol)
	if err != nil {
		// no partial state: abort before any Trade record exists
		return nil, err
	}

	trade := &models.Trade{
		UserID:      st.UserID,
		StrategyID:  st.ID,
		SetupID:     setup.ID,
		Symbol:      setup.Symbol,
		Side:        act.Side,
		Quantity:    setup.Quantity,
		Price:       quote.Price,
		TotalAmount: quote.Price.Mul(decimal.NewFromInt(setup.Quantity)),
		Status:      models.TradePending,
		ClientTag:   uuid.NewString(),
	}
	if err := e.trades.Create(ctx, trade); err != nil {
		return nil, errors.Wrap(err, "create trade")
	}
	e.appendLog(ctx, st, models.LogInfo,
		"Attempting "+string(act.Side)+" order for "+setup.Symbol,
		map[string]any{
			"symbol":       setup.Symbol,
			"side":         act.Side,
			"quantity":     setup.Quantity,
			"price":        quote.Price.String(),
			"total_amount": trade.TotalAmount.String(),
			"client_tag":   trade.ClientTag,
		})

	res, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
		Symbol:    setup.Symbol,
		Quantity:  setup.Quantity,
		Side:      act.Side,
		Type:      models.OrderMarket,
		ClientTag: trade.ClientTag,
	})
	if err != nil {
		return trade, e.failTrade(ctx, st, trade, err)
	}

	now := time.Now()
	trade.BrokerOrderID = res.OrderID
	trade.Status = models.TradeExecuted
	trade.ExecutedAt = &now
	if err := e.trades.UpdateStatus(ctx, trade.ID, models.TradeExecuted, res.OrderID, &now); err != nil {
		return trade, errors.Wrap(err, "mark trade executed")
	}
	e.appendLog(ctx, st, models.LogTradeExecuted,
		"Executed "+string(act.Side)+" order for "+setup.Symbol,
		map[string]any{
			"symbol":   setup.Symbol,
			"side":     act.Side,
			"quantity": setup.Quantity,
			"price":    quote.Price.String(),
			"order_id": res.OrderID,
		})
	if e.n != nil {
		e.n.Sendf("✅ [%s] %s %d @ %s (order %s)",
			setup.Symbol, act.Side, setup.Quantity, quote.Price.String(), res.OrderID)
	}

	if st.TakeProfitPct != nil || st.StopLossPct != nil {
		if err := e.placeRiskOrders(ctx, st, trade, quote.Price); err != nil {
			trade.Status = models.TradeExecutedRiskPending
			if uerr := e.trades.UpdateStatus(ctx, trade.ID, models.TradeExecutedRiskPending, res.OrderID, &now); uerr != nil {
				return trade, errors.Wrap(uerr, "mark trade risk pending")
			}
			e.appendLog(ctx, st, models.LogError,
				"Risk orders not placed for "+setup.Symbol+", position is unmanaged",
				map[string]any{
					"symbol":   setup.Symbol,
					"trade_id": trade.ID,
					"error":    err.Error(),
				})
		}
	}

	return trade, nil
}

func (e *Executor) failTrade(ctx context.Context, st *models.Strategy, trade *models.Trade, cause error) error {
	trade.Status = models.TradeFailed
	if err := e.trades.UpdateStatus(ctx, trade.ID, models.TradeFailed, "", nil); err != nil {
		return errors.Wrap(err, "mark trade failed")
	}

	details := map[string]any{
		"symbol":   trade.Symbol,
		"side":     trade.Side,
		"quantity": trade.Quantity,
		"price":    trade.Price.String(),
		"error":    cause.Error(),
	}
	var berr *models.BrokerError
	if errors.As(cause, &berr) {
		details["broker_status"] = berr.StatusCode
		details["broker_payload"] = berr.Payload
	}
	e.appendLog(ctx, st, models.LogTradeFailed,
		"Failed "+string(trade.Side)+" order for "+trade.Symbol, details)

	if e.n != nil {
		e.n.Sendf("❌ [%s] %s order failed: %v", trade.Symbol, trade.Side, cause)
	}
	e.log.Warn("order placement failed",
		zap.String("symbol", trade.Symbol),
		zap.Int64("strategy_id", st.ID),
		zap.Error(cause),
	)
	return nil // handled: the scheduler must not see broker failures
}

func (e *Executor) appendLog(ctx context.Context, st *models.Strategy, t models.LogType, msg string, details map[string]any) {
	sid := st.ID
	err := e.audit.Append(ctx, &models.BotLogEntry{
		UserID:     st.UserID,
		StrategyID: &sid,
		Type:       t,
		Message:    msg,
		Details:    details,
	})
	if err != nil {
		// аудит не должен ронять исполнение; пишем хотя бы в сервисный лог
		e.log.Error("audit append failed", zap.Error(err))
	}
}
