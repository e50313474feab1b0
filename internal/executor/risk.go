package executor

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
)

var hundred = decimal.NewFromInt(100)

// RiskPrices computes the take-profit and stop-loss target prices from
// the entry. For a BUY the take-profit sits above entry and the stop
// below; for a SELL the signs flip. Nil percentage means no target.
func RiskPrices(side models.Side, entry decimal.Decimal, tpPct, slPct *decimal.Decimal) (tp, sl *decimal.Decimal) {
	if tpPct != nil {
		frac := tpPct.Div(hundred)
		var p decimal.Decimal
		if side == models.SideBuy {
			p = entry.Mul(decimal.NewFromInt(1).Add(frac))
		} else {
			p = entry.Mul(decimal.NewFromInt(1).Sub(frac))
		}
		tp = &p
	}
	if slPct != nil {
		frac := slPct.Div(hundred)
		var p decimal.Decimal
		if side == models.SideBuy {
			p = entry.Mul(decimal.NewFromInt(1).Sub(frac))
		} else {
			p = entry.Mul(decimal.NewFromInt(1).Add(frac))
		}
		sl = &p
	}
	return tp, sl
}

// placeRiskOrders attaches the configured TP/SL orders to an executed
// trade. Each leg is attempted independently; the primary trade keeps its
// EXECUTED outcome regardless, the caller only downgrades the status to
// EXECUTED_RISK_PENDING when a leg fails.
func (e *Executor) placeRiskOrders(ctx context.Context, st *models.Strategy, trade *models.Trade, entry decimal.Decimal) error {
	tp, sl := RiskPrices(trade.Side, entry, st.TakeProfitPct, st.StopLossPct)
	exitSide := trade.Side.Opposite()

	var firstErr error
	if tp != nil {
		res, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
			Symbol:   trade.Symbol,
			Quantity: trade.Quantity,
			Side:     exitSide,
			Type:     models.OrderLimit,
			Price:    tp,
		})
		if err != nil {
			firstErr = errors.Wrap(err, "take profit")
		} else {
			e.appendLog(ctx, st, models.LogInfo,
				"Take profit order placed for "+trade.Symbol,
				map[string]any{
					"symbol":   trade.Symbol,
					"price":    tp.String(),
					"order_id": res.OrderID,
					"trade_id": trade.ID,
				})
		}
	}
	if sl != nil {
		res, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
			Symbol:   trade.Symbol,
			Quantity: trade.Quantity,
			Side:     exitSide,
			Type:     models.OrderStopLoss,
			Price:    sl,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrap(err, "stop loss")
			}
		} else {
			e.appendLog(ctx, st, models.LogInfo,
				"Stop loss order placed for "+trade.Symbol,
				map[string]any{
					"symbol":   trade.Symbol,
					"price":    sl.String(),
					"order_id": res.OrderID,
					"trade_id": trade.ID,
				})
		}
	}
	return firstErr
}
