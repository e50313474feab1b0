package dispatch

import (
	"fmt"

	"signal_bot/internal/models"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionPlace
)

// Action is the resolved decision for one evaluated signal. For ActionNone
// the Reason says why (hold, direction restriction); it is logged as a
// skip, not an error.
type Action struct {
	Kind   ActionKind
	Side   models.Side
	Reason string
}

// Decide applies the strategy's direction policy to a raw indicator
// signal. BOTH passes actionable signals through unchanged; BUY_ONLY
// downgrades sell to a no-op and SELL_ONLY does the symmetric thing.
func Decide(sig models.Signal, dir models.TradeDirection) Action {
	side, ok := sig.OrderSide()
	if !ok {
		return Action{Kind: ActionNone, Reason: "hold signal, no action taken"}
	}

	switch {
	case dir == models.DirectionBuyOnly && side == models.SideSell:
		return Action{Kind: ActionNone, Reason: skipReason(side, dir)}
	case dir == models.DirectionSellOnly && side == models.SideBuy:
		return Action{Kind: ActionNone, Reason: skipReason(side, dir)}
	}

	return Action{Kind: ActionPlace, Side: side}
}

func skipReason(side models.Side, dir models.TradeDirection) string {
	return fmt.Sprintf("skipped %s signal, strategy is %s only", side, dir)
}
