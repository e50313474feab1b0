package models

// Signal is the tri-state indicator output for the latest observation.
type Signal string

const (
	SignalNone Signal = ""
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// Side как сторона ордера на брокере: "BUY"/"SELL".
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Side maps an actionable signal to an order side. Hold and the empty
// signal have no side.
func (s Signal) OrderSide() (Side, bool) {
	switch s {
	case SignalBuy:
		return SideBuy, true
	case SignalSell:
		return SideSell, true
	default:
		return "", false
	}
}

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}
