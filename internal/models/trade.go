package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeExecuted  TradeStatus = "EXECUTED"
	TradeCancelled TradeStatus = "CANCELLED"
	TradeFailed    TradeStatus = "FAILED"

	// TradeExecutedRiskPending: первичный ордер исполнен, но TP/SL не
	// выставились. Позиция без управляемого риска — видно в статусе,
	// а не только в логах.
	TradeExecutedRiskPending TradeStatus = "EXECUTED_RISK_PENDING"
)

// Trade is one order-placement attempt. Terminal states are EXECUTED,
// EXECUTED_RISK_PENDING and FAILED; CANCELLED is set only by the external
// cancel surface.
type Trade struct {
	ID         int64
	UserID     int64
	StrategyID int64
	SetupID    int64

	Symbol      string
	Side        Side
	Quantity    int64
	Price       decimal.Decimal
	TotalAmount decimal.Decimal

	Status        TradeStatus
	BrokerOrderID string
	ClientTag     string // uuid per placement attempt

	ExecutedAt *time.Time
	CreatedAt  time.Time
}
