package models

import "time"

// IndicatorKind — какой индикатор гоняем по сетапу.
type IndicatorKind string

const (
	IndicatorRSI           IndicatorKind = "RSI"
	IndicatorMACD          IndicatorKind = "MACD"
	IndicatorMovingAverage IndicatorKind = "Moving Average"
	IndicatorVWAP          IndicatorKind = "VWAP"
	IndicatorADX           IndicatorKind = "ADX"
	IndicatorSupertrend    IndicatorKind = "Supertrend"
)

// TradeDirection restricts which signals a strategy is allowed to act on.
type TradeDirection string

const (
	DirectionBuyOnly  TradeDirection = "BUY"
	DirectionSellOnly TradeDirection = "SELL"
	DirectionBoth     TradeDirection = "BOTH"
)

// TradingSetup is a user-owned configuration of symbol/indicator/timeframe/quantity.
type TradingSetup struct {
	ID        int64
	UserID    int64
	Symbol    string
	Indicator IndicatorKind
	Timeframe string
	Quantity  int64
	Direction TradeDirection
	CreatedAt time.Time
}
