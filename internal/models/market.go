package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one OHLCV row. Series are time-ascending.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type Series []Candle

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Low
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Volume
	}
	return out
}

type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

type OrderType string

const (
	OrderMarket   OrderType = "MARKET"
	OrderLimit    OrderType = "LIMIT"
	OrderStopLoss OrderType = "STOP_LOSS"
)

type OrderRequest struct {
	Symbol    string
	Quantity  int64
	Side      Side
	Type      OrderType
	Price     *decimal.Decimal // только для LIMIT/STOP_LOSS
	ClientTag string
}

type OrderResult struct {
	OrderID string
}
