package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StrategyStatus string

const (
	StrategyStopped StrategyStatus = "STOPPED"
	StrategyRunning StrategyStatus = "RUNNING"
	StrategyPaused  StrategyStatus = "PAUSED"
)

// Strategy binds a TradingSetup to live status and risk parameters.
// LastSignal/LastCheck/Version are owned by the scheduler; everything else
// is mutated only through the external control surface.
type Strategy struct {
	ID      int64
	UserID  int64
	Name    string
	SetupID int64
	Setup   *TradingSetup

	Status     StrategyStatus
	LastSignal Signal
	LastCheck  *time.Time

	TakeProfitPct *decimal.Decimal // percent of entry, 0–100
	StopLossPct   *decimal.Decimal

	// Version растёт на каждом evaluate-and-update; защита от двух
	// конкурентных воркеров по одной стратегии.
	Version int64

	CreatedAt time.Time
}
