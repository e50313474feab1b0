package models

import "time"

// LogType enumerates lifecycle/diagnostic events written to the audit log.
type LogType string

const (
	LogStrategyStart   LogType = "STRATEGY_START"
	LogStrategyStop    LogType = "STRATEGY_STOP"
	LogSignalGenerated LogType = "SIGNAL_GENERATED"
	LogTradeExecuted   LogType = "TRADE_EXECUTED"
	LogTradeFailed     LogType = "TRADE_FAILED"
	LogDataFetch       LogType = "DATA_FETCH"
	LogIndicatorCalc   LogType = "INDICATOR_CALC"
	LogInfo            LogType = "INFO"
	LogError           LogType = "ERROR"
)

// BotLogEntry is append-only: the core writes and never mutates or deletes.
type BotLogEntry struct {
	ID         int64
	UserID     int64
	StrategyID *int64
	Type       LogType
	Message    string
	Details    map[string]any
	CreatedAt  time.Time
}
