package models

import (
	"errors"
	"fmt"
)

// Typed conditions so callers can tell retryable from terminal instead of
// one catch-all. All of them degrade to "skip this strategy this cycle".
var (
	ErrQuoteUnavailable  = errors.New("live quote unavailable")
	ErrSeriesUnavailable = errors.New("candle series unavailable")
	ErrNotEnoughData     = errors.New("not enough observations")
	ErrVersionConflict   = errors.New("strategy version conflict")
	ErrNotFound          = errors.New("not found")
)

// BrokerError is a non-success or malformed order-placement response. The
// raw payload is kept for diagnosis in the audit log.
type BrokerError struct {
	Op         string
	StatusCode int
	Payload    string
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("broker %s: status %d: %s", e.Op, e.StatusCode, e.Payload)
}
