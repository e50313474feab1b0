package store

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
)

// Memory keeps all aggregates in process memory. It backs tests and the
// `storage: memory` mode (dry runs against a sandbox broker with no
// database at hand). Dedupe state does not survive a restart in this
// mode, which is exactly why postgres is the default.
type Memory struct {
	mu sync.Mutex

	nextID     int64
	setups     map[int64]*models.TradingSetup
	strategies map[int64]*models.Strategy
	trades     map[int64]*models.Trade
	logs       []*models.BotLogEntry
}

func NewMemory() *Memory {
	return &Memory{
		setups:     make(map[int64]*models.TradingSetup),
		strategies: make(map[int64]*models.Strategy),
		trades:     make(map[int64]*models.Trade),
	}
}

// Views over the shared state, one per store interface.
func (m *Memory) Strategies() Strategies { return memStrategies{m} }
func (m *Memory) Setups() Setups         { return memSetups{m} }
func (m *Memory) Trades() Trades         { return memTrades{m} }
func (m *Memory) BotLog() BotLog         { return memBotLog{m} }

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

type memSetups struct{ m *Memory }

func (v memSetups) Create(_ context.Context, s *models.TradingSetup) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	s.ID = v.m.id()
	s.CreatedAt = time.Now()
	cp := *s
	v.m.setups[s.ID] = &cp
	return nil
}

func (v memSetups) Get(_ context.Context, id int64) (*models.TradingSetup, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	s, ok := v.m.setups[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

type memStrategies struct{ m *Memory }

func (v memStrategies) Create(_ context.Context, st *models.Strategy) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	st.ID = v.m.id()
	st.CreatedAt = time.Now()
	cp := *st
	v.m.strategies[st.ID] = &cp
	return nil
}

func (v memStrategies) Get(_ context.Context, id int64) (*models.Strategy, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	st, ok := v.m.strategies[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return v.m.withSetup(st), nil
}

func (v memStrategies) ListRunning(_ context.Context) ([]*models.Strategy, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*models.Strategy
	for id := int64(1); id <= v.m.nextID; id++ {
		st, ok := v.m.strategies[id]
		if !ok || st.Status != models.StrategyRunning {
			continue
		}
		out = append(out, v.m.withSetup(st))
	}
	return out, nil
}

func (v memStrategies) UpdateEvaluation(_ context.Context, id int64, sig models.Signal, checkedAt time.Time, version int64) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	st, ok := v.m.strategies[id]
	if !ok {
		return models.ErrNotFound
	}
	if st.Version != version {
		return models.ErrVersionConflict
	}
	st.LastSignal = sig
	t := checkedAt
	st.LastCheck = &t
	st.Version++
	return nil
}

func (m *Memory) withSetup(st *models.Strategy) *models.Strategy {
	cp := *st
	if s, ok := m.setups[st.SetupID]; ok {
		scp := *s
		cp.Setup = &scp
	}
	return &cp
}

type memTrades struct{ m *Memory }

func (v memTrades) Create(_ context.Context, tr *models.Trade) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	tr.ID = v.m.id()
	tr.CreatedAt = time.Now()
	cp := *tr
	v.m.trades[tr.ID] = &cp
	return nil
}

func (v memTrades) UpdateStatus(_ context.Context, id int64, status models.TradeStatus, brokerOrderID string, executedAt *time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	tr, ok := v.m.trades[id]
	if !ok {
		return models.ErrNotFound
	}
	tr.Status = status
	if brokerOrderID != "" {
		tr.BrokerOrderID = brokerOrderID
	}
	tr.ExecutedAt = executedAt
	return nil
}

func (v memTrades) StalePending(_ context.Context, olderThan time.Time) ([]*models.Trade, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*models.Trade
	for id := int64(1); id <= v.m.nextID; id++ {
		tr, ok := v.m.trades[id]
		if !ok || tr.Status != models.TradePending || !tr.CreatedAt.Before(olderThan) {
			continue
		}
		cp := *tr
		out = append(out, &cp)
	}
	return out, nil
}

type memBotLog struct{ m *Memory }

func (v memBotLog) Append(_ context.Context, e *models.BotLogEntry) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	e.ID = v.m.id()
	e.CreatedAt = time.Now()
	cp := *e
	v.m.logs = append(v.m.logs, &cp)
	return nil
}

// AllTrades returns a snapshot of all trade records, oldest first.
func (m *Memory) AllTrades() []*models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Trade
	for id := int64(1); id <= m.nextID; id++ {
		if tr, ok := m.trades[id]; ok {
			cp := *tr
			out = append(out, &cp)
		}
	}
	return out
}

// Logs returns a snapshot of the audit trail in append order.
func (m *Memory) Logs() []*models.BotLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.BotLogEntry, len(m.logs))
	for i, e := range m.logs {
		cp := *e
		out[i] = &cp
	}
	return out
}
