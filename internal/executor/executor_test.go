package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"signal_bot/internal/dispatch"
	"signal_bot/internal/models"
	"signal_bot/internal/store"
)

type fakeBroker struct {
	quote    decimal.Decimal
	quoteErr error

	// failTypes: типы ордеров, на которых брокер отвечает ошибкой
	failTypes map[models.OrderType]error

	orders []models.OrderRequest
}

func (b *fakeBroker) LiveQuote(context.Context, string) (models.Quote, error) {
	if b.quoteErr != nil {
		return models.Quote{}, b.quoteErr
	}
	return models.Quote{Price: b.quote}, nil
}

func (b *fakeBroker) PlaceOrder(_ context.Context, req models.OrderRequest) (models.OrderResult, error) {
	if err, ok := b.failTypes[req.Type]; ok {
		return models.OrderResult{}, err
	}
	b.orders = append(b.orders, req)
	return models.OrderResult{OrderID: fmt.Sprintf("ord-%d", len(b.orders))}, nil
}

func pct(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func testStrategy(tp, sl *decimal.Decimal) *models.Strategy {
	return &models.Strategy{
		ID:     1,
		UserID: 7,
		Status: models.StrategyRunning,
		Setup: &models.TradingSetup{
			ID:        2,
			UserID:    7,
			Symbol:    "NSE_EQ|INE002A01018",
			Indicator: models.IndicatorRSI,
			Timeframe: "30minute",
			Quantity:  10,
			Direction: models.DirectionBoth,
		},
		TakeProfitPct: tp,
		StopLossPct:   sl,
	}
}

func countLogs(mem *store.Memory, t models.LogType) int {
	n := 0
	for _, e := range mem.Logs() {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTestExecutor(broker Broker, mem *store.Memory) *Executor {
	return New(broker, mem.Trades(), mem.BotLog(), nil, zap.NewNop())
}

func TestExecuteNoAction(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{quote: decimal.NewFromInt(100)}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(nil, nil), dispatch.Action{Kind: dispatch.ActionNone})
	if err != nil || trade != nil {
		t.Fatalf("Execute = (%v, %v), want (nil, nil)", trade, err)
	}
	if len(broker.orders) != 0 {
		t.Fatalf("placed %d orders on a no-op action", len(broker.orders))
	}
}

func TestExecuteSuccess(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{quote: decimal.RequireFromString("123.45")}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(nil, nil),
		dispatch.Action{Kind: dispatch.ActionPlace, Side: models.SideBuy})
	if err != nil {
		t.Fatal(err)
	}
	if trade.Status != models.TradeExecuted {
		t.Fatalf("status = %q, want %q", trade.Status, models.TradeExecuted)
	}
	if trade.BrokerOrderID == "" || trade.ExecutedAt == nil {
		t.Fatalf("executed trade missing order id or timestamp: %+v", trade)
	}
	if trade.ClientTag == "" {
		t.Fatal("trade has no client tag")
	}
	if want := decimal.RequireFromString("1234.50"); !trade.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", trade.TotalAmount, want)
	}

	all := mem.AllTrades()
	if len(all) != 1 || all[0].Status != models.TradeExecuted {
		t.Fatalf("stored trades = %+v", all)
	}
	if got := countLogs(mem, models.LogTradeExecuted); got != 1 {
		t.Fatalf("TRADE_EXECUTED entries = %d, want 1", got)
	}
	if len(broker.orders) != 1 || broker.orders[0].Type != models.OrderMarket {
		t.Fatalf("orders = %+v", broker.orders)
	}
}

func TestExecuteQuoteUnavailable(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{quoteErr: models.ErrQuoteUnavailable}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(nil, nil),
		dispatch.Action{Kind: dispatch.ActionPlace, Side: models.SideBuy})
	if err == nil {
		t.Fatal("expected error when the live quote is unavailable")
	}
	if trade != nil {
		t.Fatalf("trade = %+v, want nil", trade)
	}
	// никакого частичного состояния: ни записи, ни ордеров
	if n := len(mem.AllTrades()); n != 0 {
		t.Fatalf("stored trades = %d, want 0", n)
	}
	if len(broker.orders) != 0 {
		t.Fatalf("placed %d orders without a quote", len(broker.orders))
	}
}

func TestExecuteBrokerRejection(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{
		quote: decimal.NewFromInt(100),
		failTypes: map[models.OrderType]error{
			models.OrderMarket: &models.BrokerError{Op: "place order", StatusCode: 400, Payload: `{"status":"error"}`},
		},
	}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(nil, nil),
		dispatch.Action{Kind: dispatch.ActionPlace, Side: models.SideSell})
	if err != nil {
		t.Fatalf("broker rejection must be handled, got %v", err)
	}
	if trade.Status != models.TradeFailed {
		t.Fatalf("status = %q, want %q", trade.Status, models.TradeFailed)
	}

	all := mem.AllTrades()
	if len(all) != 1 || all[0].Status != models.TradeFailed {
		t.Fatalf("stored trades = %+v", all)
	}
	if got := countLogs(mem, models.LogTradeFailed); got != 1 {
		t.Fatalf("TRADE_FAILED entries = %d, want 1", got)
	}

	var found bool
	for _, e := range mem.Logs() {
		if e.Type == models.LogTradeFailed {
			if e.Details["broker_status"] == 400 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("TRADE_FAILED entry is missing the broker status code")
	}
}

func TestExecuteWithRiskOrders(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{quote: decimal.NewFromInt(100)}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(pct("5"), pct("2")),
		dispatch.Action{Kind: dispatch.ActionPlace, Side: models.SideBuy})
	if err != nil {
		t.Fatal(err)
	}
	if trade.Status != models.TradeExecuted {
		t.Fatalf("status = %q, want %q", trade.Status, models.TradeExecuted)
	}
	if len(broker.orders) != 3 {
		t.Fatalf("orders = %d, want primary + tp + sl", len(broker.orders))
	}

	tp, sl := broker.orders[1], broker.orders[2]
	if tp.Type != models.OrderLimit || tp.Side != models.SideSell {
		t.Fatalf("tp order = %+v", tp)
	}
	if !tp.Price.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("tp price = %s, want 105", tp.Price)
	}
	if sl.Type != models.OrderStopLoss || sl.Side != models.SideSell {
		t.Fatalf("sl order = %+v", sl)
	}
	if !sl.Price.Equal(decimal.NewFromInt(98)) {
		t.Fatalf("sl price = %s, want 98", sl.Price)
	}
}

func TestExecuteRiskLegFails(t *testing.T) {
	mem := store.NewMemory()
	broker := &fakeBroker{
		quote: decimal.NewFromInt(100),
		failTypes: map[models.OrderType]error{
			models.OrderStopLoss: &models.BrokerError{Op: "place order", StatusCode: 500, Payload: "oops"},
		},
	}
	e := newTestExecutor(broker, mem)

	trade, err := e.Execute(context.Background(), testStrategy(pct("5"), pct("2")),
		dispatch.Action{Kind: dispatch.ActionPlace, Side: models.SideBuy})
	if err != nil {
		t.Fatalf("risk leg failure must not fail the call, got %v", err)
	}
	if trade.Status != models.TradeExecutedRiskPending {
		t.Fatalf("status = %q, want %q", trade.Status, models.TradeExecutedRiskPending)
	}

	all := mem.AllTrades()
	if len(all) != 1 || all[0].Status != models.TradeExecutedRiskPending {
		t.Fatalf("stored trades = %+v", all)
	}
	// первичный ордер исполнился, и это видно в аудите
	if got := countLogs(mem, models.LogTradeExecuted); got != 1 {
		t.Fatalf("TRADE_EXECUTED entries = %d, want 1", got)
	}
	if got := countLogs(mem, models.LogError); got != 1 {
		t.Fatalf("ERROR entries = %d, want 1", got)
	}
}

func TestRiskPrices(t *testing.T) {
	entry := decimal.NewFromInt(100)
	cases := []struct {
		name   string
		side   models.Side
		tpPct  *decimal.Decimal
		slPct  *decimal.Decimal
		wantTP string
		wantSL string
	}{
		{"buy both legs", models.SideBuy, pct("5"), pct("2"), "105", "98"},
		{"sell both legs", models.SideSell, pct("5"), pct("2"), "95", "102"},
		{"tp only", models.SideBuy, pct("10"), nil, "110", ""},
		{"sl only", models.SideSell, nil, pct("3"), "", "103"},
		{"no targets", models.SideBuy, nil, nil, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tp, sl := RiskPrices(tc.side, entry, tc.tpPct, tc.slPct)
			checkPrice(t, "tp", tp, tc.wantTP)
			checkPrice(t, "sl", sl, tc.wantSL)
		})
	}
}

func checkPrice(t *testing.T, label string, got *decimal.Decimal, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Fatalf("%s = %s, want nil", label, got)
		}
		return
	}
	if got == nil {
		t.Fatalf("%s = nil, want %s", label, want)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}
