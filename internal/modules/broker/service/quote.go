package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"signal_bot/internal/models"
)

type quoteResponse struct {
	Status string `json:"status"`
	Data   struct {
		LTP decimal.Decimal `json:"ltp"`
	} `json:"data"`
}

// LiveQuote returns the last traded price. Any failure degrades to
// ErrQuoteUnavailable: the caller skips the strategy this cycle.
func (c *Client) LiveQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var out quoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("instrument_key", symbol).
		SetResult(&out).
		Get("/market-quote/ltp")
	if err != nil {
		return models.Quote{}, errors.Wrapf(models.ErrQuoteUnavailable, "%s: %v", symbol, err)
	}
	if !resp.IsSuccess() {
		c.log.Warn("live quote failed",
			zap.String("symbol", symbol),
			zap.Int("status", resp.StatusCode()),
		)
		return models.Quote{}, errors.Wrapf(models.ErrQuoteUnavailable, "%s: status %d", symbol, resp.StatusCode())
	}
	if out.Data.LTP.IsZero() {
		return models.Quote{}, errors.Wrapf(models.ErrQuoteUnavailable, "%s: zero ltp", symbol)
	}

	return models.Quote{
		Symbol: symbol,
		Price:  out.Data.LTP,
		Time:   time.Now(),
	}, nil
}
