package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/models"
)

type seriesResponse struct {
	Status string `json:"status"`
	Data   struct {
		// Каждая свеча — массив [ts, open, high, low, close, volume].
		Candles [][]float64 `json:"candles"`
	} `json:"data"`
}

// RecentSeries fetches the recent OHLCV window for a symbol, oldest row
// first. Any failure degrades to ErrSeriesUnavailable.
func (c *Client) RecentSeries(ctx context.Context, symbol, timeframe string) (models.Series, error) {
	from, to := dateRange(c.historyDays)

	var out seriesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from": from,
			"to":   to,
		}).
		SetResult(&out).
		Get("/historical-candle/" + cleanSymbol(symbol) + "/" + timeframe)
	if err != nil {
		return nil, errors.Wrapf(models.ErrSeriesUnavailable, "%s: %v", symbol, err)
	}
	if !resp.IsSuccess() {
		c.log.Warn("series fetch failed",
			zap.String("symbol", symbol),
			zap.String("timeframe", timeframe),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, errors.Wrapf(models.ErrSeriesUnavailable, "%s: status %d", symbol, resp.StatusCode())
	}
	if len(out.Data.Candles) == 0 {
		return nil, errors.Wrapf(models.ErrSeriesUnavailable, "%s: empty series", symbol)
	}

	series := make(models.Series, 0, len(out.Data.Candles))
	for _, row := range out.Data.Candles {
		if len(row) < 6 {
			continue
		}
		series = append(series, models.Candle{
			Time:   time.Unix(int64(row[0]), 0),
			Open:   row[1],
			High:   row[2],
			Low:    row[3],
			Close:  row[4],
			Volume: row[5],
		})
	}
	// Брокер отдаёт свечи новыми вперёд; индикаторы ждут ряд по возрастанию.
	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })

	if len(series) == 0 {
		return nil, errors.Wrapf(models.ErrSeriesUnavailable, "%s: malformed candles", symbol)
	}
	return series, nil
}
