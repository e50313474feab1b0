package service

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
)

// Client talks to the Upstox v2 REST API. The core never sees this type
// directly, only the capability interfaces it satisfies.
type Client struct {
	http        *resty.Client
	log         *zap.Logger
	historyDays int
}

func New(cfg *config.Config, log *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.Broker.BaseURL).
		SetTimeout(cfg.Broker.Timeout).
		SetAuthToken(cfg.Broker.AccessToken).
		SetHeader("Accept", "application/json")

	http.JSONMarshal = sonic.Marshal
	http.JSONUnmarshal = sonic.Unmarshal

	return &Client{
		http:        http,
		log:         log.Named("broker"),
		historyDays: cfg.Broker.HistoryDays,
	}
}

// cleanSymbol убирает биржевой префикс ("NSE_EQ|RELIANCE" -> "RELIANCE")
// для эндпоинтов, которые его не принимают.
func cleanSymbol(symbol string) string {
	if i := strings.LastIndex(symbol, "|"); i >= 0 {
		return symbol[i+1:]
	}
	return symbol
}

func dateRange(days int) (from, to string) {
	now := time.Now()
	return now.AddDate(0, 0, -days).Format("2006-01-02"), now.Format("2006-01-02")
}
