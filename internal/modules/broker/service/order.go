package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"signal_bot/internal/models"
)

type orderBody struct {
	Symbol    string  `json:"symbol"`
	Quantity  int64   `json:"quantity"`
	Side      string  `json:"side"`
	Product   string  `json:"product"`
	Validity  string  `json:"validity"`
	OrderType string  `json:"order_type"`
	Price     float64 `json:"price,omitempty"`
	Tag       string  `json:"tag,omitempty"`
}

type orderResponse struct {
	Status string `json:"status"`
	Data   struct {
		OrderID string `json:"order_id"`
	} `json:"data"`
}

// PlaceOrder submits an order. A non-success or malformed response comes
// back as *models.BrokerError with the raw payload attached.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	body := orderBody{
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
		Side:      strings.ToLower(string(req.Side)),
		Product:   "I",
		Validity:  "DAY",
		OrderType: string(req.Type),
		Tag:       req.ClientTag,
	}
	if req.Price != nil && req.Type != models.OrderMarket {
		body.Price, _ = req.Price.Float64()
	}

	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/order/place")
	if err != nil {
		return models.OrderResult{}, &models.BrokerError{Op: "place_order", Payload: err.Error()}
	}
	if !resp.IsSuccess() || out.Data.OrderID == "" {
		c.log.Warn("order placement failed",
			zap.String("symbol", req.Symbol),
			zap.String("side", string(req.Side)),
			zap.Int("status", resp.StatusCode()),
		)
		return models.OrderResult{}, &models.BrokerError{
			Op:         "place_order",
			StatusCode: resp.StatusCode(),
			Payload:    string(resp.Body()),
		}
	}

	c.log.Info("order placed",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.String("order_id", out.Data.OrderID),
	)
	return models.OrderResult{OrderID: out.Data.OrderID}, nil
}
