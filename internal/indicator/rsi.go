package indicator

import "signal_bot/internal/models"

// RSI: buy when RSI is above 60, sell below 40. Gain/loss are plain
// rolling means of the last `period` deltas, not Wilder smoothing.
func RSI(s models.Series, period int) (models.Signal, error) {
	closes := s.Closes()
	if len(closes) < period+2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	window := closes[len(closes)-period-1:]
	var gain, loss float64
	for i := 1; i < len(window); i++ {
		d := window[i] - window[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	// Нулевой loss: rs уходит в +inf, rsi -> 100. Оба нуля — ряд плоский.
	if loss == 0 {
		if gain == 0 {
			return models.SignalHold, nil
		}
		return models.SignalBuy, nil
	}

	rsi := 100 - 100/(1+gain/loss)
	switch {
	case rsi > 60:
		return models.SignalBuy, nil
	case rsi < 40:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
