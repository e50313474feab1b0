package indicator

import "signal_bot/internal/models"

// MACD: buy when the MACD line crosses above its signal line between the
// last two observations, sell on the opposite crossing.
func MACD(s models.Series, fast, slow, signal int) (models.Signal, error) {
	closes := s.Closes()
	if len(closes) < slow+2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := ema(macd, signal)

	last, prev := len(closes)-1, len(closes)-2
	switch {
	case macd[prev] < signalLine[prev] && macd[last] > signalLine[last]:
		return models.SignalBuy, nil
	case macd[prev] > signalLine[prev] && macd[last] < signalLine[last]:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
