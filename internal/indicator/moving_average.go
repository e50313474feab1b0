package indicator

import "signal_bot/internal/models"

// MovingAverage: buy when price crosses above its rolling mean between the
// last two observations, sell on the opposite crossing.
func MovingAverage(s models.Series, window int) (models.Signal, error) {
	closes := s.Closes()
	if len(closes) < window+2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	last, prev := len(closes)-1, len(closes)-2
	maLast := mean(closes[last-window+1 : last+1])
	maPrev := mean(closes[prev-window+1 : prev+1])

	switch {
	case closes[prev] < maPrev && closes[last] > maLast:
		return models.SignalBuy, nil
	case closes[prev] > maPrev && closes[last] < maLast:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
