package indicator

import "signal_bot/internal/models"

// Supertrend: bands at midpoint(high,low) ± multiplier*ATR(period). A band
// only ratchets in the direction that tightens around price; direction
// flips when close crosses the opposite band. Buy when the latest close is
// above the Supertrend line, sell below.
func Supertrend(s models.Series, period int, multiplier float64) (models.Signal, error) {
	if len(s) < period+2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	high, low, closes := s.Highs(), s.Lows(), s.Closes()
	n := len(closes)
	tr := trueRange(high, low, closes)

	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := period; i < n; i++ {
		var sumTR float64
		for j := i - period + 1; j <= i; j++ {
			sumTR += tr[j]
		}
		atr := sumTR / float64(period)
		mid := (high[i] + low[i]) / 2
		upper[i] = mid + multiplier*atr
		lower[i] = mid - multiplier*atr
	}

	// Стартовое направление на первом баре с валидными полосами.
	dir := 1
	if closes[period] < lower[period] {
		dir = -1
	}

	line := lower[period]
	if dir == -1 {
		line = upper[period]
	}

	for i := period + 1; i < n; i++ {
		switch {
		case closes[i] > upper[i-1]:
			dir = 1
		case closes[i] < lower[i-1]:
			dir = -1
		}

		// ratchet: полоса двигается только в сторону цены
		if dir == 1 && lower[i] < lower[i-1] {
			lower[i] = lower[i-1]
		}
		if dir == -1 && upper[i] > upper[i-1] {
			upper[i] = upper[i-1]
		}

		if dir == 1 {
			line = lower[i]
		} else {
			line = upper[i]
		}
	}

	last := closes[n-1]
	switch {
	case last > line:
		return models.SignalBuy, nil
	case last < line:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
