package indicator

import "signal_bot/internal/models"

// ADX/DI: buy when +DI crosses above -DI between the last two
// observations, sell on the reverse crossing.
//
// +DM = положительные приращения high, -DM = |приращения low|, оба
// обрезаны нулём; ATR — скользящее среднее true range; DI = 100 *
// rollingSum(DM) / ATR.
func ADX(s models.Series, period int) (models.Signal, error) {
	if len(s) < period+2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	high, low, closes := s.Highs(), s.Lows(), s.Closes()
	n := len(closes)

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		if d := high[i] - high[i-1]; d > 0 {
			plusDM[i] = d
		}
		minusDM[i] = abs(low[i] - low[i-1])
	}
	tr := trueRange(high, low, closes)

	// DI в точке t по окну [t-period+1, t]; окна валидны начиная с t=period.
	di := func(t int) (plus, minus float64, ok bool) {
		var sumPlus, sumMinus, sumTR float64
		for i := t - period + 1; i <= t; i++ {
			sumPlus += plusDM[i]
			sumMinus += minusDM[i]
			sumTR += tr[i]
		}
		atr := sumTR / float64(period)
		if atr == 0 {
			return 0, 0, false
		}
		return 100 * sumPlus / atr, 100 * sumMinus / atr, true
	}

	prevPlus, prevMinus, okPrev := di(n - 2)
	lastPlus, lastMinus, okLast := di(n - 1)
	if !okPrev || !okLast {
		return models.SignalHold, nil
	}

	switch {
	case prevPlus < prevMinus && lastPlus > lastMinus:
		return models.SignalBuy, nil
	case prevMinus < prevPlus && lastMinus > lastPlus:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
