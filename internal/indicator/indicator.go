package indicator

import (
	"fmt"

	"signal_bot/internal/models"
)

// Default periods match the reference behavior of each signal.
const (
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultMAWindow   = 20
	DefaultADXPeriod  = 14

	DefaultSupertrendPeriod     = 10
	DefaultSupertrendMultiplier = 3.0
)

// Func is a pure signal function over a time-ascending series. No state
// survives between calls; Supertrend/ADX recompute from the whole window
// every evaluation.
type Func func(models.Series) (models.Signal, error)

// ForKind returns the signal function for a setup's indicator kind with
// the default parameters.
func ForKind(kind models.IndicatorKind) (Func, error) {
	switch kind {
	case models.IndicatorRSI:
		return func(s models.Series) (models.Signal, error) {
			return RSI(s, DefaultRSIPeriod)
		}, nil
	case models.IndicatorMACD:
		return func(s models.Series) (models.Signal, error) {
			return MACD(s, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
		}, nil
	case models.IndicatorMovingAverage:
		return func(s models.Series) (models.Signal, error) {
			return MovingAverage(s, DefaultMAWindow)
		}, nil
	case models.IndicatorVWAP:
		return VWAP, nil
	case models.IndicatorADX:
		return func(s models.Series) (models.Signal, error) {
			return ADX(s, DefaultADXPeriod)
		}, nil
	case models.IndicatorSupertrend:
		return func(s models.Series) (models.Signal, error) {
			return Supertrend(s, DefaultSupertrendPeriod, DefaultSupertrendMultiplier)
		}, nil
	default:
		return nil, fmt.Errorf("unknown indicator: %q", kind)
	}
}

// ema строит экспоненциальную среднюю по всему ряду (span-форма,
// adjust=false): ema[0]=x[0], дальше alpha=2/(span+1).
func ema(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// trueRange[i] для i>=1: max(high-low, |high-prevClose|, |low-prevClose|).
// Элемент 0 не определён и остаётся нулевым.
func trueRange(high, low, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		hl := high[i] - low[i]
		hc := abs(high[i] - closes[i-1])
		lc := abs(low[i] - closes[i-1])
		tr[i] = max3(hl, hc, lc)
	}
	return tr
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
