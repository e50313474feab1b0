package indicator

import (
	"errors"
	"testing"

	"signal_bot/internal/models"
)

func fromCloses(closes ...float64) models.Series {
	s := make(models.Series, len(closes))
	for i, c := range closes {
		s[i] = models.Candle{Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return s
}

func fromOHLC(high, low, closes []float64) models.Series {
	s := make(models.Series, len(closes))
	for i := range closes {
		s[i] = models.Candle{Open: closes[i], High: high[i], Low: low[i], Close: closes[i], Volume: 1}
	}
	return s
}

func rising(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return fromCloses(closes...)
}

func falling(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	return fromCloses(closes...)
}

func flat(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return fromCloses(closes...)
}

func TestRSI(t *testing.T) {
	// 16 точек хватает на окно из 14 дельт
	alternating := make([]float64, 16)
	for i := range alternating {
		alternating[i] = 100
		if i%2 == 1 {
			alternating[i] = 101
		}
	}

	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{"monotonic rise has no losses", rising(16), models.SignalBuy, nil},
		{"monotonic fall has no gains", falling(16), models.SignalSell, nil},
		{"flat series", flat(16), models.SignalHold, nil},
		{"equal gains and losses sit at 50", fromCloses(alternating...), models.SignalHold, nil},
		{"too short", rising(15), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RSI(tc.series, DefaultRSIPeriod)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMovingAverage(t *testing.T) {
	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{"cross above", fromCloses(10, 10, 10, 9, 12), models.SignalBuy, nil},
		{"cross below", fromCloses(10, 10, 10, 11, 8), models.SignalSell, nil},
		{"constant price", fromCloses(10, 10, 10, 10, 10), models.SignalHold, nil},
		{"steady rise already above, no crossing", fromCloses(1, 2, 3, 4, 5), models.SignalHold, nil},
		{"too short", fromCloses(10, 10, 10, 10), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MovingAverage(tc.series, 3)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVWAP(t *testing.T) {
	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{"last above vwap", fromCloses(10, 11, 12), models.SignalBuy, nil},
		{"last below vwap", fromCloses(12, 11, 10), models.SignalSell, nil},
		{"constant price", fromCloses(10, 10, 10), models.SignalHold, nil},
		{"too short", fromCloses(10), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := VWAP(tc.series)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVWAPZeroVolume(t *testing.T) {
	s := models.Series{
		{Close: 10, Volume: 0},
		{Close: 11, Volume: 0},
	}
	if _, err := VWAP(s); err == nil {
		t.Fatal("expected error on zero cumulative volume")
	}
}

func TestMACD(t *testing.T) {
	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{"spike up crosses signal line", fromCloses(10, 9, 8, 7, 6, 12), models.SignalBuy, nil},
		{"spike down crosses signal line", fromCloses(6, 7, 8, 9, 10, 4), models.SignalSell, nil},
		{"flat series", fromCloses(10, 10, 10, 10, 10, 10), models.SignalHold, nil},
		{"too short", fromCloses(10, 9, 8, 7, 6), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MACD(tc.series, 2, 4, 3)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestADX(t *testing.T) {
	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{
			// лои стоят, хай выстреливает на последнем баре: +DI пересекает -DI вверх
			"plus di crosses above",
			fromOHLC(
				[]float64{10, 10, 10, 10, 10, 16},
				[]float64{9, 7, 5, 5, 5, 5},
				[]float64{9.5, 8, 6, 5.5, 5.5, 15},
			),
			models.SignalBuy, nil,
		},
		{
			"minus di crosses above",
			fromOHLC(
				[]float64{10, 10, 15, 15, 15, 15},
				[]float64{9, 9, 10, 10, 10, 4},
				[]float64{9.5, 9.5, 14, 14, 14, 5},
			),
			models.SignalSell, nil,
		},
		{"flat range has zero atr", flat(6), models.SignalHold, nil},
		{"too short", flat(4), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ADX(tc.series, 3)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSupertrend(t *testing.T) {
	cases := []struct {
		name    string
		series  models.Series
		want    models.Signal
		wantErr error
	}{
		{
			"steady rise stays above the line",
			fromOHLC(
				[]float64{10.5, 11.5, 12.5, 13.5, 14.5},
				[]float64{9.5, 10.5, 11.5, 12.5, 13.5},
				[]float64{10, 11, 12, 13, 14},
			),
			models.SignalBuy, nil,
		},
		{
			"steady fall stays below the line",
			fromOHLC(
				[]float64{14.5, 13.5, 12.5, 11.5, 10.5},
				[]float64{13.5, 12.5, 11.5, 10.5, 9.5},
				[]float64{14, 13, 12, 11, 10},
			),
			models.SignalSell, nil,
		},
		{
			// рост, потом обвал ниже нижней полосы: направление переключается
			"crash flips direction to sell",
			fromOHLC(
				[]float64{10.5, 11.5, 12.5, 13.5, 14.5, 6},
				[]float64{9.5, 10.5, 11.5, 12.5, 13.5, 4},
				[]float64{10, 11, 12, 13, 14, 4.5},
			),
			models.SignalSell, nil,
		},
		{"too short", rising(3), models.SignalHold, models.ErrNotEnoughData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Supertrend(tc.series, 2, 1.0)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("signal = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestForKind(t *testing.T) {
	kinds := []models.IndicatorKind{
		models.IndicatorRSI,
		models.IndicatorMACD,
		models.IndicatorMovingAverage,
		models.IndicatorVWAP,
		models.IndicatorADX,
		models.IndicatorSupertrend,
	}
	for _, k := range kinds {
		fn, err := ForKind(k)
		if err != nil {
			t.Fatalf("ForKind(%q): %v", k, err)
		}
		if fn == nil {
			t.Fatalf("ForKind(%q) returned nil func", k)
		}
	}

	if _, err := ForKind("Bollinger"); err == nil {
		t.Fatal("expected error for unknown indicator kind")
	}
}

func TestForKindRSIDefaults(t *testing.T) {
	fn, err := ForKind(models.IndicatorRSI)
	if err != nil {
		t.Fatal(err)
	}
	got, err := fn(rising(40))
	if err != nil {
		t.Fatal(err)
	}
	if got != models.SignalBuy {
		t.Fatalf("signal = %q, want %q", got, models.SignalBuy)
	}
}
