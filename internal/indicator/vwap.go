package indicator

import (
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// VWAP: cumulative price*volume over cumulative volume for the whole
// series; buy when the latest price sits above it, sell below. No
// crossover memory.
func VWAP(s models.Series) (models.Signal, error) {
	if len(s) < 2 {
		return models.SignalHold, models.ErrNotEnoughData
	}

	var pv, vol float64
	for _, c := range s {
		pv += c.Close * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return models.SignalHold, errors.New("vwap: zero cumulative volume")
	}

	vwap := pv / vol
	last := s[len(s)-1].Close
	switch {
	case last > vwap:
		return models.SignalBuy, nil
	case last < vwap:
		return models.SignalSell, nil
	default:
		return models.SignalHold, nil
	}
}
