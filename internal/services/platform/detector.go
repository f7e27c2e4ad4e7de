// Package platform classifies consolidation ranges: a low-volatility window
// whose moving averages have converged, the setup a volume-confirmed
// breakout resolves.
package platform

import (
	"StockRadar/internal/domain/models"
	"StockRadar/internal/services/indicators"
)

// Detector scans a rolling window for consolidation.
type Detector struct {
	window        int     // bars in the detection window
	maxVolatility float64 // (high-low)/low cap for a platform
	convergence   float64 // MA deviation bound for ma_convergence
}

// NewDetector builds a detector. Window and volatility cap come from
// configuration; the MA convergence bound is 3% unless overridden.
func NewDetector(window int, maxVolatility, convergence float64) *Detector {
	if convergence <= 0 {
		convergence = 0.03
	}
	return &Detector{window: window, maxVolatility: maxVolatility, convergence: convergence}
}

// Detect classifies the window ending at the latest bar.
// Returns models.ErrInsufficientHistory when fewer than window bars exist
// and an *models.IntegrityError when the window low is not positive: a
// zero low is broken data, not a division candidate.
func (d *Detector) Detect(series *models.BarSeries) (models.PlatformState, error) {
	return d.DetectAt(series, series.Len()-1)
}

// DetectAt classifies the window of d.window bars ending at index end.
func (d *Detector) DetectAt(series *models.BarSeries, end int) (models.PlatformState, error) {
	var st models.PlatformState
	if end < 0 || end >= series.Len() || end+1 < d.window {
		return st, models.ErrInsufficientHistory
	}

	window := series.Bars[end+1-d.window : end+1]
	hi, lo := window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > hi {
			hi = b.High
		}
		if b.Low < lo {
			lo = b.Low
		}
	}
	if lo <= 0 {
		return st, &models.IntegrityError{
			Symbol: series.Symbol,
			Reason: "non-positive window low",
		}
	}

	st.WindowHigh = hi
	st.WindowLow = lo
	st.Volatility = (hi - lo) / lo
	st.IsPlatform = st.Volatility <= d.maxVolatility
	st.MAConvergence = d.maConvergence(series, end)
	return st, nil
}

// maConvergence is true when |MA5-MA10|/MA10 and |MA10-MA20|/MA20 are both
// under the bound. Undefined averages yield false, not an error.
func (d *Detector) maConvergence(series *models.BarSeries, end int) bool {
	closes := series.Closes()[:end+1]
	last := len(closes) - 1

	ma5, ok5 := at(indicators.MovingAverage(closes, indicators.MAShort), last)
	ma10, ok10 := at(indicators.MovingAverage(closes, indicators.MAMedium), last)
	ma20, ok20 := at(indicators.MovingAverage(closes, indicators.MALong), last)
	if !ok5 || !ok10 || !ok20 || ma10 == 0 || ma20 == 0 {
		return false
	}

	return abs(ma5-ma10)/ma10 < d.convergence && abs(ma10-ma20)/ma20 < d.convergence
}

func at(vals []models.Value, i int) (float64, bool) {
	if i < 0 || i >= len(vals) {
		return 0, false
	}
	return vals[i].Float64()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
