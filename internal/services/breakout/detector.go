// Package breakout flags bars that close above a prior consolidation range
// on confirming volume and price strength, and scores their strength.
package breakout

import (
	"StockRadar/internal/domain/models"
	"StockRadar/internal/services/indicators"
	"StockRadar/internal/services/platform"
)

// Detector combines price, volume, and platform state for the latest bar.
type Detector struct {
	platform        *platform.Detector
	volumeThreshold float64 // amount ratio floor, default 2.0
	priceThreshold  float64 // daily return floor, default 0.03
	strongReturn    float64 // return earning the full momentum bonus
}

// NewDetector builds a breakout detector sharing the platform detector's
// window semantics.
func NewDetector(p *platform.Detector, volumeThreshold, priceThreshold float64) *Detector {
	return &Detector{
		platform:        p,
		volumeThreshold: volumeThreshold,
		priceThreshold:  priceThreshold,
		strongReturn:    0.05,
	}
}

// Detect evaluates the latest bar against the platform formed by the window
// *preceding* it: a breakout bar must clear a range it was not part of, and
// its volume ratio is measured against a baseline that excludes it.
//
// The strength score is additive and independent of the boolean flag, so a
// near-miss bar still ranks by partial strength.
func (d *Detector) Detect(series *models.BarSeries) (models.BreakoutEvent, error) {
	var ev models.BreakoutEvent
	latest, ok := series.Latest()
	if !ok {
		return ev, models.ErrInsufficientHistory
	}

	// Platform over the bars before the latest one.
	prior, err := d.platform.DetectAt(series, series.Len()-2)
	if err != nil {
		return ev, err
	}

	ratio, defined := indicators.VolumeRatio(series.Amounts(), indicators.MALong)[series.Len()-1].Float64()
	if !defined {
		return ev, models.ErrInsufficientHistory
	}
	ev.VolumeRatio = ratio

	if latest.Open <= 0 {
		return ev, &models.IntegrityError{Symbol: series.Symbol, Reason: "non-positive open on latest bar"}
	}
	ev.PriceChange = (latest.Close - latest.Open) / latest.Open

	ev.AbovePlatform = latest.Close > prior.WindowHigh
	ev.VolumeConfirmed = ratio >= d.volumeThreshold
	ev.StrongCandle = ev.PriceChange >= d.priceThreshold
	ev.BullishCandle = latest.Close > latest.Open
	ev.HasBreakout = ev.AbovePlatform && ev.VolumeConfirmed && ev.StrongCandle && ev.BullishCandle

	ev.Strength = d.strength(ev)
	return ev, nil
}

// strength scores 0..100: 25 points per met condition, plus a momentum bonus
// of 25 for a daily return >= strongReturn or 15 for one >= priceThreshold.
func (d *Detector) strength(ev models.BreakoutEvent) int {
	s := 0
	if ev.AbovePlatform {
		s += 25
	}
	if ev.VolumeConfirmed {
		s += 25
	}
	if ev.StrongCandle {
		s += 25
	}
	switch {
	case ev.PriceChange >= d.strongReturn:
		s += 25
	case ev.PriceChange >= d.priceThreshold:
		s += 15
	}
	return s
}
