package models

import (
	"strconv"
	"time"
)

// PriceBar is one trading day's OHLCV(amount) record for an instrument.
// Immutable once produced.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Amount float64   `json:"amount"` // turnover in currency units
}

// BarSeries is an ordered daily bar sequence for one instrument, ascending
// by date. Non-trading days are simply absent; duplicate or out-of-order
// dates are a data fault, not a tolerated state.
type BarSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

func (s *BarSeries) Len() int { return len(s.Bars) }

// Latest returns the most recent bar. The second result is false on an
// empty series.
func (s *BarSeries) Latest() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Closes returns the close column in bar order.
func (s *BarSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Amounts returns the turnover column in bar order.
func (s *BarSeries) Amounts() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Amount
	}
	return out
}

// Volumes returns the volume column in bar order.
func (s *BarSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the series integrity preconditions: strictly increasing
// dates and OHLC ordering per bar. It returns an *IntegrityError describing
// the first violation, or nil.
func (s *BarSeries) Validate() error {
	for i, b := range s.Bars {
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return &IntegrityError{
				Symbol: s.Symbol,
				Reason: "non-monotonic dates at index " + strconv.Itoa(i),
			}
		}
		if b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
			return &IntegrityError{
				Symbol: s.Symbol,
				Reason: "OHLC ordering violated at index " + strconv.Itoa(i),
			}
		}
		if b.Open < 0 || b.Low < 0 || b.Volume < 0 || b.Amount < 0 {
			return &IntegrityError{
				Symbol: s.Symbol,
				Reason: "negative field at index " + strconv.Itoa(i),
			}
		}
	}
	return nil
}

// Instrument is the metadata the universe provider attaches to a symbol.
type Instrument struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Tags           []string `json:"tags,omitempty"` // e.g. "suspended", "st"
	LiquidityClass string   `json:"liquidity_class,omitempty"`
}

// HasTag reports whether the instrument carries the given exclusion tag.
func (m Instrument) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

