// Package trend derives trend-confirmation booleans from moving-average
// alignment and multi-horizon momentum.
package trend

import "StockRadar/internal/domain/models"

// Score reads the precomputed frame for the latest bar and the close price.
//
//   - bullish_alignment: MA5 > MA10 > MA20, all defined
//   - price_above_ma20:  close > MA20
//   - trend_consistency: 5- and 10-bar momentum both positive, both defined
func Score(frame models.IndicatorFrame, close float64) models.TrendState {
	st := models.TrendState{
		Momentum5:  frame.Momentum5,
		Momentum10: frame.Momentum10,
	}

	ma5, ok5 := frame.MA5.Float64()
	ma10, ok10 := frame.MA10.Float64()
	ma20, ok20 := frame.MA20.Float64()
	if ok5 && ok10 && ok20 {
		st.BullishAlignment = ma5 > ma10 && ma10 > ma20
	}
	if ok20 {
		st.PriceAboveMA20 = close > ma20
	}

	m5, okM5 := frame.Momentum5.Float64()
	m10, okM10 := frame.Momentum10.Float64()
	if okM5 && okM10 {
		st.TrendConsistency = m5 > 0 && m10 > 0
	}
	return st
}
