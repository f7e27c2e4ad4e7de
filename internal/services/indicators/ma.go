// Package indicators computes technical indicator series over ordered daily
// bars. Every function is pure: bit-for-bit identical output for identical
// input, no shared state, no wall clock. Recurrence-based indicators
// (EMA, RSI, KDJ smoothing) are implemented as a fold over the series with an
// explicit carried accumulator rather than per-index window recomputation.
//
// "Not enough history yet" is an undefined models.Value, never a NaN.
package indicators

import "StockRadar/internal/domain/models"

// Standard periods used by the frame builder.
const (
	MAShort  = 5
	MAMedium = 10
	MALong   = 20
	MAExtra  = 30

	BollPeriod = 20
	BollK      = 2.0

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	RSIPeriod = 14

	KDJKPeriod = 9
	KDJDPeriod = 3
	KDJJPeriod = 3
)

// MovingAverage returns the simple arithmetic mean of the last period values
// at each index. Undefined until period observations exist; there is no
// partial-window averaging, which downstream alignment logic relies on.
func MovingAverage(vals []float64, period int) []models.Value {
	out := make([]models.Value, len(vals))
	if period <= 0 {
		return out
	}
	var sum float64
	for i, v := range vals {
		sum += v
		if i >= period {
			sum -= vals[i-period]
		}
		if i >= period-1 {
			out[i] = models.Defined(sum / float64(period))
		}
	}
	return out
}

// Momentum returns close/close[i-lag] - 1 at each index, undefined while
// fewer than lag prior observations exist or when the reference close is
// non-positive.
func Momentum(closes []float64, lag int) []models.Value {
	out := make([]models.Value, len(closes))
	if lag <= 0 {
		return out
	}
	for i := lag; i < len(closes); i++ {
		ref := closes[i-lag]
		if ref <= 0 {
			continue
		}
		out[i] = models.Defined(closes[i]/ref - 1)
	}
	return out
}
