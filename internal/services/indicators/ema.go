package indicators

import "StockRadar/internal/domain/models"

// ExponentialMovingAverage computes the recurrence
//
//	EMA[0] = v[0]
//	EMA[t] = alpha*v[t] + (1-alpha)*EMA[t-1],  alpha = 2/(period+1)
//
// Defined from the first observation; there is no minimum-period gate.
func ExponentialMovingAverage(vals []float64, period int) []models.Value {
	out := make([]models.Value, len(vals))
	if period <= 0 || len(vals) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	ema := vals[0]
	out[0] = models.Defined(ema)
	for i := 1; i < len(vals); i++ {
		ema = alpha*vals[i] + (1-alpha)*ema
		out[i] = models.Defined(ema)
	}
	return out
}

// expSmooth folds vals with EMA[t] = alpha*v[t] + (1-alpha)*EMA[t-1], seeded
// with the first defined input. Undefined inputs before the seed stay
// undefined in the output; after the seed the inputs are assumed defined.
func expSmooth(vals []models.Value, alpha float64) []models.Value {
	out := make([]models.Value, len(vals))
	var acc float64
	seeded := false
	for i, v := range vals {
		x, ok := v.Float64()
		if !ok {
			continue
		}
		if !seeded {
			acc = x
			seeded = true
		} else {
			acc = alpha*x + (1-alpha)*acc
		}
		out[i] = models.Defined(acc)
	}
	return out
}
