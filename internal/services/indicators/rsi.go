package indicators

import "StockRadar/internal/domain/models"

// RSI computes the relative strength index. Average gain and loss follow the
// same exponential recurrence as EMA with alpha = 1/period, seeded with the
// first price delta. A value becomes defined once period deltas have been
// observed (period+1 bars).
//
// Conventions, deliberate and load-bearing:
//   - avgLoss == 0 with gains present  => RSI = 100
//   - avgGain == 0 and avgLoss == 0    => RSI = 50 (flat price)
//
// Neither falls out of division semantics; both are explicit.
func RSI(closes []float64, period int) []models.Value {
	out := make([]models.Value, len(closes))
	if period <= 0 || len(closes) < 2 {
		return out
	}
	alpha := 1.0 / float64(period)

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}

		if i < period {
			continue
		}
		switch {
		case avgGain == 0 && avgLoss == 0:
			out[i] = models.Defined(50)
		case avgLoss == 0:
			out[i] = models.Defined(100)
		default:
			rs := avgGain / avgLoss
			out[i] = models.Defined(100 - 100/(1+rs))
		}
	}
	return out
}
