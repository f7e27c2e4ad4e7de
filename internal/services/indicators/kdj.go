package indicators

import "StockRadar/internal/domain/models"

// KDJResult holds the stochastic columns, aligned to the input series.
type KDJResult struct {
	K []models.Value
	D []models.Value
	J []models.Value // 3K - 2D, deliberately unbounded
}

// KDJ computes the stochastic oscillator.
//
//	RSV = (close - lowestLow(kPeriod)) / (highestHigh - lowestLow) * 100
//	K   = exponential smoothing of RSV with alpha = 1/dPeriod
//	D   = exponential smoothing of K   with alpha = 1/jPeriod
//	J   = 3K - 2D
//
// RSV is 50 when the window's high equals its low (zero-range guard). RSV,
// and therefore K/D/J, require a full kPeriod window.
func KDJ(bars []models.PriceBar, kPeriod, dPeriod, jPeriod int) KDJResult {
	n := len(bars)
	res := KDJResult{
		K: make([]models.Value, n),
		D: make([]models.Value, n),
		J: make([]models.Value, n),
	}
	if kPeriod <= 0 || dPeriod <= 0 || jPeriod <= 0 {
		return res
	}

	rsv := make([]models.Value, n)
	for i := kPeriod - 1; i < n; i++ {
		lo := bars[i-kPeriod+1].Low
		hi := bars[i-kPeriod+1].High
		for _, b := range bars[i-kPeriod+2 : i+1] {
			if b.Low < lo {
				lo = b.Low
			}
			if b.High > hi {
				hi = b.High
			}
		}
		if hi == lo {
			rsv[i] = models.Defined(50)
			continue
		}
		rsv[i] = models.Defined((bars[i].Close - lo) / (hi - lo) * 100)
	}

	res.K = expSmooth(rsv, 1.0/float64(dPeriod))
	res.D = expSmooth(res.K, 1.0/float64(jPeriod))
	for i := 0; i < n; i++ {
		k, ok := res.K[i].Float64()
		if !ok {
			continue
		}
		d, _ := res.D[i].Float64()
		res.J[i] = models.Defined(3*k - 2*d)
	}
	return res
}
