package indicators

import "StockRadar/internal/domain/models"

// MACDResult holds the three MACD columns, aligned to the input series.
type MACDResult struct {
	MACD      []models.Value // EMA(fast) - EMA(slow)
	Signal    []models.Value // EMA(MACD, signal)
	Histogram []models.Value // MACD - Signal
}

// MACD computes the moving average convergence/divergence series. Since both
// EMAs are defined from the first observation, so are all three columns.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	n := len(closes)
	res := MACDResult{
		MACD:      make([]models.Value, n),
		Signal:    nil,
		Histogram: make([]models.Value, n),
	}
	if n == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		res.Signal = make([]models.Value, n)
		return res
	}

	emaFast := ExponentialMovingAverage(closes, fast)
	emaSlow := ExponentialMovingAverage(closes, slow)
	for i := 0; i < n; i++ {
		f, _ := emaFast[i].Float64()
		s, _ := emaSlow[i].Float64()
		res.MACD[i] = models.Defined(f - s)
	}

	res.Signal = expSmooth(res.MACD, 2.0/float64(signal+1))

	for i := 0; i < n; i++ {
		m, _ := res.MACD[i].Float64()
		s, _ := res.Signal[i].Float64()
		res.Histogram[i] = models.Defined(m - s)
	}
	return res
}
