package indicators

import (
	"math"

	"StockRadar/internal/domain/models"
)

// Bands holds the Bollinger band columns, aligned to the input series.
type Bands struct {
	Mid      []models.Value
	Upper    []models.Value
	Lower    []models.Value
	Width    []models.Value // (upper-lower)/mid, convergence gauge
	PercentB []models.Value // (close-lower)/(upper-lower), may leave [0,1]
}

// BollingerBands computes MID as the simple moving average and the bands as
// MID ± k·σ, where σ is the rolling *sample* standard deviation (ddof=1)
// over the same window. Upper ≥ Mid ≥ Lower holds for every defined index.
func BollingerBands(closes []float64, period int, k float64) Bands {
	n := len(closes)
	b := Bands{
		Mid:      make([]models.Value, n),
		Upper:    make([]models.Value, n),
		Lower:    make([]models.Value, n),
		Width:    make([]models.Value, n),
		PercentB: make([]models.Value, n),
	}
	if period <= 1 {
		return b
	}
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		var sum float64
		for _, v := range window {
			sum += v
		}
		mean := sum / float64(period)

		var sq float64
		for _, v := range window {
			d := v - mean
			sq += d * d
		}
		sigma := math.Sqrt(sq / float64(period-1))

		upper := mean + k*sigma
		lower := mean - k*sigma

		b.Mid[i] = models.Defined(mean)
		b.Upper[i] = models.Defined(upper)
		b.Lower[i] = models.Defined(lower)
		if mean != 0 {
			b.Width[i] = models.Defined((upper - lower) / mean)
		}
		if band := upper - lower; band > 0 {
			b.PercentB[i] = models.Defined((closes[i] - lower) / band)
		}
	}
	return b
}
