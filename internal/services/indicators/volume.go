package indicators

import "StockRadar/internal/domain/models"

// VolumeRatio computes, per index, today's amount divided by the mean amount
// of the baselinePeriod bars *preceding* it. The current bar is excluded
// from its own baseline so that a volume spike does not dilute the baseline
// it is measured against. Undefined until baselinePeriod prior bars exist or
// when the baseline is zero.
func VolumeRatio(amounts []float64, baselinePeriod int) []models.Value {
	out := make([]models.Value, len(amounts))
	if baselinePeriod <= 0 {
		return out
	}
	var sum float64
	for i, v := range amounts {
		if i >= baselinePeriod {
			baseline := sum / float64(baselinePeriod)
			if baseline > 0 {
				out[i] = models.Defined(v / baseline)
			}
		}
		sum += v
		if i >= baselinePeriod {
			sum -= amounts[i-baselinePeriod]
		}
	}
	return out
}
