package indicators

import "StockRadar/internal/domain/models"

// BuildFrame computes every indicator column over the series and returns the
// snapshot at index i. Derived from scratch on each call; nothing is cached
// between evaluations.
func BuildFrame(series *models.BarSeries, i int) models.IndicatorFrame {
	var f models.IndicatorFrame
	if i < 0 || i >= series.Len() {
		return f
	}
	closes := series.Closes()
	volumes := series.Volumes()
	amounts := series.Amounts()

	f.MA5 = MovingAverage(closes, MAShort)[i]
	f.MA10 = MovingAverage(closes, MAMedium)[i]
	f.MA20 = MovingAverage(closes, MALong)[i]
	f.MA30 = MovingAverage(closes, MAExtra)[i]

	f.EMA12 = ExponentialMovingAverage(closes, MACDFast)[i]
	f.EMA26 = ExponentialMovingAverage(closes, MACDSlow)[i]

	bands := BollingerBands(closes, BollPeriod, BollK)
	f.BollMid = bands.Mid[i]
	f.BollUpper = bands.Upper[i]
	f.BollLower = bands.Lower[i]
	f.BollWidth = bands.Width[i]
	f.PercentB = bands.PercentB[i]

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	f.MACD = macd.MACD[i]
	f.MACDSignal = macd.Signal[i]
	f.MACDHist = macd.Histogram[i]

	f.RSI = RSI(closes, RSIPeriod)[i]

	kdj := KDJ(series.Bars, KDJKPeriod, KDJDPeriod, KDJJPeriod)
	f.K = kdj.K[i]
	f.D = kdj.D[i]
	f.J = kdj.J[i]

	f.VolumeMA5 = MovingAverage(volumes, MAShort)[i]
	f.VolumeMA10 = MovingAverage(volumes, MAMedium)[i]
	f.VolumeMA20 = MovingAverage(volumes, MALong)[i]
	f.VolumeRatio = VolumeRatio(amounts, MALong)[i]

	f.Momentum5 = Momentum(closes, MAShort)[i]
	f.Momentum10 = Momentum(closes, MAMedium)[i]

	return f
}

// LatestFrame computes the indicator snapshot for the most recent bar.
func LatestFrame(series *models.BarSeries) models.IndicatorFrame {
	return BuildFrame(series, series.Len()-1)
}
