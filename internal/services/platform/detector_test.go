package platform

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockRadar/internal/domain/models"
)

func flatSeries(n int, close float64) *models.BarSeries {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: close, High: close, Low: close, Close: close,
			Volume: 1e6, Amount: close * 1e6,
		}
	}
	return &models.BarSeries{Symbol: "TEST", Bars: bars}
}

func TestDetectFlatWindowIsPlatform(t *testing.T) {
	d := NewDetector(20, 0.15, 0.03)
	st, err := d.Detect(flatSeries(20, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.IsPlatform {
		t.Fatalf("flat window must be a platform: %+v", st)
	}
	if !st.MAConvergence {
		t.Fatalf("identical moving averages must converge")
	}
	if st.Volatility != 0 {
		t.Fatalf("flat window volatility: got %v, want 0", st.Volatility)
	}
}

func TestDetectVolatileWindowIsNotPlatform(t *testing.T) {
	s := flatSeries(20, 10)
	s.Bars[5].High = 13
	s.Bars[5].Close = 13
	s.Bars[12].Low = 9
	s.Bars[12].Open = 9

	d := NewDetector(20, 0.15, 0.03)
	st, err := d.Detect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (13-9)/9 ≈ 0.444
	if math.Abs(st.Volatility-4.0/9.0) > 1e-9 {
		t.Fatalf("volatility: got %v", st.Volatility)
	}
	if st.IsPlatform {
		t.Fatalf("44%% range must not classify as platform")
	}
}

func TestDetectInsufficientHistory(t *testing.T) {
	d := NewDetector(20, 0.15, 0.03)
	_, err := d.Detect(flatSeries(10, 10))
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("got %v, want ErrInsufficientHistory", err)
	}
}

func TestDetectZeroLowIsIntegrityError(t *testing.T) {
	s := flatSeries(20, 10)
	s.Bars[7].Low = 0

	d := NewDetector(20, 0.15, 0.03)
	_, err := d.Detect(s)
	if !models.IsIntegrityError(err) {
		t.Fatalf("got %v, want IntegrityError", err)
	}
}

func TestDetectAtUsesWindowEndingAtIndex(t *testing.T) {
	// Index 19 window must not see the spike at index 20.
	s := flatSeries(21, 10)
	s.Bars[20].High = 15
	s.Bars[20].Close = 15

	d := NewDetector(20, 0.15, 0.03)
	st, err := d.DetectAt(s, 19)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.WindowHigh != 10 {
		t.Fatalf("window high: got %v, want 10", st.WindowHigh)
	}
}
