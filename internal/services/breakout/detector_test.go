package breakout

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockRadar/internal/domain/models"
	"StockRadar/internal/services/platform"
)

// consolidation returns n flat bars at the given close followed by one extra
// bar the caller shapes.
func consolidation(n int, close float64, last models.PriceBar) *models.BarSeries {
	bars := make([]models.PriceBar, 0, n+1)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bars = append(bars, models.PriceBar{
			Date: day.AddDate(0, 0, i),
			Open: close, High: close, Low: close, Close: close,
			Volume: 1e6, Amount: 10e6,
		})
	}
	last.Date = day.AddDate(0, 0, n)
	bars = append(bars, last)
	return &models.BarSeries{Symbol: "TEST", Bars: bars}
}

func newTestDetector() *Detector {
	return NewDetector(platform.NewDetector(20, 0.15, 0.03), 2.0, 0.03)
}

func TestDetectConfirmedBreakout(t *testing.T) {
	s := consolidation(20, 10, models.PriceBar{
		Open: 10, High: 11, Low: 10, Close: 11,
		Volume: 3e6, Amount: 30e6,
	})

	ev, err := newTestDetector().Detect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.HasBreakout {
		t.Fatalf("expected breakout: %+v", ev)
	}
	if ev.Strength != 100 {
		t.Fatalf("strength: got %d, want 100", ev.Strength)
	}
	if math.Abs(ev.VolumeRatio-3.0) > 1e-9 {
		t.Fatalf("volume ratio: got %v, want 3.0", ev.VolumeRatio)
	}
	if math.Abs(ev.PriceChange-0.1) > 1e-9 {
		t.Fatalf("price change: got %v, want 0.1", ev.PriceChange)
	}
}

func TestDetectFlagMatchesSubConditions(t *testing.T) {
	cases := []models.PriceBar{
		{Open: 10, High: 11, Low: 10, Close: 11, Volume: 3e6, Amount: 30e6},    // all four
		{Open: 10, High: 11, Low: 10, Close: 11, Volume: 1e6, Amount: 10e6},    // no volume
		{Open: 10, High: 10.25, Low: 10, Close: 10.25, Volume: 3e6, Amount: 30e6}, // weak candle
		{Open: 10, High: 10, Low: 9, Close: 9.5, Volume: 3e6, Amount: 30e6},    // bearish
	}
	d := newTestDetector()
	for i, last := range cases {
		ev, err := d.Detect(consolidation(20, 10, last))
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		want := ev.AbovePlatform && ev.VolumeConfirmed && ev.StrongCandle && ev.BullishCandle
		if ev.HasBreakout != want {
			t.Fatalf("case %d: flag %v disagrees with sub-conditions %+v", i, ev.HasBreakout, ev)
		}
	}
}

func TestDetectNearMissScoresPartialStrength(t *testing.T) {
	// Clears the range on volume but the candle is too small to confirm.
	s := consolidation(20, 10, models.PriceBar{
		Open: 10, High: 10.25, Low: 10, Close: 10.25,
		Volume: 3e6, Amount: 30e6,
	})

	ev, err := newTestDetector().Detect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.HasBreakout {
		t.Fatalf("2.5%% candle must not confirm a breakout")
	}
	if ev.Strength != 50 {
		t.Fatalf("strength: got %d, want 50", ev.Strength)
	}
}

func TestDetectInsufficientHistory(t *testing.T) {
	s := consolidation(10, 10, models.PriceBar{
		Open: 10, High: 11, Low: 10, Close: 11, Volume: 3e6, Amount: 30e6,
	})
	_, err := newTestDetector().Detect(s)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("got %v, want ErrInsufficientHistory", err)
	}
}

func TestDetectNonPositiveOpen(t *testing.T) {
	s := consolidation(20, 10, models.PriceBar{
		Open: 0, High: 11, Low: 0, Close: 11, Volume: 3e6, Amount: 30e6,
	})
	_, err := newTestDetector().Detect(s)
	if !models.IsIntegrityError(err) {
		t.Fatalf("got %v, want IntegrityError", err)
	}
}
