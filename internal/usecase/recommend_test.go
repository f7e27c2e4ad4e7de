package usecase

import (
	"testing"

	"StockRadar/internal/domain/models"
)

func defined(v float64) models.Value { return models.Defined(v) }

func TestRecommendBreakoutOutranksPlatform(t *testing.T) {
	e := NewRecommendationEngine(DefaultScoringRules())

	plat := models.PlatformState{IsPlatform: true}
	base := e.Recommend(plat, models.BreakoutEvent{}, models.TrendState{}, models.IndicatorFrame{})
	if base.Score != 20 {
		t.Fatalf("platform-only score: got %d, want 20", base.Score)
	}

	brk := models.BreakoutEvent{HasBreakout: true, Strength: 100}
	withBrk := e.Recommend(plat, brk, models.TrendState{}, models.IndicatorFrame{})
	if withBrk.Score != 40 {
		t.Fatalf("breakout score: got %d, want 40 (platform points must not stack)", withBrk.Score)
	}
}

func TestRecommendAddingConditionsNeverLowersScore(t *testing.T) {
	e := NewRecommendationEngine(DefaultScoringRules())

	plat := models.PlatformState{}
	brk := models.BreakoutEvent{}
	tr := models.TrendState{}
	frame := models.IndicatorFrame{}

	prev := e.Recommend(plat, brk, tr, frame).Score

	steps := []func(){
		func() { plat.IsPlatform = true },
		func() { brk.HasBreakout = true; brk.Strength = 100 },
		func() { tr.BullishAlignment = true },
		func() { tr.TrendConsistency = true },
		func() { frame.RSI = defined(70) },
		func() { frame.K = defined(75); frame.D = defined(60) },
		func() { brk.VolumeRatio = 2.5 },
	}
	for i, step := range steps {
		step()
		got := e.Recommend(plat, brk, tr, frame).Score
		if got < prev {
			t.Fatalf("step %d lowered score from %d to %d", i, prev, got)
		}
		prev = got
	}
}

func TestRecommendRSIZones(t *testing.T) {
	e := NewRecommendationEngine(DefaultScoringRules())
	empty := models.IndicatorFrame{}

	neutral := e.Recommend(models.PlatformState{}, models.BreakoutEvent{}, models.TrendState{}, empty).Score

	strong := e.Recommend(models.PlatformState{}, models.BreakoutEvent{}, models.TrendState{},
		models.IndicatorFrame{RSI: defined(70)}).Score
	if strong != neutral+10 {
		t.Fatalf("RSI strong zone: got %d, want %d", strong, neutral+10)
	}

	overheated := e.Recommend(models.PlatformState{}, models.BreakoutEvent{}, models.TrendState{},
		models.IndicatorFrame{RSI: defined(90)}).Score
	if overheated != neutral-10 {
		t.Fatalf("RSI overheat: got %d, want %d", overheated, neutral-10)
	}

	undefinedRSI := e.Recommend(models.PlatformState{}, models.BreakoutEvent{}, models.TrendState{}, empty).Score
	if undefinedRSI != neutral {
		t.Fatalf("undefined RSI must be neutral: got %d, want %d", undefinedRSI, neutral)
	}
}

func TestRecommendActionCutoffs(t *testing.T) {
	e := NewRecommendationEngine(DefaultScoringRules())

	cases := []struct {
		name string
		plat models.PlatformState
		brk  models.BreakoutEvent
		tr   models.TrendState
		fr   models.IndicatorFrame
		want models.Action
	}{
		{
			name: "everything bullish",
			brk:  models.BreakoutEvent{HasBreakout: true, Strength: 100, VolumeRatio: 3},
			tr:   models.TrendState{BullishAlignment: true, TrendConsistency: true},
			fr:   models.IndicatorFrame{RSI: defined(70), K: defined(80), D: defined(60)},
			want: models.ActionStrongBuy,
		},
		{
			name: "breakout with volume and strong RSI",
			brk:  models.BreakoutEvent{HasBreakout: true, Strength: 75, VolumeRatio: 2.2},
			fr:   models.IndicatorFrame{RSI: defined(70)},
			want: models.ActionBuy, // 40 + 15 + 10
		},
		{
			name: "platform with alignment",
			plat: models.PlatformState{IsPlatform: true},
			tr:   models.TrendState{BullishAlignment: true},
			want: models.ActionWatch, // 20 + 20
		},
		{
			name: "nothing",
			want: models.ActionHold,
		},
	}
	for _, tc := range cases {
		rec := e.Recommend(tc.plat, tc.brk, tc.tr, tc.fr)
		if rec.Action != tc.want {
			t.Fatalf("%s: got %s (score %d), want %s", tc.name, rec.Action, rec.Score, tc.want)
		}
	}
}

func TestRecommendConfidenceBounds(t *testing.T) {
	e := NewRecommendationEngine(DefaultScoringRules())

	top := e.Recommend(
		models.PlatformState{},
		models.BreakoutEvent{HasBreakout: true, Strength: 100, VolumeRatio: 3},
		models.TrendState{BullishAlignment: true, TrendConsistency: true},
		models.IndicatorFrame{RSI: defined(70), K: defined(80), D: defined(60)},
	)
	if top.Score != 110 {
		t.Fatalf("max score: got %d, want 110", top.Score)
	}
	if top.Confidence != 0.95 {
		t.Fatalf("strong buy confidence cap: got %v, want 0.95", top.Confidence)
	}

	floor := e.Recommend(models.PlatformState{}, models.BreakoutEvent{}, models.TrendState{}, models.IndicatorFrame{})
	if floor.Action != models.ActionHold {
		t.Fatalf("empty inputs: got %s, want hold", floor.Action)
	}
	if floor.Confidence != 0.3 {
		t.Fatalf("hold confidence floor: got %v, want 0.3", floor.Confidence)
	}
}
