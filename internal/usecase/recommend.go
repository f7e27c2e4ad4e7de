package usecase

import (
	"fmt"

	"StockRadar/internal/domain/models"
)

// ScoringRules holds every point value and cutoff of the recommendation
// scorer. All of it is configuration, none of it is buried in logic.
type ScoringRules struct {
	BreakoutPoints    int
	PlatformPoints    int
	AlignmentPoints   int
	ConsistencyPoints int
	RSIStrongPoints   int
	RSIOverheatMalus  int
	KDJPoints         int
	VolumePoints      int

	RSIStrongLow    float64
	RSIStrongHigh   float64
	KDJStrongK      float64
	VolumeExpansion float64

	StrongBuyCutoff int
	BuyCutoff       int
	WatchCutoff     int

	StrongBuyConfidenceCap float64
	BuyConfidenceCap       float64
	WatchConfidenceCap     float64
	HoldConfidenceFloor    float64
}

// DefaultScoringRules returns the documented defaults.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		BreakoutPoints:    40,
		PlatformPoints:    20,
		AlignmentPoints:   20,
		ConsistencyPoints: 15,
		RSIStrongPoints:   10,
		RSIOverheatMalus:  10,
		KDJPoints:         10,
		VolumePoints:      15,

		RSIStrongLow:    60,
		RSIStrongHigh:   80,
		KDJStrongK:      70,
		VolumeExpansion: 2.0,

		StrongBuyCutoff: 80,
		BuyCutoff:       60,
		WatchCutoff:     40,

		StrongBuyConfidenceCap: 0.95,
		BuyConfidenceCap:       0.85,
		WatchConfidenceCap:     0.75,
		HoldConfidenceFloor:    0.3,
	}
}

// RecommendationEngine is the single place a numeric score becomes a
// categorical action. The scorer is a commutative sum over independent
// condition contributions: adding a true condition never lowers the total,
// and contribution order cannot change it.
type RecommendationEngine struct {
	rules ScoringRules
}

func NewRecommendationEngine(rules ScoringRules) *RecommendationEngine {
	return &RecommendationEngine{rules: rules}
}

// Recommend scores the latest bar's signals. Undefined RSI/KDJ values are
// treated as neutral: they contribute no points in either direction.
func (e *RecommendationEngine) Recommend(
	plat models.PlatformState,
	brk models.BreakoutEvent,
	trend models.TrendState,
	frame models.IndicatorFrame,
) models.Recommendation {
	r := e.rules
	score := 0
	reasons := make([]string, 0, 6)

	if brk.HasBreakout {
		score += r.BreakoutPoints
		reasons = append(reasons, fmt.Sprintf("breakout with strength=%d", brk.Strength))
	} else if plat.IsPlatform {
		score += r.PlatformPoints
		reasons = append(reasons, "in consolidation, awaiting breakout")
	}

	if trend.BullishAlignment {
		score += r.AlignmentPoints
		reasons = append(reasons, "moving averages in bullish order")
	}
	if trend.TrendConsistency {
		score += r.ConsistencyPoints
		reasons = append(reasons, "multi-horizon momentum positive")
	}

	if rsi, ok := frame.RSI.Float64(); ok {
		switch {
		case rsi >= r.RSIStrongLow && rsi <= r.RSIStrongHigh:
			score += r.RSIStrongPoints
			reasons = append(reasons, fmt.Sprintf("RSI in strong zone (%.1f)", rsi))
		case rsi > r.RSIStrongHigh:
			score -= r.RSIOverheatMalus
			reasons = append(reasons, fmt.Sprintf("RSI overheated (%.1f)", rsi))
		}
	}

	k, okK := frame.K.Float64()
	d, okD := frame.D.Float64()
	if okK && okD && k > d && k > r.KDJStrongK {
		score += r.KDJPoints
		reasons = append(reasons, "KDJ bullish cross in strong zone")
	}

	if brk.VolumeRatio >= r.VolumeExpansion {
		score += r.VolumePoints
		reasons = append(reasons, fmt.Sprintf("volume expansion %.1fx", brk.VolumeRatio))
	}

	action, confidence := e.resolve(score)
	return models.Recommendation{
		Action:     action,
		Score:      score,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

// resolve maps the raw score to an action and its bounded confidence.
func (e *RecommendationEngine) resolve(score int) (models.Action, float64) {
	r := e.rules
	c := float64(score) / 100
	switch {
	case score >= r.StrongBuyCutoff:
		return models.ActionStrongBuy, min(c, r.StrongBuyConfidenceCap)
	case score >= r.BuyCutoff:
		return models.ActionBuy, min(c, r.BuyConfidenceCap)
	case score >= r.WatchCutoff:
		return models.ActionWatch, min(c, r.WatchConfidenceCap)
	default:
		return models.ActionHold, max(c, r.HoldConfidenceFloor)
	}
}
