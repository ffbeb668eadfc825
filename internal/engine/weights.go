package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds every tunable threshold and additive contribution used by
// the heuristics. Tuning one heuristic never touches another.
type Weights struct {
	Conversion ConversionWeights `yaml:"conversion"`
	Churn      ChurnWeights      `yaml:"churn"`
	Upsell     UpsellWeights     `yaml:"upsell"`
	Engagement EngagementWeights `yaml:"engagement"`
}

type ConversionWeights struct {
	Base              float64 `yaml:"base"`
	IntentThreshold   float64 `yaml:"intent_threshold"`
	IntentBoost       float64 `yaml:"intent_boost"`
	InterestThreshold float64 `yaml:"interest_threshold"`
	InterestBoost     float64 `yaml:"interest_boost"`
	QuizBoost         float64 `yaml:"quiz_boost"`
	RecentDayBoost    float64 `yaml:"recent_day_boost"`
	RecentThreeBoost  float64 `yaml:"recent_three_boost"`
	StalePenalty      float64 `yaml:"stale_penalty"`
	ProfileThreshold  float64 `yaml:"profile_threshold"`
	ProfileBoost      float64 `yaml:"profile_boost"`
	OpenCheckoutBoost float64 `yaml:"open_checkout_boost"`
	MinScore          float64 `yaml:"min_score"`
}

type ChurnWeights struct {
	Base                float64 `yaml:"base"`
	LongGapDays         int     `yaml:"long_gap_days"`
	LongGapBoost        float64 `yaml:"long_gap_boost"`
	MidGapDays          int     `yaml:"mid_gap_days"`
	MidGapBoost         float64 `yaml:"mid_gap_boost"`
	StaleDays           int     `yaml:"stale_days"`
	StaleBoost          float64 `yaml:"stale_boost"`
	VolatilityThreshold float64 `yaml:"volatility_threshold"`
	VolatilityBoost     float64 `yaml:"volatility_boost"`
	LowIntentThreshold  float64 `yaml:"low_intent_threshold"`
	LowIntentBoost      float64 `yaml:"low_intent_boost"`
	MinRisk             float64 `yaml:"min_risk"`
}

type UpsellWeights struct {
	Base             float64 `yaml:"base"`
	RepeatBoost      float64 `yaml:"repeat_boost"`
	RevenueThreshold float64 `yaml:"revenue_threshold"`
	RevenueBoost     float64 `yaml:"revenue_boost"`
	PremiumThreshold float64 `yaml:"premium_threshold"`
	PremiumBoost     float64 `yaml:"premium_boost"`
	RecentDays       int     `yaml:"recent_days"`
	RecentBoost      float64 `yaml:"recent_boost"`
	MinPotential     float64 `yaml:"min_potential"`
}

type EngagementWeights struct {
	Base             float64 `yaml:"base"`
	ActiveEventCount int     `yaml:"active_event_count"`
	ActiveWindowDays int     `yaml:"active_window_days"`
	ActiveBoost      float64 `yaml:"active_boost"`
	EntropyThreshold float64 `yaml:"entropy_threshold"`
	EntropyBoost     float64 `yaml:"entropy_boost"`
	SignalCount      int     `yaml:"signal_count"`
	SignalBoost      float64 `yaml:"signal_boost"`
}

// minFactors guards every heuristic against single-signal overconfidence:
// fewer than two recorded factors means no prediction.
const minFactors = 2

// DefaultWeights returns the production tuning.
func DefaultWeights() Weights {
	return Weights{
		Conversion: ConversionWeights{
			Base:              0.5,
			IntentThreshold:   0.6,
			IntentBoost:       0.25,
			InterestThreshold: 0.5,
			InterestBoost:     0.10,
			QuizBoost:         0.15,
			RecentDayBoost:    0.15,
			RecentThreeBoost:  0.08,
			StalePenalty:      0.10,
			ProfileThreshold:  0.7,
			ProfileBoost:      0.10,
			OpenCheckoutBoost: 0.20,
			MinScore:          0.3,
		},
		Churn: ChurnWeights{
			Base:                0.3,
			LongGapDays:         90,
			LongGapBoost:        0.3,
			MidGapDays:          60,
			MidGapBoost:         0.15,
			StaleDays:           30,
			StaleBoost:          0.2,
			VolatilityThreshold: 0.7,
			VolatilityBoost:     0.1,
			LowIntentThreshold:  0.2,
			LowIntentBoost:      0.1,
			MinRisk:             0.4,
		},
		Upsell: UpsellWeights{
			Base:             0.3,
			RepeatBoost:      0.2,
			RevenueThreshold: 500,
			RevenueBoost:     0.15,
			PremiumThreshold: 0.5,
			PremiumBoost:     0.2,
			RecentDays:       7,
			RecentBoost:      0.1,
			MinPotential:     0.4,
		},
		Engagement: EngagementWeights{
			Base:             0.5,
			ActiveEventCount: 3,
			ActiveWindowDays: 7,
			ActiveBoost:      0.2,
			EntropyThreshold: 0.7,
			EntropyBoost:     0.1,
			SignalCount:      5,
			SignalBoost:      0.15,
		},
	}
}

// LoadWeights reads a YAML override file on top of the defaults. Keys absent
// from the file keep their default; an explicit zero disables that factor.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parse weights: %w", err)
	}
	return w, nil
}
