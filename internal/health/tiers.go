package health

// RiskTiers partitions the [0,1] risk score range into three contiguous
// bands: low, medium, high. The band widths are tuning policy, not domain
// law; they must sum to 1. An item is High risk at score >= low+medium and
// Medium risk at score >= low. The same bands drive insight wording and
// the gauge arcs on the dashboard, so bucketing and labeling share one
// threshold source.
type RiskTiers struct {
	Low    float64 `yaml:"low" json:"low"`
	Medium float64 `yaml:"medium" json:"medium"`
	High   float64 `yaml:"high" json:"high"`
}

// DefaultRiskTiers is the shipped policy: 0.2 / 0.3 / 0.5.
func DefaultRiskTiers() RiskTiers {
	return RiskTiers{Low: 0.2, Medium: 0.3, High: 0.5}
}

// Valid reports whether the three bands are positive and sum to 1.
func (t RiskTiers) Valid() bool {
	if t.Low <= 0 || t.Medium <= 0 || t.High <= 0 {
		return false
	}
	sum := t.Low + t.Medium + t.High
	return sum > 0.999 && sum < 1.001
}

// HighThreshold is the score at which an item becomes High risk.
func (t RiskTiers) HighThreshold() float64 { return t.Low + t.Medium }

// MediumThreshold is the score at which an item becomes Medium risk.
func (t RiskTiers) MediumThreshold() float64 { return t.Low }

func (t RiskTiers) IsHigh(score float64) bool { return score >= t.HighThreshold() }

func (t RiskTiers) IsMedium(score float64) bool {
	return score >= t.MediumThreshold() && score < t.HighThreshold()
}

// Label returns the display tier for a score: "Low", "Medium" or "High".
func (t RiskTiers) Label(score float64) string {
	switch {
	case t.IsHigh(score):
		return "High"
	case t.IsMedium(score):
		return "Medium"
	default:
		return "Low"
	}
}
