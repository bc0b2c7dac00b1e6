package classify

import "github.com/oyabun/tendon/pkg/model"

// RiskLevel is the coarse interpretation of a risk probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"      // p < 0.3
	RiskModerate RiskLevel = "MODERATE" // 0.3 <= p < 0.6
	RiskHigh     RiskLevel = "HIGH"     // p >= 0.6
)

// LevelFromProbability bins a probability into a risk level.
func LevelFromProbability(p float64) RiskLevel {
	switch {
	case p < 0.3:
		return RiskLow
	case p < 0.6:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// Zone thresholds behind the recommendation rules.
const (
	acwrHighRisk      = 1.5
	acwrElevated      = 1.3
	acwrUndertrained  = 0.8
	wowLargeIncrease  = 0.20
	wowNotableRise    = 0.15
	monotonyRepetitve = 2.0
	strainOverload    = 150.0
)

// Recommendations derives training guidance from the feature vector's risk
// zones and the classifier's probability. Purely rule based; the rules
// mirror the ACWR sweet-spot literature.
func Recommendations(fv *model.FeatureVector, prob float64) []string {
	var recs []string

	if fv.ACWR.Valid {
		switch {
		case fv.ACWR.Value > acwrHighRisk:
			recs = append(recs, "ACWR is above 1.5: reduce training volume by 20-30% this week.")
		case fv.ACWR.Value > acwrElevated:
			recs = append(recs, "ACWR is elevated: consider reducing volume by 10-15%.")
		case fv.ACWR.Value < acwrUndertrained:
			recs = append(recs, "ACWR is low: training volume can be increased gradually.")
		default:
			recs = append(recs, "ACWR is in the optimal range (0.8-1.3).")
		}
	}

	if fv.WeekOverWeekChange.Valid {
		switch {
		case fv.WeekOverWeekChange.Value > wowLargeIncrease:
			recs = append(recs, "Large week-over-week increase detected: hold volume steady.")
		case fv.WeekOverWeekChange.Value > wowNotableRise:
			recs = append(recs, "Moderate week-over-week increase: monitor for signs of overuse.")
		}
	}

	if fv.Monotony.Valid && fv.Monotony.Value > monotonyRepetitve {
		recs = append(recs, "High training monotony: add variety to the training routine.")
	}

	if fv.Strain.Valid && fv.Strain.Value > strainOverload {
		recs = append(recs, "High training strain: ensure adequate recovery between sessions.")
	}

	switch {
	case prob < 0.3:
		recs = append(recs, "Low-risk zone: continue the current training plan.")
	case prob > 0.7:
		recs = append(recs, "High injury risk: consider a deload week.")
	}

	return recs
}
