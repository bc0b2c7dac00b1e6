package classify

import (
	"github.com/oyabun/tendon/pkg/model"
)

// ZoneClassifier is a deterministic rule-based classifier built from the
// published ACWR risk zones. It exists so the pipeline contract can be
// exercised end to end without a trained model; a learned classifier
// implementing the same interface replaces it in production.
type ZoneClassifier struct{}

// NewZoneClassifier creates a zone-based classifier.
func NewZoneClassifier() *ZoneClassifier {
	return &ZoneClassifier{}
}

// Schema returns the field set this classifier scores.
func (z *ZoneClassifier) Schema() []string {
	return model.FieldNames()
}

// Predict accumulates risk contributions from each zone the athlete-week
// falls into. The weights are heuristic but fixed, so identical inputs
// always score identically.
func (z *ZoneClassifier) Predict(fv *model.FeatureVector) (float64, error) {
	if !fv.Usable() {
		return 0, &model.HistoryError{
			AthleteID: fv.AthleteID,
			WeekIndex: fv.WeekIndex,
			Need:      4,
		}
	}

	p := 0.05 // background risk

	switch {
	case fv.ACWR.Value > acwrHighRisk:
		p += 0.35
	case fv.ACWR.Value > acwrElevated:
		p += 0.20
	case fv.ACWR.Value < acwrUndertrained:
		p += 0.05
	}

	if fv.Monotony.Value > monotonyRepetitve {
		p += 0.10
	}
	if fv.Strain.Value > strainOverload {
		p += 0.10
	}
	if fv.WeekOverWeekChange.Valid && fv.WeekOverWeekChange.Value > wowLargeIncrease {
		p += 0.10
	}
	if fv.RecentInjuryFlag == 1 {
		p += 0.15
	}
	if fv.WeeksAboveThreshold >= 2 {
		p += 0.10
	}

	if p > 1 {
		p = 1
	}
	return p, nil
}
