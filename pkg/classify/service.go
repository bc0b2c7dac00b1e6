package classify

import (
	"fmt"

	"github.com/oyabun/tendon/pkg/model"
)

// Assessment is the full risk read-out for one athlete-week.
type Assessment struct {
	AthleteID          string       `json:"athlete_id"`
	WeekIndex          int          `json:"week_index"`
	RiskScore          float64      `json:"risk_score"`
	RiskLevel          RiskLevel    `json:"risk_level"`
	ACWR               model.Metric `json:"acwr"`
	Monotony           model.Metric `json:"monotony"`
	Strain             model.Metric `json:"strain"`
	WeekOverWeekChange model.Metric `json:"week_over_week_change"`
	Recommendations    []string     `json:"recommendations"`
}

// Service wraps a classifier behind the schema contract. It is constructed
// once at process start, validated immediately, and read-only thereafter;
// swapping models means constructing a new Service.
type Service struct {
	clf Classifier
}

// NewService validates the classifier's schema against the composer's
// field set and returns a ready service. A schema mismatch is fatal here,
// at startup, never at request time.
func NewService(clf Classifier) (*Service, error) {
	if err := CheckSchema(clf.Schema()); err != nil {
		return nil, fmt.Errorf("classifier rejected: %w", err)
	}
	return &Service{clf: clf}, nil
}

// Assess scores one feature vector and interprets the result. Rows without
// sufficient history surface the insufficient-history error unchanged.
func (s *Service) Assess(fv *model.FeatureVector) (*Assessment, error) {
	prob, err := s.clf.Predict(fv)
	if err != nil {
		return nil, err
	}
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("classifier returned probability %v outside [0,1]", prob)
	}
	return &Assessment{
		AthleteID:          fv.AthleteID,
		WeekIndex:          fv.WeekIndex,
		RiskScore:          prob,
		RiskLevel:          LevelFromProbability(prob),
		ACWR:               fv.ACWR,
		Monotony:           fv.Monotony,
		Strain:             fv.Strain,
		WeekOverWeekChange: fv.WeekOverWeekChange,
		Recommendations:    Recommendations(fv, prob),
	}, nil
}
