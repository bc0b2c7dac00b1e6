package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyabun/tendon/pkg/model"
)

func usableVector(acwr float64) *model.FeatureVector {
	fv := model.NewFeatureVector("ath-1", 6)
	fv.AcuteLoad = 100
	fv.ChronicLoad = model.Defined(100)
	fv.ACWR = model.Defined(acwr)
	fv.Monotony = model.Defined(1.5)
	fv.Strain = model.Defined(100)
	fv.WeekOverWeekChange = model.Defined(0)
	return fv
}

func TestLevelFromProbability(t *testing.T) {
	assert.Equal(t, RiskLow, LevelFromProbability(0.0))
	assert.Equal(t, RiskLow, LevelFromProbability(0.29))
	assert.Equal(t, RiskModerate, LevelFromProbability(0.3))
	assert.Equal(t, RiskModerate, LevelFromProbability(0.59))
	assert.Equal(t, RiskHigh, LevelFromProbability(0.6))
	assert.Equal(t, RiskHigh, LevelFromProbability(1.0))
}

func TestZoneClassifierSweetSpot(t *testing.T) {
	clf := NewZoneClassifier()
	p, err := clf.Predict(usableVector(1.0))
	require.NoError(t, err)
	assert.InDelta(t, 0.05, p, 1e-12, "sweet spot carries only background risk")
}

func TestZoneClassifierZones(t *testing.T) {
	clf := NewZoneClassifier()

	tests := []struct {
		name string
		acwr float64
		want float64
	}{
		{"undertrained", 0.5, 0.10},
		{"optimal", 1.0, 0.05},
		{"elevated", 1.4, 0.25},
		{"high risk", 1.7, 0.40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := clf.Predict(usableVector(tt.acwr))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p, 1e-12)
		})
	}
}

func TestZoneClassifierAccumulates(t *testing.T) {
	fv := usableVector(1.7)
	fv.Monotony = model.Defined(3)
	fv.Strain = model.Defined(400)
	fv.WeekOverWeekChange = model.Defined(0.5)
	fv.RecentInjuryFlag = 1
	fv.WeeksAboveThreshold = 3

	clf := NewZoneClassifier()
	p, err := clf.Predict(fv)
	require.NoError(t, err)
	// 0.05 + 0.35 + 0.10 + 0.10 + 0.10 + 0.15 + 0.10 = 0.95
	assert.InDelta(t, 0.95, p, 1e-12)
}

func TestZoneClassifierClampsAtOne(t *testing.T) {
	fv := usableVector(1.7)
	fv.Monotony = model.Defined(11)
	fv.Strain = model.Defined(10000)
	fv.WeekOverWeekChange = model.Defined(2)
	fv.RecentInjuryFlag = 1
	fv.WeeksAboveThreshold = 8
	// saturating every zone would exceed 1 without the clamp; monotony 11
	// comes pre-capped in real rows but the classifier must not care

	clf := NewZoneClassifier()
	p, err := clf.Predict(fv)
	require.NoError(t, err)
	assert.LessOrEqual(t, p, 1.0)
}

func TestZoneClassifierRejectsUnusable(t *testing.T) {
	clf := NewZoneClassifier()
	_, err := clf.Predict(model.NewFeatureVector("ath-1", 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))
}

func TestCheckSchema(t *testing.T) {
	require.NoError(t, CheckSchema(model.FieldNames()))

	// missing field
	short := model.FieldNames()[:16]
	err := CheckSchema(short)
	require.Error(t, err)
	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Unexpected, "baseline_weekly_load")

	// unknown field
	extra := append(model.FieldNames(), "heart_rate_variability")
	err = CheckSchema(extra)
	require.Error(t, err)
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "heart_rate_variability")

	// same set, different order
	swapped := model.FieldNames()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	err = CheckSchema(swapped)
	require.Error(t, err)
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Detail, "order")
	assert.True(t, errors.Is(err, model.ErrSchemaMismatch))
}

func TestServiceAssess(t *testing.T) {
	svc, err := NewService(NewZoneClassifier())
	require.NoError(t, err)

	fv := usableVector(1.7)
	assessment, err := svc.Assess(fv)
	require.NoError(t, err)

	assert.Equal(t, "ath-1", assessment.AthleteID)
	assert.Equal(t, 6, assessment.WeekIndex)
	assert.InDelta(t, 0.40, assessment.RiskScore, 1e-12)
	assert.Equal(t, RiskModerate, assessment.RiskLevel)
	assert.NotEmpty(t, assessment.Recommendations)
}

func TestServiceRejectsUnusableRow(t *testing.T) {
	svc, err := NewService(NewZoneClassifier())
	require.NoError(t, err)

	_, err = svc.Assess(model.NewFeatureVector("ath-1", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))
}

type wrongSchemaClassifier struct{}

func (c *wrongSchemaClassifier) Schema() []string { return []string{"acwr", "monotony"} }
func (c *wrongSchemaClassifier) Predict(fv *model.FeatureVector) (float64, error) {
	return 0, nil
}

func TestServiceRejectsSchemaMismatchAtConstruction(t *testing.T) {
	_, err := NewService(&wrongSchemaClassifier{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSchemaMismatch))
}

func TestRecommendations(t *testing.T) {
	fv := usableVector(1.7)
	recs := Recommendations(fv, 0.8)

	joined := ""
	for _, r := range recs {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "reduce training volume")
	assert.Contains(t, joined, "deload week")

	low := Recommendations(usableVector(1.0), 0.05)
	joined = ""
	for _, r := range low {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "optimal range")
	assert.Contains(t, joined, "current training plan")
}
