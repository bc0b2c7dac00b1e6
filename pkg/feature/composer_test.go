package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/window"
)

func testProfile() model.AthleteProfile {
	return model.AthleteProfile{
		AthleteID:          "ath-1",
		Age:                28,
		ExperienceYears:    6,
		BaselineWeeklyLoad: 30,
	}
}

func statsFor(t *testing.T, loads ...float64) []window.Stat {
	t.Helper()
	records := make([]model.TrainingRecord, len(loads))
	for i, load := range loads {
		records[i] = model.TrainingRecord{AthleteID: "ath-1", WeekIndex: i + 1, WeeklyLoad: load}
	}
	engine := window.NewEngine(window.DefaultConfig())
	stats, err := engine.Compute(records)
	require.NoError(t, err)
	return stats
}

func composeFor(t *testing.T, loads ...float64) []model.FeatureVector {
	t.Helper()
	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), statsFor(t, loads...))
	require.NoError(t, err)
	return rows
}

func TestComposeSteadyLoadSweetSpot(t *testing.T) {
	rows := composeFor(t, 30, 30, 30, 30)
	require.Len(t, rows, 4)

	last := rows[3]
	require.True(t, last.ACWR.Valid)
	assert.InDelta(t, 1.0, last.ACWR.Value, 1e-12, "steady load sits at the sweet spot")

	// perfectly flat load saturates monotony at the cap, not a divide by zero
	require.True(t, last.Monotony.Valid)
	assert.Equal(t, 10.0, last.Monotony.Value)

	require.True(t, last.Strain.Valid)
	assert.InDelta(t, 300.0, last.Strain.Value, 1e-12)

	require.True(t, last.WeekOverWeekChange.Valid)
	assert.InDelta(t, 0.0, last.WeekOverWeekChange.Value, 1e-12)
}

func TestComposeLoadSpike(t *testing.T) {
	rows := composeFor(t, 20, 20, 20, 20, 40)
	require.Len(t, rows, 5)

	last := rows[4]
	require.True(t, last.WeekOverWeekChange.Valid)
	assert.InDelta(t, 1.0, last.WeekOverWeekChange.Value, 1e-12, "doubling load is a +100% change")

	require.True(t, last.ACWR.Valid)
	assert.InDelta(t, 1.6, last.ACWR.Value, 1e-12)
}

func TestComposeRampScenario(t *testing.T) {
	rows := composeFor(t, 30, 30, 30, 45)
	last := rows[3]

	assert.Equal(t, 45.0, last.AcuteLoad)
	require.True(t, last.ChronicLoad.Valid)
	assert.InDelta(t, 33.75, last.ChronicLoad.Value, 1e-12)
	require.True(t, last.ACWR.Valid)
	assert.InDelta(t, 45.0/33.75, last.ACWR.Value, 1e-12)
}

func TestComposeMissingBeforeFullWindow(t *testing.T) {
	rows := composeFor(t, 30, 30, 30, 30, 30)

	for i := 0; i < 3; i++ {
		assert.False(t, rows[i].ACWR.Valid, "week %d", rows[i].WeekIndex)
		assert.False(t, rows[i].Usable(), "week %d", rows[i].WeekIndex)
	}
	assert.False(t, rows[0].Monotony.Valid, "single week has no rolling std")
	assert.True(t, rows[3].Usable())
	assert.True(t, rows[4].Usable())
}

func TestComposeStreak(t *testing.T) {
	// hand-built stats with known ACWR values: 1.4, 1.5, 1.2, 1.6, 1.6
	acwrs := []float64{1.4, 1.5, 1.2, 1.6, 1.6}
	stats := make([]window.Stat, len(acwrs))
	for i, a := range acwrs {
		stats[i] = window.Stat{
			WeekIndex:   i + 1,
			WeeklyLoad:  a * 10,
			AcuteLoad:   a * 10,
			ChronicLoad: model.Defined(10),
			RollingMean: model.Defined(10),
			RollingStd:  model.Defined(1),
			Observed:    true,
		}
	}

	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), stats)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	want := []int{1, 2, 0, 1, 2}
	for i, w := range want {
		assert.Equal(t, w, rows[i].WeeksAboveThreshold, "week %d", rows[i].WeekIndex)
	}
}

func TestComposeStreakResetsOnUndefinedACWR(t *testing.T) {
	stats := []window.Stat{
		{WeekIndex: 1, WeeklyLoad: 15, AcuteLoad: 15, ChronicLoad: model.Defined(10),
			RollingMean: model.Defined(10), RollingStd: model.Defined(1), Observed: true},
		{WeekIndex: 2, WeeklyLoad: 15, AcuteLoad: 15, Observed: true}, // chronic undefined
		{WeekIndex: 3, WeeklyLoad: 15, AcuteLoad: 15, ChronicLoad: model.Defined(10),
			RollingMean: model.Defined(10), RollingStd: model.Defined(1), Observed: true},
	}

	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), stats)
	require.NoError(t, err)

	assert.Equal(t, 1, rows[0].WeeksAboveThreshold)
	assert.Equal(t, 0, rows[1].WeeksAboveThreshold)
	assert.Equal(t, 1, rows[2].WeeksAboveThreshold)
}

func TestComposeRecentInjuryStrictlyPrior(t *testing.T) {
	injured := true
	records := make([]model.TrainingRecord, 15)
	for i := range records {
		records[i] = model.TrainingRecord{AthleteID: "ath-1", WeekIndex: i + 1, WeeklyLoad: 100}
	}
	records[2].Injured = &injured // injury in week 3

	engine := window.NewEngine(window.DefaultConfig())
	stats, err := engine.Compute(records)
	require.NoError(t, err)

	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), stats)
	require.NoError(t, err)
	require.Len(t, rows, 15)

	// the injury week itself must not see its own outcome
	assert.Equal(t, 0, rows[2].RecentInjuryFlag)

	// the following 8 weeks carry the flag
	for i := 3; i <= 10; i++ {
		assert.Equal(t, 1, rows[i].RecentInjuryFlag, "week %d", rows[i].WeekIndex)
	}

	// week 12 onward is past the lookback
	assert.Equal(t, 0, rows[11].RecentInjuryFlag)
}

func TestComposeGapWeeksEmitNoRows(t *testing.T) {
	records := []model.TrainingRecord{
		{AthleteID: "ath-1", WeekIndex: 1, WeeklyLoad: 100},
		{AthleteID: "ath-1", WeekIndex: 2, WeeklyLoad: 100},
		{AthleteID: "ath-1", WeekIndex: 5, WeeklyLoad: 100},
	}
	engine := window.NewEngine(window.DefaultConfig())
	stats, err := engine.Compute(records)
	require.NoError(t, err)

	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), stats)
	require.NoError(t, err)

	require.Len(t, rows, 3, "one row per observed week only")
	assert.Equal(t, 1, rows[0].WeekIndex)
	assert.Equal(t, 2, rows[1].WeekIndex)
	assert.Equal(t, 5, rows[2].WeekIndex)

	// the week after a rest gap has no week-over-week change: previous
	// timeline week had zero load
	assert.False(t, rows[2].WeekOverWeekChange.Valid)
}

func TestComposeDistanceFromBaseline(t *testing.T) {
	rows := composeFor(t, 33)
	require.True(t, rows[0].DistanceFromBaseline.Valid)
	assert.InDelta(t, 0.1, rows[0].DistanceFromBaseline.Value, 1e-12)

	profile := testProfile()
	profile.BaselineWeeklyLoad = 0
	composer := NewComposer(DefaultConfig())
	noBase, err := composer.Compose(profile, statsFor(t, 33))
	require.NoError(t, err)
	assert.False(t, noBase[0].DistanceFromBaseline.Valid, "no baseline means no distance")
}

func TestComposeLagsAndTrend(t *testing.T) {
	rows := composeFor(t, 30, 30, 30, 30, 45, 30)
	require.Len(t, rows, 6)

	// week 5: acwr jumped from 1.0; trend is positive
	w5 := rows[4]
	require.True(t, w5.ACWRTrend.Valid)
	assert.Greater(t, w5.ACWRTrend.Value, 0.0)
	require.True(t, w5.PreviousWeekACWR.Valid)
	assert.InDelta(t, 1.0, w5.PreviousWeekACWR.Value, 1e-12)

	// week 6 sees week 5's acwr as the one-week lag
	w6 := rows[5]
	require.True(t, w6.PreviousWeekACWR.Valid)
	assert.InDelta(t, w5.ACWR.Value, w6.PreviousWeekACWR.Value, 1e-12)
	require.True(t, w6.TwoWeekAgoACWR.Valid)
	assert.InDelta(t, 1.0, w6.TwoWeekAgoACWR.Value, 1e-12)

	// early weeks have no lag history
	assert.False(t, rows[0].PreviousWeekACWR.Valid)
	assert.False(t, rows[1].TwoWeekAgoACWR.Valid)
}

func TestComposeProfileFeatures(t *testing.T) {
	rows := composeFor(t, 30)
	row := rows[0]

	assert.Equal(t, 28, row.Age)
	assert.Equal(t, model.AgeGroupAdult, row.AgeGroup)
	assert.Equal(t, 6, row.ExperienceYears)
	assert.Equal(t, model.ExperienceAdvanced, row.ExperienceLevel)
	assert.Equal(t, 30.0, row.BaselineWeeklyLoad)
}

func TestComposeLabelPassthrough(t *testing.T) {
	injured := true
	records := []model.TrainingRecord{
		{AthleteID: "ath-1", WeekIndex: 1, WeeklyLoad: 100},
		{AthleteID: "ath-1", WeekIndex: 2, WeeklyLoad: 100, Injured: &injured},
	}
	engine := window.NewEngine(window.DefaultConfig())
	stats, err := engine.Compute(records)
	require.NoError(t, err)

	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), stats)
	require.NoError(t, err)

	assert.False(t, rows[0].HasLabel())
	require.True(t, rows[1].HasLabel())
	assert.True(t, *rows[1].Injured)
}

func TestComposeRejectsBadProfile(t *testing.T) {
	profile := testProfile()
	profile.Age = 0

	composer := NewComposer(DefaultConfig())
	_, err := composer.Compose(profile, statsFor(t, 30))
	assert.Error(t, err)
}

func TestComposeEmptyStats(t *testing.T) {
	composer := NewComposer(DefaultConfig())
	rows, err := composer.Compose(testProfile(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
