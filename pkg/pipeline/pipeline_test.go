package pipeline

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/source"
)

func testData() ([]model.TrainingRecord, []model.AthleteProfile) {
	var records []model.TrainingRecord
	addSeries := func(id string, loads ...float64) {
		for i, load := range loads {
			records = append(records, model.TrainingRecord{
				AthleteID:  id,
				WeekIndex:  i + 1,
				WeeklyLoad: load,
			})
		}
	}
	addSeries("ath-a", 300, 310, 320, 330, 340, 450)
	addSeries("ath-b", 200, 200, 200, 200, 200)
	profiles := []model.AthleteProfile{
		{AthleteID: "ath-a", Age: 24, ExperienceYears: 4, BaselineWeeklyLoad: 300},
		{AthleteID: "ath-b", Age: 38, ExperienceYears: 15, BaselineWeeklyLoad: 200},
	}
	return records, profiles
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestPipelineRun(t *testing.T) {
	records, profiles := testData()
	src := source.NewMemory(records, profiles)

	pipe := New(DefaultConfig(), src, quietLogger())
	result, err := pipe.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Failures)
	assert.Len(t, result.Rows, 11, "one row per observed athlete-week")

	// weeks 1-3 of each athlete lack chronic history: 6 rows excluded
	assert.Len(t, result.Matrix, 5)
	assert.Equal(t, 11, result.Report.TotalRows)
	assert.Equal(t, 5, result.Report.AcceptedRows)
	assert.Equal(t, 6, result.Report.InsufficientHistoryRows)

	// rows are sorted by athlete then week
	for i := 1; i < len(result.Rows); i++ {
		prev, cur := result.Rows[i-1], result.Rows[i]
		ordered := prev.AthleteID < cur.AthleteID ||
			(prev.AthleteID == cur.AthleteID && prev.WeekIndex < cur.WeekIndex)
		assert.True(t, ordered, "rows out of order at %d", i)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	records, profiles := testData()
	src := source.NewMemory(records, profiles)

	first, err := New(DefaultConfig(), src, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	second, err := New(DefaultConfig(), src, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Matrix, second.Matrix)
	assert.Equal(t, first.Report, second.Report)
}

func TestPipelineIsolatesFailures(t *testing.T) {
	records, profiles := testData()
	// an athlete with records but no profile fails alone
	records = append(records, model.TrainingRecord{AthleteID: "ath-x", WeekIndex: 1, WeeklyLoad: 100})
	src := source.NewMemory(records, profiles)

	pipe := New(DefaultConfig(), src, quietLogger())
	result, err := pipe.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ath-x", result.Failures[0].AthleteID)
	assert.Len(t, result.Rows, 11, "other athletes are unaffected")
}

func TestPipelineLeakageCheckPasses(t *testing.T) {
	records, profiles := testData()
	src := source.NewMemory(records, profiles)

	cfg := DefaultConfig()
	cfg.CheckLeakage = true
	result, err := New(cfg, src, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Failures, "the real computation has no lookahead")
}

func TestComputeAthleteNoLookahead(t *testing.T) {
	records, profiles := testData()
	var athleteA []model.TrainingRecord
	for _, r := range records {
		if r.AthleteID == "ath-a" {
			athleteA = append(athleteA, r)
		}
	}

	cfg := DefaultConfig()
	full, err := ComputeAthlete(cfg.Window, cfg.Feature, profiles[0], athleteA)
	require.NoError(t, err)
	prefix, err := ComputeAthlete(cfg.Window, cfg.Feature, profiles[0], athleteA[:4])
	require.NoError(t, err)

	// rows for the shared weeks are identical: later records never
	// influence earlier features
	require.Len(t, prefix, 4)
	for i := range prefix {
		assert.Equal(t, prefix[i], full[i], "week %d", prefix[i].WeekIndex)
	}
}

func TestComputeAthleteIdempotent(t *testing.T) {
	records, profiles := testData()
	cfg := DefaultConfig()

	r1, err := ComputeAthlete(cfg.Window, cfg.Feature, profiles[1], records[6:])
	require.NoError(t, err)
	r2, err := ComputeAthlete(cfg.Window, cfg.Feature, profiles[1], records[6:])
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	// row IDs are stable, so rewrites overwrite rather than duplicate
	for i := range r1 {
		assert.Equal(t, r1[i].RowID, r2[i].RowID)
	}
}

func TestPipelineEmptySource(t *testing.T) {
	src := source.NewMemory(nil, nil)
	result, err := New(DefaultConfig(), src, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Matrix)
	assert.Equal(t, 0, result.Report.TotalRows)
}

func TestPipelineContextCancelled(t *testing.T) {
	records, profiles := testData()
	src := source.NewMemory(records, profiles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig(), src, quietLogger()).Run(ctx)
	assert.Error(t, err)
}
