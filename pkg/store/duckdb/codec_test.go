package duckdb

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyabun/tendon/pkg/model"
)

func TestEncodeRecordColumns(t *testing.T) {
	injured := true
	rec := model.TrainingRecord{
		AthleteID:  "ath-1",
		WeekIndex:  3,
		WeeklyLoad: 70,
		DailyLoads: []float64{10, 10, 10, 10, 10, 10, 10},
		Injured:    &injured,
	}

	daily, inj, err := encodeRecordColumns(&rec)
	require.NoError(t, err)
	require.True(t, daily.Valid)
	assert.JSONEq(t, "[10,10,10,10,10,10,10]", daily.String)
	require.True(t, inj.Valid)
	assert.True(t, inj.Bool)
}

func TestEncodeRecordColumnsNulls(t *testing.T) {
	rec := model.TrainingRecord{AthleteID: "ath-1", WeekIndex: 3, WeeklyLoad: 70}

	daily, inj, err := encodeRecordColumns(&rec)
	require.NoError(t, err)
	assert.False(t, daily.Valid, "no daily breakdown stores NULL")
	assert.False(t, inj.Valid, "no label stores NULL")
}

func TestMetricNullRoundTrip(t *testing.T) {
	assert.Equal(t, model.Defined(1.5), fromNullFloat(nullFloat(model.Defined(1.5))))
	assert.Equal(t, model.Missing, fromNullFloat(nullFloat(model.Missing)))
	assert.False(t, nullFloat(model.Missing).Valid)
	assert.Equal(t, model.Missing, fromNullFloat(sql.NullFloat64{}))
}
