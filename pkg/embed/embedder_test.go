package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/window"
)

func testStats(loads ...float64) []window.Stat {
	stats := make([]window.Stat, len(loads))
	for i, load := range loads {
		stats[i] = window.Stat{WeekIndex: i + 1, WeeklyLoad: load, Observed: true}
	}
	return stats
}

func testVector(week int) *model.FeatureVector {
	fv := model.NewFeatureVector("ath-1", week)
	fv.ChronicLoad = model.Defined(100)
	fv.ACWR = model.Defined(1.2)
	fv.Monotony = model.Defined(2)
	fv.Strain = model.Defined(200)
	return fv
}

func TestNewEmbedderRejectsTinyDim(t *testing.T) {
	_, err := NewEmbedder(4)
	assert.Error(t, err)

	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)
	assert.Equal(t, Dim32, e.Dim)
}

func TestEmbedDimension(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	vec, err := e.Embed(testStats(100, 110, 120, 130), testVector(4))
	require.NoError(t, err)
	assert.Equal(t, Dim32, vec.Dim())
}

func TestEmbedDeterministic(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	stats := testStats(100, 110, 120, 130)
	v1, err := e.Embed(stats, testVector(4))
	require.NoError(t, err)
	v2, err := e.Embed(stats, testVector(4))
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestEmbedRequiresAlignedStats(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	// stats end at week 4, vector is for week 3
	_, err = e.Embed(testStats(100, 110, 120, 130), testVector(3))
	assert.Error(t, err)

	_, err = e.Embed(nil, testVector(1))
	assert.Error(t, err)
}

func TestEmbedValuesBounded(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	fv := testVector(4)
	fv.ACWR = model.Defined(50) // absurd but must stay bounded
	fv.WeekOverWeekChange = model.Defined(10)

	vec, err := e.Embed(testStats(0, 5000, 0, 5000), fv)
	require.NoError(t, err)
	for i, v := range vec {
		assert.GreaterOrEqual(t, v, float32(-1), "slot %d", i)
		assert.LessOrEqual(t, v, float32(1), "slot %d", i)
	}
}

func TestNormalizeLoadsFlatSeries(t *testing.T) {
	normalized := NormalizeLoads([]float64{100, 100, 100}, 3)
	for _, v := range normalized {
		assert.Equal(t, 0.0, v, "flat series normalizes to zeros")
	}
}

func TestNormalizeLoadsClip(t *testing.T) {
	normalized := NormalizeLoads([]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1000}, 3)
	for _, v := range normalized {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 1.0, normalized[len(normalized)-1], "outlier clips to the bound")
}

func TestNormalizeLoadsEmpty(t *testing.T) {
	assert.Nil(t, NormalizeLoads(nil, 3))
}

func TestEmbedShortHistoryFrontPadded(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	vec, err := e.Embed(testStats(100, 200), testVector(2))
	require.NoError(t, err)

	// with only 2 weeks of history the leading shape slots are zero
	shapeSlots := Dim32 - metricSlots
	for i := 0; i < shapeSlots-2; i++ {
		assert.Equal(t, float32(0), vec[i], "slot %d", i)
	}
	// the two trailing shape slots carry the normalized loads
	assert.NotEqual(t, vec[shapeSlots-2], vec[shapeSlots-1])
}

func TestEmbedLongHistoryDownsampled(t *testing.T) {
	e, err := NewEmbedder(Dim32)
	require.NoError(t, err)

	loads := make([]float64, 104) // two seasons
	for i := range loads {
		loads[i] = float64(100 + i)
	}
	vec, err := e.Embed(testStats(loads...), testVector(104))
	require.NoError(t, err)
	assert.Equal(t, Dim32, vec.Dim())
}

func TestVectorCopy(t *testing.T) {
	v := NewVector(Dim32)
	v[0] = 0.5
	cp := v.Copy()
	cp[0] = 0.9
	assert.Equal(t, float32(0.5), v[0])
}
