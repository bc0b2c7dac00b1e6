package embed

import (
	"fmt"
	"math"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/window"
)

// metricSlots is the number of trailing vector slots reserved for scaled
// feature metrics; the rest encode the normalized load shape.
const metricSlots = 8

// Embedder builds load-signature vectors. The leading slots carry the
// z-score-normalized trailing weekly loads (the "shape" of recent
// training); the trailing slots carry scaled headline metrics so that
// athletes with similar shapes but different risk states separate.
type Embedder struct {
	Dim     int     // target vector dimension
	ClipStd float64 // standard deviations for clipping (default 3.0)

	maxMonotony float64 // scale for the monotony slot
	maxACWR     float64 // scale for the ACWR slot
}

// NewEmbedder creates an embedder for the given dimension.
func NewEmbedder(dim int) (*Embedder, error) {
	if dim <= metricSlots {
		return nil, fmt.Errorf("embedding dimension %d too small: need more than %d", dim, metricSlots)
	}
	return &Embedder{
		Dim:         dim,
		ClipStd:     3.0,
		maxMonotony: 10.0,
		maxACWR:     10.0,
	}, nil
}

// Embed builds the vector for the athlete-week described by fv, using the
// trailing window stats up to and including that week. Stats after the
// vector's week must not be passed in; the caller owns causality here.
func (e *Embedder) Embed(stats []window.Stat, fv *model.FeatureVector) (Vector, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("embed athlete %s week %d: no window stats", fv.AthleteID, fv.WeekIndex)
	}
	if last := stats[len(stats)-1].WeekIndex; last != fv.WeekIndex {
		return nil, fmt.Errorf("embed athlete %s: stats end at week %d, vector is for week %d",
			fv.AthleteID, last, fv.WeekIndex)
	}

	loads := make([]float64, len(stats))
	for i := range stats {
		loads[i] = stats[i].WeeklyLoad
	}
	shape := NormalizeLoads(loads, e.ClipStd)

	shapeSlots := e.Dim - metricSlots
	shape = fit(shape, shapeSlots)

	vec := NewVector(e.Dim)
	for i := 0; i < shapeSlots; i++ {
		vec[i] = float32(shape[i])
	}

	idx := shapeSlots
	vec[idx+0] = float32(clamp(fv.ACWR.Or(0)/e.maxACWR, 0, 1))
	vec[idx+1] = float32(clamp(fv.Monotony.Or(0)/e.maxMonotony, 0, 1))
	vec[idx+2] = float32(clamp(fv.WeekOverWeekChange.Or(0), -1, 1))
	vec[idx+3] = float32(clamp(fv.ACWRTrend.Or(0), -1, 1))
	vec[idx+4] = float32(clamp(float64(fv.WeeksAboveThreshold)/8.0, 0, 1))
	vec[idx+5] = float32(clamp(fv.DistanceFromBaseline.Or(0), -1, 1))
	vec[idx+6] = float32(fv.RecentInjuryFlag)
	vec[idx+7] = float32(clamp(fv.WeekOverWeekChange.Or(0)+fv.ACWR.Or(0)/e.maxACWR, -1, 1))

	return vec, nil
}

// NormalizeLoads z-score-normalizes a load sequence with clipping, scaling
// each value into [-1, 1].
func NormalizeLoads(loads []float64, clipStd float64) []float64 {
	if len(loads) == 0 {
		return nil
	}

	mean, std := meanStd(loads)
	if std == 0 {
		std = 1
	}

	result := make([]float64, len(loads))
	for i, v := range loads {
		z := (v - mean) / std
		if z > clipStd {
			z = clipStd
		}
		if z < -clipStd {
			z = -clipStd
		}
		result[i] = z / clipStd
	}
	return result
}

// fit resizes values to targetLen: averaging buckets when too long,
// zero-padding at the front when too short so the most recent weeks always
// occupy the trailing slots.
func fit(values []float64, targetLen int) []float64 {
	if len(values) == targetLen {
		return values
	}
	if len(values) < targetLen {
		padded := make([]float64, targetLen)
		copy(padded[targetLen-len(values):], values)
		return padded
	}

	result := make([]float64, targetLen)
	ratio := float64(len(values)) / float64(targetLen)
	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(values) {
			end = len(values)
		}
		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			sum += values[j]
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}
	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// meanStd calculates mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	std = math.Sqrt(sumSquares / float64(len(values)))
	return mean, std
}
