// Package rerank reorders precedent-search results so that recent
// athlete-weeks outrank equally similar but much older ones.
package rerank

import (
	"math"
	"sort"

	"github.com/oyabun/tendon/pkg/store/milvus"
)

// WeekDecayConfig holds configuration for recency reranking. Age is the
// distance in weeks between the query week and the matched week.
type WeekDecayConfig struct {
	Lambda float64 // Exponential decay rate per week (higher = faster decay)
	// Segment weights for different age ranges (used if UseSegments is true)
	UseSegments  bool
	RecentWeeks  float64 // Weeks considered "recent" (e.g. 8)
	MediumWeeks  float64 // Weeks considered "medium" (e.g. 26)
	RecentWeight float64 // Weight for recent (<= RecentWeeks)
	MediumWeight float64 // Weight for medium (RecentWeeks < x <= MediumWeeks)
	OldWeight    float64 // Weight for old (> MediumWeeks)
}

// DefaultWeekDecayConfig returns a default configuration
func DefaultWeekDecayConfig() WeekDecayConfig {
	return WeekDecayConfig{
		Lambda:       0.02, // Gentle decay: a season-old precedent keeps most of its weight
		UseSegments:  false,
		RecentWeeks:  8,
		MediumWeeks:  26,
		RecentWeight: 1.0,
		MediumWeight: 0.7,
		OldWeight:    0.4,
	}
}

// SegmentConfig returns a configuration using segment-based weights
func SegmentConfig() WeekDecayConfig {
	return WeekDecayConfig{
		UseSegments:  true,
		RecentWeeks:  8,
		MediumWeeks:  26,
		RecentWeight: 1.0,
		MediumWeight: 0.7,
		OldWeight:    0.4,
	}
}

// RankedResult extends SearchResult with the reranked score
type RankedResult struct {
	milvus.SearchResult
	OriginalScore float32
	RecencyWeight float64
	FinalScore    float64
}

// Reranker performs recency-based reranking of search results
type Reranker struct {
	config WeekDecayConfig
}

// NewReranker creates a new reranker with the given configuration
func NewReranker(config WeekDecayConfig) *Reranker {
	return &Reranker{config: config}
}

// Rerank reranks search results relative to the query's week index.
func (r *Reranker) Rerank(results []milvus.SearchResult, currentWeek int) []RankedResult {
	ranked := make([]RankedResult, len(results))

	for i, result := range results {
		ageWeeks := float64(int64(currentWeek) - result.WeekIndex)
		if ageWeeks < 0 {
			ageWeeks = 0
		}

		var weight float64
		if r.config.UseSegments {
			weight = r.segmentWeight(ageWeeks)
		} else {
			weight = r.exponentialDecay(ageWeeks)
		}

		ranked[i] = RankedResult{
			SearchResult:  result,
			OriginalScore: result.Score,
			RecencyWeight: weight,
			FinalScore:    float64(result.Score) * weight,
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

// exponentialDecay calculates decay using exponential function
func (r *Reranker) exponentialDecay(ageWeeks float64) float64 {
	return math.Exp(-r.config.Lambda * ageWeeks)
}

// segmentWeight returns weight based on age segments
func (r *Reranker) segmentWeight(ageWeeks float64) float64 {
	switch {
	case ageWeeks <= r.config.RecentWeeks:
		return r.config.RecentWeight
	case ageWeeks <= r.config.MediumWeeks:
		return r.config.MediumWeight
	default:
		return r.config.OldWeight
	}
}

// TopN returns the top N results after reranking
func (r *Reranker) TopN(results []milvus.SearchResult, currentWeek, n int) []RankedResult {
	ranked := r.Rerank(results, currentWeek)
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

// InjuredShare returns the fraction of ranked precedents with a positive
// injury label, ignoring unknown labels. The second return value is the
// number of labeled precedents considered.
func InjuredShare(results []RankedResult) (float64, int) {
	labeled := 0
	injured := 0
	for _, r := range results {
		switch r.Injured {
		case milvus.InjuredTrue:
			labeled++
			injured++
		case milvus.InjuredFalse:
			labeled++
		}
	}
	if labeled == 0 {
		return 0, 0
	}
	return float64(injured) / float64(labeled), labeled
}
