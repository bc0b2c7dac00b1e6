package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SchemaVersion identifies the feature field set. It participates in row
// IDs, so recomputing under a new schema never overwrites old rows.
const SchemaVersion = 1

// FeatureVector is one fixed-schema feature row per (athlete, week).
// Vectors are derived data: recomputed from records, never mutated in
// place. Metrics that cannot be computed yet are Missing, not zero.
type FeatureVector struct {
	RowID         string `json:"row_id"`
	AthleteID     string `json:"athlete_id"`
	WeekIndex     int    `json:"week_index"`
	SchemaVersion int    `json:"schema_version"`

	AcuteLoad            float64 `json:"acute_load"`
	ChronicLoad          Metric  `json:"chronic_load"`
	ACWR                 Metric  `json:"acwr"`
	Monotony             Metric  `json:"monotony"`
	Strain               Metric  `json:"strain"`
	WeekOverWeekChange   Metric  `json:"week_over_week_change"`
	ACWRTrend            Metric  `json:"acwr_trend"`
	WeeksAboveThreshold  int     `json:"weeks_above_threshold"`
	DistanceFromBaseline Metric  `json:"distance_from_baseline"`
	PreviousWeekACWR     Metric  `json:"previous_week_acwr"`
	TwoWeekAgoACWR       Metric  `json:"two_week_ago_acwr"`
	RecentInjuryFlag     int     `json:"recent_injury_flag"`

	Age                int     `json:"age"`
	AgeGroup           string  `json:"age_group"`
	ExperienceYears    int     `json:"experience_years"`
	ExperienceLevel    string  `json:"experience_level"`
	BaselineWeeklyLoad float64 `json:"baseline_weekly_load"`

	// Injured carries the training label through to the matrix; nil at
	// inference time.
	Injured *bool `json:"injured,omitempty"`
}

// FieldNames returns the schema contract: the exact, ordered feature field
// identifiers a classifier trains against. Any change here requires a
// SchemaVersion bump.
func FieldNames() []string {
	return []string{
		"acute_load",
		"chronic_load",
		"acwr",
		"monotony",
		"strain",
		"week_over_week_change",
		"acwr_trend",
		"weeks_above_threshold",
		"distance_from_baseline",
		"previous_week_acwr",
		"two_week_ago_acwr",
		"recent_injury_flag",
		"age",
		"age_group",
		"experience_years",
		"experience_level",
		"baseline_weekly_load",
	}
}

// GenerateRowID creates a deterministic row ID from the identifying
// parameters. Same inputs always produce the same ID, so writes are
// idempotent.
func GenerateRowID(athleteID string, weekIndex, schemaVersion int) string {
	data := fmt.Sprintf("%s|%d|%d", athleteID, weekIndex, schemaVersion)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// NewFeatureVector creates an empty vector with identity fields set.
func NewFeatureVector(athleteID string, weekIndex int) *FeatureVector {
	return &FeatureVector{
		RowID:         GenerateRowID(athleteID, weekIndex, SchemaVersion),
		AthleteID:     athleteID,
		WeekIndex:     weekIndex,
		SchemaVersion: SchemaVersion,
	}
}

// Usable reports whether the row satisfies the minimum-history requirement:
// the window-derived metrics that only exist after enough weeks of data.
// Lag and trend metrics may still be missing on a usable row.
func (fv *FeatureVector) Usable() bool {
	return fv.ChronicLoad.Valid && fv.ACWR.Valid && fv.Monotony.Valid && fv.Strain.Valid
}

// HasLabel reports whether the row carries a ground-truth injury label.
func (fv *FeatureVector) HasLabel() bool {
	return fv.Injured != nil
}
