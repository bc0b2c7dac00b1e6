package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oyabun/tendon/pkg/model"
)

// FeatureRepo handles feature vector persistence
type FeatureRepo struct {
	client *Client
}

// NewFeatureRepo creates a new feature repository
func NewFeatureRepo(client *Client) *FeatureRepo {
	return &FeatureRepo{client: client}
}

const insertFeatureQuery = `
	INSERT INTO feature_vectors (
		row_id, athlete_id, week_index, schema_version,
		acute_load, chronic_load, acwr, monotony, strain,
		week_over_week_change, acwr_trend, weeks_above_threshold,
		distance_from_baseline, previous_week_acwr, two_week_ago_acwr,
		recent_injury_flag, age, age_group, experience_years,
		experience_level, baseline_weekly_load, injured
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (row_id) DO UPDATE SET
		acute_load = EXCLUDED.acute_load,
		chronic_load = EXCLUDED.chronic_load,
		acwr = EXCLUDED.acwr,
		monotony = EXCLUDED.monotony,
		strain = EXCLUDED.strain,
		week_over_week_change = EXCLUDED.week_over_week_change,
		acwr_trend = EXCLUDED.acwr_trend,
		weeks_above_threshold = EXCLUDED.weeks_above_threshold,
		distance_from_baseline = EXCLUDED.distance_from_baseline,
		previous_week_acwr = EXCLUDED.previous_week_acwr,
		two_week_ago_acwr = EXCLUDED.two_week_ago_acwr,
		recent_injury_flag = EXCLUDED.recent_injury_flag,
		age = EXCLUDED.age,
		age_group = EXCLUDED.age_group,
		experience_years = EXCLUDED.experience_years,
		experience_level = EXCLUDED.experience_level,
		baseline_weekly_load = EXCLUDED.baseline_weekly_load,
		injured = EXCLUDED.injured
`

// InsertBatch inserts multiple feature vectors in a transaction. Writes are
// idempotent: row IDs are deterministic and conflicts update in place.
func (r *FeatureRepo) InsertBatch(ctx context.Context, vectors []model.FeatureVector) error {
	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertFeatureQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range vectors {
		fv := &vectors[i]
		var injured sql.NullBool
		if fv.Injured != nil {
			injured = sql.NullBool{Bool: *fv.Injured, Valid: true}
		}
		_, err := stmt.Exec(
			fv.RowID, fv.AthleteID, fv.WeekIndex, fv.SchemaVersion,
			fv.AcuteLoad, nullFloat(fv.ChronicLoad), nullFloat(fv.ACWR),
			nullFloat(fv.Monotony), nullFloat(fv.Strain),
			nullFloat(fv.WeekOverWeekChange), nullFloat(fv.ACWRTrend), fv.WeeksAboveThreshold,
			nullFloat(fv.DistanceFromBaseline), nullFloat(fv.PreviousWeekACWR), nullFloat(fv.TwoWeekAgoACWR),
			fv.RecentInjuryFlag, fv.Age, fv.AgeGroup, fv.ExperienceYears,
			fv.ExperienceLevel, fv.BaselineWeeklyLoad, injured,
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature vector: %w", err)
		}
	}

	return tx.Commit()
}

const selectFeatureColumns = `
	row_id, athlete_id, week_index, schema_version,
	acute_load, chronic_load, acwr, monotony, strain,
	week_over_week_change, acwr_trend, weeks_above_threshold,
	distance_from_baseline, previous_week_acwr, two_week_ago_acwr,
	recent_injury_flag, age, age_group, experience_years,
	experience_level, baseline_weekly_load, injured
`

// GetByAthleteWeek retrieves a single feature vector.
func (r *FeatureRepo) GetByAthleteWeek(ctx context.Context, athleteID string, weekIndex int) (*model.FeatureVector, error) {
	query := `SELECT ` + selectFeatureColumns + `
		FROM feature_vectors
		WHERE athlete_id = ? AND week_index = ?
	`
	row := r.client.QueryRow(query, athleteID, weekIndex)
	fv, err := scanFeatureRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature vector for athlete %s week %d: %w", athleteID, weekIndex, err)
	}
	return fv, nil
}

// GetByAthlete retrieves all feature vectors for an athlete in week order.
func (r *FeatureRepo) GetByAthlete(ctx context.Context, athleteID string) ([]model.FeatureVector, error) {
	query := `SELECT ` + selectFeatureColumns + `
		FROM feature_vectors
		WHERE athlete_id = ?
		ORDER BY week_index ASC
	`
	rows, err := r.client.Query(query, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature vectors: %w", err)
	}
	defer rows.Close()

	var vectors []model.FeatureVector
	for rows.Next() {
		fv, err := scanFeatureRow(rows)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, *fv)
	}
	return vectors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeatureRow(row rowScanner) (*model.FeatureVector, error) {
	var fv model.FeatureVector
	var chronic, acwr, monotony, strain, wow, trend, baselineDist, prevACWR, twoAgoACWR sql.NullFloat64
	var injured sql.NullBool

	err := row.Scan(
		&fv.RowID, &fv.AthleteID, &fv.WeekIndex, &fv.SchemaVersion,
		&fv.AcuteLoad, &chronic, &acwr, &monotony, &strain,
		&wow, &trend, &fv.WeeksAboveThreshold,
		&baselineDist, &prevACWR, &twoAgoACWR,
		&fv.RecentInjuryFlag, &fv.Age, &fv.AgeGroup, &fv.ExperienceYears,
		&fv.ExperienceLevel, &fv.BaselineWeeklyLoad, &injured,
	)
	if err != nil {
		return nil, err
	}

	fv.ChronicLoad = fromNullFloat(chronic)
	fv.ACWR = fromNullFloat(acwr)
	fv.Monotony = fromNullFloat(monotony)
	fv.Strain = fromNullFloat(strain)
	fv.WeekOverWeekChange = fromNullFloat(wow)
	fv.ACWRTrend = fromNullFloat(trend)
	fv.DistanceFromBaseline = fromNullFloat(baselineDist)
	fv.PreviousWeekACWR = fromNullFloat(prevACWR)
	fv.TwoWeekAgoACWR = fromNullFloat(twoAgoACWR)
	if injured.Valid {
		v := injured.Bool
		fv.Injured = &v
	}
	return &fv, nil
}

func nullFloat(m model.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}

func fromNullFloat(n sql.NullFloat64) model.Metric {
	if !n.Valid {
		return model.Missing
	}
	return model.Defined(n.Float64)
}
