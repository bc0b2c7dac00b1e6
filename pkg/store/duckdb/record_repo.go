package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oyabun/tendon/pkg/model"
)

// RecordRepo handles training record persistence
type RecordRepo struct {
	client *Client
}

// NewRecordRepo creates a new training record repository
func NewRecordRepo(client *Client) *RecordRepo {
	return &RecordRepo{client: client}
}

const insertRecordQuery = `
	INSERT INTO training_records (athlete_id, week_index, weekly_load, daily_loads, injured)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (athlete_id, week_index) DO UPDATE SET
		weekly_load = EXCLUDED.weekly_load,
		daily_loads = EXCLUDED.daily_loads,
		injured = EXCLUDED.injured
`

// Insert inserts a single record after validation.
func (r *RecordRepo) Insert(ctx context.Context, rec *model.TrainingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	daily, injured, err := encodeRecordColumns(rec)
	if err != nil {
		return err
	}
	return r.client.Exec(insertRecordQuery, rec.AthleteID, rec.WeekIndex, rec.WeeklyLoad, daily, injured)
}

// InsertBatch inserts multiple records in a transaction. Any invalid record
// aborts the whole batch.
func (r *RecordRepo) InsertBatch(ctx context.Context, records []model.TrainingRecord) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertRecordQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		daily, injured, err := encodeRecordColumns(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(rec.AthleteID, rec.WeekIndex, rec.WeeklyLoad, daily, injured); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	return tx.Commit()
}

// GetByAthlete retrieves all records for an athlete in week order.
func (r *RecordRepo) GetByAthlete(ctx context.Context, athleteID string) ([]model.TrainingRecord, error) {
	query := `
		SELECT athlete_id, week_index, weekly_load, daily_loads, injured
		FROM training_records
		WHERE athlete_id = ?
		ORDER BY week_index ASC
	`

	rows, err := r.client.Query(query, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.TrainingRecord
	for rows.Next() {
		var rec model.TrainingRecord
		var daily sql.NullString
		var injured sql.NullBool

		if err := rows.Scan(&rec.AthleteID, &rec.WeekIndex, &rec.WeeklyLoad, &daily, &injured); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if daily.Valid && daily.String != "" {
			if err := json.Unmarshal([]byte(daily.String), &rec.DailyLoads); err != nil {
				return nil, fmt.Errorf("failed to decode daily_loads for athlete %s week %d: %w",
					rec.AthleteID, rec.WeekIndex, err)
			}
		}
		if injured.Valid {
			v := injured.Bool
			rec.Injured = &v
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListAthletes returns all distinct athlete IDs with records.
func (r *RecordRepo) ListAthletes(ctx context.Context) ([]string, error) {
	rows, err := r.client.Query(`SELECT DISTINCT athlete_id FROM training_records ORDER BY athlete_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan athlete id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func encodeRecordColumns(rec *model.TrainingRecord) (daily sql.NullString, injured sql.NullBool, err error) {
	if rec.HasDailyLoads() {
		data, merr := json.Marshal(rec.DailyLoads)
		if merr != nil {
			return daily, injured, fmt.Errorf("failed to encode daily_loads: %w", merr)
		}
		daily = sql.NullString{String: string(data), Valid: true}
	}
	if rec.Injured != nil {
		injured = sql.NullBool{Bool: *rec.Injured, Valid: true}
	}
	return daily, injured, nil
}
