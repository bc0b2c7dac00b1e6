package duckdb

import "fmt"

// Schema contains table creation statements for all required tables

// CreateTrainingRecordsTable creates the training log fact table.
const CreateTrainingRecordsTable = `
CREATE TABLE IF NOT EXISTS training_records (
    athlete_id VARCHAR NOT NULL,
    week_index INTEGER NOT NULL,
    weekly_load DOUBLE NOT NULL,
    daily_loads VARCHAR,
    injured BOOLEAN,
    PRIMARY KEY (athlete_id, week_index)
);
`

// CreateAthleteProfilesTable creates the athlete profile table.
const CreateAthleteProfilesTable = `
CREATE TABLE IF NOT EXISTS athlete_profiles (
    athlete_id VARCHAR PRIMARY KEY,
    age INTEGER NOT NULL,
    experience_years INTEGER NOT NULL,
    baseline_weekly_load DOUBLE NOT NULL
);
`

// CreateFeatureVectorsTable creates the derived feature matrix table.
// Missing metrics persist as NULL, never as zero.
const CreateFeatureVectorsTable = `
CREATE TABLE IF NOT EXISTS feature_vectors (
    row_id VARCHAR PRIMARY KEY,
    athlete_id VARCHAR NOT NULL,
    week_index INTEGER NOT NULL,
    schema_version INTEGER NOT NULL,
    acute_load DOUBLE NOT NULL,
    chronic_load DOUBLE,
    acwr DOUBLE,
    monotony DOUBLE,
    strain DOUBLE,
    week_over_week_change DOUBLE,
    acwr_trend DOUBLE,
    weeks_above_threshold INTEGER NOT NULL,
    distance_from_baseline DOUBLE,
    previous_week_acwr DOUBLE,
    two_week_ago_acwr DOUBLE,
    recent_injury_flag INTEGER NOT NULL,
    age INTEGER NOT NULL,
    age_group VARCHAR NOT NULL,
    experience_years INTEGER NOT NULL,
    experience_level VARCHAR NOT NULL,
    baseline_weekly_load DOUBLE NOT NULL,
    injured BOOLEAN
);

CREATE INDEX IF NOT EXISTS idx_features_athlete ON feature_vectors(athlete_id);
CREATE INDEX IF NOT EXISTS idx_features_week ON feature_vectors(week_index);
`

// CreateValidationReportsTable creates the per-run validation summary table.
const CreateValidationReportsTable = `
CREATE TABLE IF NOT EXISTS validation_reports (
    run_id VARCHAR PRIMARY KEY,
    schema_version INTEGER NOT NULL,
    total_rows INTEGER NOT NULL,
    accepted_rows INTEGER NOT NULL,
    insufficient_history_rows INTEGER NOT NULL,
    out_of_range_rows INTEGER NOT NULL,
    injured_rows INTEGER NOT NULL,
    uninjured_rows INTEGER NOT NULL,
    unlabeled_rows INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all required tables
func InitializeSchema(c *Client) error {
	schemas := []string{
		CreateTrainingRecordsTable,
		CreateAthleteProfilesTable,
		CreateFeatureVectorsTable,
		CreateValidationReportsTable,
	}

	for _, schema := range schemas {
		if err := c.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with caution)
func DropAllTables(c *Client) error {
	tables := []string{"validation_reports", "feature_vectors", "athlete_profiles", "training_records"}
	for _, table := range tables {
		if err := c.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
