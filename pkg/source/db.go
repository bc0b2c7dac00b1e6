package source

import (
	"context"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/store/duckdb"
)

// DB adapts the DuckDB repositories to the pipeline's Source interface.
type DB struct {
	records  *duckdb.RecordRepo
	profiles *duckdb.ProfileRepo
}

// NewDB creates a DuckDB-backed source.
func NewDB(records *duckdb.RecordRepo, profiles *duckdb.ProfileRepo) *DB {
	return &DB{records: records, profiles: profiles}
}

// ListAthletes returns all athlete ids with stored training records.
func (d *DB) ListAthletes(ctx context.Context) ([]string, error) {
	return d.records.ListAthletes(ctx)
}

// Records returns the athlete's training records in week order.
func (d *DB) Records(ctx context.Context, athleteID string) ([]model.TrainingRecord, error) {
	return d.records.GetByAthlete(ctx, athleteID)
}

// Profile returns the athlete's profile.
func (d *DB) Profile(ctx context.Context, athleteID string) (*model.AthleteProfile, error) {
	return d.profiles.Get(ctx, athleteID)
}
