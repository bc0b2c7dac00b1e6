package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oyabun/tendon/pkg/model"
)

// ErrProfileNotFound is returned when an athlete has no stored profile.
var ErrProfileNotFound = errors.New("athlete profile not found")

// ProfileRepo handles athlete profile persistence
type ProfileRepo struct {
	client *Client
}

// NewProfileRepo creates a new athlete profile repository
func NewProfileRepo(client *Client) *ProfileRepo {
	return &ProfileRepo{client: client}
}

// Upsert inserts or replaces a profile after validation.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.AthleteProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO athlete_profiles (athlete_id, age, experience_years, baseline_weekly_load)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (athlete_id) DO UPDATE SET
			age = EXCLUDED.age,
			experience_years = EXCLUDED.experience_years,
			baseline_weekly_load = EXCLUDED.baseline_weekly_load
	`
	return r.client.Exec(query, p.AthleteID, p.Age, p.ExperienceYears, p.BaselineWeeklyLoad)
}

// Get retrieves a profile by athlete ID.
func (r *ProfileRepo) Get(ctx context.Context, athleteID string) (*model.AthleteProfile, error) {
	query := `
		SELECT athlete_id, age, experience_years, baseline_weekly_load
		FROM athlete_profiles
		WHERE athlete_id = ?
	`

	row := r.client.QueryRow(query, athleteID)
	var p model.AthleteProfile
	err := row.Scan(&p.AthleteID, &p.Age, &p.ExperienceYears, &p.BaselineWeeklyLoad)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("athlete %s: %w", athleteID, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}
