// Package source provides training-log sources for the pipeline: an
// in-memory snapshot and a CSV loader for batch ingestion.
package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/oyabun/tendon/pkg/model"
)

// Memory is an immutable in-memory training-log snapshot.
type Memory struct {
	records  map[string][]model.TrainingRecord
	profiles map[string]model.AthleteProfile
}

// NewMemory builds a snapshot from per-athlete records and profiles.
// Records are copied and sorted by week; the caller's slices stay unshared.
func NewMemory(records []model.TrainingRecord, profiles []model.AthleteProfile) *Memory {
	m := &Memory{
		records:  make(map[string][]model.TrainingRecord),
		profiles: make(map[string]model.AthleteProfile),
	}
	for i := range records {
		rec := records[i]
		m.records[rec.AthleteID] = append(m.records[rec.AthleteID], rec)
	}
	for id := range m.records {
		recs := m.records[id]
		sort.Slice(recs, func(i, j int) bool { return recs[i].WeekIndex < recs[j].WeekIndex })
	}
	for i := range profiles {
		m.profiles[profiles[i].AthleteID] = profiles[i]
	}
	return m
}

// ListAthletes returns athlete IDs with records, sorted.
func (m *Memory) ListAthletes(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Records returns the athlete's records in week order.
func (m *Memory) Records(ctx context.Context, athleteID string) ([]model.TrainingRecord, error) {
	recs, ok := m.records[athleteID]
	if !ok {
		return nil, fmt.Errorf("no records for athlete %s", athleteID)
	}
	out := make([]model.TrainingRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// Profile returns the athlete's profile.
func (m *Memory) Profile(ctx context.Context, athleteID string) (*model.AthleteProfile, error) {
	p, ok := m.profiles[athleteID]
	if !ok {
		return nil, fmt.Errorf("no profile for athlete %s", athleteID)
	}
	return &p, nil
}
