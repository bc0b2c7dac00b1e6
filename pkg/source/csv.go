package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oyabun/tendon/pkg/model"
)

// Expected CSV headers. Daily columns are optional; when present all seven
// must appear.
//
//	records:  athlete_id,week_index,weekly_load[,injured][,day1..day7]
//	profiles: athlete_id,age,experience_years,baseline_weekly_load
const dailyColumns = 7

// LoadCSV reads training records and profiles from two CSV files and
// returns an in-memory source. Malformed rows are ingestion errors and
// abort the load; partial data never enters the pipeline silently.
func LoadCSV(recordsPath, profilesPath string) (*Memory, error) {
	records, err := ReadRecords(recordsPath)
	if err != nil {
		return nil, err
	}
	profiles, err := ReadProfiles(profilesPath)
	if err != nil {
		return nil, err
	}
	return NewMemory(records, profiles), nil
}

// ReadRecords parses a training-record CSV file.
func ReadRecords(path string) ([]model.TrainingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read records header: %w", err)
	}
	col := indexColumns(header)
	if err := requireColumns(col, "athlete_id", "week_index", "weekly_load"); err != nil {
		return nil, err
	}

	hasDaily := true
	for d := 1; d <= dailyColumns; d++ {
		if _, ok := col[fmt.Sprintf("day%d", d)]; !ok {
			hasDaily = false
			break
		}
	}

	var records []model.TrainingRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read records csv line %d: %w", line+1, err)
		}
		line++

		rec := model.TrainingRecord{AthleteID: row[col["athlete_id"]]}
		if rec.WeekIndex, err = strconv.Atoi(row[col["week_index"]]); err != nil {
			return nil, fmt.Errorf("records csv line %d: bad week_index: %w", line, err)
		}
		if rec.WeeklyLoad, err = strconv.ParseFloat(row[col["weekly_load"]], 64); err != nil {
			return nil, fmt.Errorf("records csv line %d: bad weekly_load: %w", line, err)
		}
		if idx, ok := col["injured"]; ok && row[idx] != "" {
			injured, err := strconv.ParseBool(row[idx])
			if err != nil {
				return nil, fmt.Errorf("records csv line %d: bad injured flag: %w", line, err)
			}
			rec.Injured = &injured
		}
		if hasDaily && row[col["day1"]] != "" {
			rec.DailyLoads = make([]float64, dailyColumns)
			for d := 0; d < dailyColumns; d++ {
				v, err := strconv.ParseFloat(row[col[fmt.Sprintf("day%d", d+1)]], 64)
				if err != nil {
					return nil, fmt.Errorf("records csv line %d: bad day%d load: %w", line, d+1, err)
				}
				rec.DailyLoads[d] = v
			}
		}

		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("records csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadProfiles parses an athlete-profile CSV file.
func ReadProfiles(path string) ([]model.AthleteProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles header: %w", err)
	}
	col := indexColumns(header)
	if err := requireColumns(col, "athlete_id", "age", "experience_years", "baseline_weekly_load"); err != nil {
		return nil, err
	}

	var profiles []model.AthleteProfile
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read profiles csv line %d: %w", line+1, err)
		}
		line++

		p := model.AthleteProfile{AthleteID: row[col["athlete_id"]]}
		if p.Age, err = strconv.Atoi(row[col["age"]]); err != nil {
			return nil, fmt.Errorf("profiles csv line %d: bad age: %w", line, err)
		}
		if p.ExperienceYears, err = strconv.Atoi(row[col["experience_years"]]); err != nil {
			return nil, fmt.Errorf("profiles csv line %d: bad experience_years: %w", line, err)
		}
		if p.BaselineWeeklyLoad, err = strconv.ParseFloat(row[col["baseline_weekly_load"]], 64); err != nil {
			return nil, fmt.Errorf("profiles csv line %d: bad baseline_weekly_load: %w", line, err)
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profiles csv line %d: %w", line, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return col
}

func requireColumns(col map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("csv missing required column %q", name)
		}
	}
	return nil
}
