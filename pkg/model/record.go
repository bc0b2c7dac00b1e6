package model

// DaysPerWeek is the expected length of a record's daily load breakdown.
const DaysPerWeek = 7

// TrainingRecord is one athlete-week of training volume. Records are
// immutable once ingested; weeks are 1-based and strictly increasing
// per athlete.
type TrainingRecord struct {
	AthleteID  string    `json:"athlete_id"`
	WeekIndex  int       `json:"week_index"`
	WeeklyLoad float64   `json:"weekly_load"`
	DailyLoads []float64 `json:"daily_loads,omitempty"` // optional, exactly 7 when present
	Injured    *bool     `json:"injured,omitempty"`     // ground truth, absent at inference
}

// HasDailyLoads reports whether the record carries a daily breakdown.
func (r *TrainingRecord) HasDailyLoads() bool {
	return len(r.DailyLoads) == DaysPerWeek
}

// WasInjured reports the injury label, treating an absent label as false.
func (r *TrainingRecord) WasInjured() bool {
	return r.Injured != nil && *r.Injured
}

// Validate rejects malformed records. Coercion is never attempted: a bad
// record is an ingestion error, not a data point.
func (r *TrainingRecord) Validate() error {
	if r.AthleteID == "" {
		return &RecordError{AthleteID: r.AthleteID, WeekIndex: r.WeekIndex, Reason: "empty athlete_id"}
	}
	if r.WeekIndex < 1 {
		return &RecordError{AthleteID: r.AthleteID, WeekIndex: r.WeekIndex, Reason: "week_index must be >= 1"}
	}
	if r.WeeklyLoad < 0 {
		return &RecordError{AthleteID: r.AthleteID, WeekIndex: r.WeekIndex, Reason: "negative weekly_load"}
	}
	if len(r.DailyLoads) != 0 && len(r.DailyLoads) != DaysPerWeek {
		return &RecordError{
			AthleteID: r.AthleteID,
			WeekIndex: r.WeekIndex,
			Reason:    "daily_loads must contain exactly 7 values when present",
		}
	}
	for _, d := range r.DailyLoads {
		if d < 0 {
			return &RecordError{AthleteID: r.AthleteID, WeekIndex: r.WeekIndex, Reason: "negative daily load"}
		}
	}
	return nil
}

// ValidateSeries validates an ordered per-athlete record sequence: every
// record individually, a single athlete ID, and strictly increasing weeks.
// Gaps are allowed; the window engine treats them as zero-load weeks.
func ValidateSeries(records []TrainingRecord) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
		if records[i].AthleteID != records[0].AthleteID {
			return &RecordError{
				AthleteID: records[i].AthleteID,
				WeekIndex: records[i].WeekIndex,
				Reason:    "mixed athlete_id in series",
			}
		}
		if i > 0 && records[i].WeekIndex <= records[i-1].WeekIndex {
			return &RecordError{
				AthleteID: records[i].AthleteID,
				WeekIndex: records[i].WeekIndex,
				Reason:    "week_index not strictly increasing",
			}
		}
	}
	return nil
}
