package model

// AthleteProfile holds per-athlete metadata used for profile-derived
// features and baseline comparison.
type AthleteProfile struct {
	AthleteID          string  `json:"athlete_id"`
	Age                int     `json:"age"`
	ExperienceYears    int     `json:"experience_years"`
	BaselineWeeklyLoad float64 `json:"baseline_weekly_load"`
}

// Age group categories.
const (
	AgeGroupYoungAdult = "young_adult" // < 26
	AgeGroupAdult      = "adult"       // 26-35
	AgeGroupMasters    = "masters"     // 36-45
	AgeGroupSenior     = "senior"      // >= 46
)

// Experience level categories.
const (
	ExperienceNovice       = "novice"       // < 3 years
	ExperienceIntermediate = "intermediate" // 3-5 years
	ExperienceAdvanced     = "advanced"     // 6-9 years
	ExperienceExpert       = "expert"       // >= 10 years
)

// BinAge maps an age to its fixed categorical bucket.
func BinAge(age int) string {
	switch {
	case age < 26:
		return AgeGroupYoungAdult
	case age < 36:
		return AgeGroupAdult
	case age < 46:
		return AgeGroupMasters
	default:
		return AgeGroupSenior
	}
}

// BinExperience maps training years to its fixed categorical bucket.
func BinExperience(years int) string {
	switch {
	case years < 3:
		return ExperienceNovice
	case years < 6:
		return ExperienceIntermediate
	case years < 10:
		return ExperienceAdvanced
	default:
		return ExperienceExpert
	}
}

// Validate rejects malformed profiles.
func (p *AthleteProfile) Validate() error {
	if p.AthleteID == "" {
		return &RecordError{AthleteID: p.AthleteID, Reason: "empty athlete_id in profile"}
	}
	if p.Age <= 0 {
		return &RecordError{AthleteID: p.AthleteID, Reason: "age must be positive"}
	}
	if p.ExperienceYears < 0 {
		return &RecordError{AthleteID: p.AthleteID, Reason: "negative experience_years"}
	}
	if p.ExperienceYears > p.Age-10 {
		return &RecordError{AthleteID: p.AthleteID, Reason: "experience_years exceeds age - 10"}
	}
	if p.BaselineWeeklyLoad < 0 {
		return &RecordError{AthleteID: p.AthleteID, Reason: "negative baseline_weekly_load"}
	}
	return nil
}
