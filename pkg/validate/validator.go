// Package validate gates the composed feature matrix before a classifier
// sees it: minimum-history enforcement, range checks, a structural
// no-lookahead check, and class-balance reporting.
package validate

import (
	"fmt"
	"reflect"

	"github.com/oyabun/tendon/pkg/model"
)

// Config holds validation parameters.
type Config struct {
	// ACWRMin and ACWRMax bound sane ACWR values. Rows outside the bound
	// are flagged; they are only clipped when ClipACWR is set.
	ACWRMin float64
	ACWRMax float64

	// ClipACWR clips out-of-bound ACWR values to the bound instead of
	// merely flagging them.
	ClipACWR bool

	// MinHistoryWeeks is the uniform minimum-history requirement reported
	// in insufficient-history errors.
	MinHistoryWeeks int
}

// DefaultConfig returns the standard validation parameters.
func DefaultConfig() Config {
	return Config{
		ACWRMin:         0,
		ACWRMax:         10,
		MinHistoryWeeks: 4,
	}
}

// Flag records one out-of-bound feature value.
type Flag struct {
	RowID     string  `json:"row_id"`
	AthleteID string  `json:"athlete_id"`
	WeekIndex int     `json:"week_index"`
	Field     string  `json:"field"`
	Value     float64 `json:"value"`
}

// Report summarizes a validation pass. Class balance is metadata for the
// trainer, not an enforced invariant.
type Report struct {
	TotalRows               int    `json:"total_rows"`
	AcceptedRows            int    `json:"accepted_rows"`
	InsufficientHistoryRows int    `json:"insufficient_history_rows"`
	OutOfRange              []Flag `json:"out_of_range,omitempty"`
	InjuredRows             int    `json:"injured_rows"`
	UninjuredRows           int    `json:"uninjured_rows"`
	UnlabeledRows           int    `json:"unlabeled_rows"`
}

// Validator gates feature rows.
type Validator struct {
	cfg Config
}

// New creates a validator, applying defaults for zero fields.
func New(cfg Config) *Validator {
	def := DefaultConfig()
	if cfg.ACWRMax <= 0 {
		cfg.ACWRMax = def.ACWRMax
	}
	if cfg.MinHistoryWeeks <= 0 {
		cfg.MinHistoryWeeks = def.MinHistoryWeeks
	}
	return &Validator{cfg: cfg}
}

// Validate filters rows into the training matrix. Rows without the
// minimum-history metrics are excluded and counted; out-of-bound ACWR
// values are flagged (and clipped only when configured). The input slice
// is left untouched: accepted rows are copies.
func (v *Validator) Validate(rows []model.FeatureVector) ([]model.FeatureVector, *Report) {
	report := &Report{TotalRows: len(rows)}
	accepted := make([]model.FeatureVector, 0, len(rows))

	for i := range rows {
		row := rows[i]

		if !row.Usable() {
			report.InsufficientHistoryRows++
			continue
		}

		if row.ACWR.Valid && (row.ACWR.Value < v.cfg.ACWRMin || row.ACWR.Value > v.cfg.ACWRMax) {
			report.OutOfRange = append(report.OutOfRange, Flag{
				RowID:     row.RowID,
				AthleteID: row.AthleteID,
				WeekIndex: row.WeekIndex,
				Field:     "acwr",
				Value:     row.ACWR.Value,
			})
			if v.cfg.ClipACWR {
				clipped := row.ACWR.Value
				if clipped < v.cfg.ACWRMin {
					clipped = v.cfg.ACWRMin
				}
				if clipped > v.cfg.ACWRMax {
					clipped = v.cfg.ACWRMax
				}
				row.ACWR = model.Defined(clipped)
			}
		}

		switch {
		case !row.HasLabel():
			report.UnlabeledRows++
		case *row.Injured:
			report.InjuredRows++
		default:
			report.UninjuredRows++
		}

		report.AcceptedRows++
		accepted = append(accepted, row)
	}
	return accepted, report
}

// CheckUsable returns an insufficient-history error for a row that cannot
// be served at inference time, or nil for a usable row.
func (v *Validator) CheckUsable(fv *model.FeatureVector) error {
	if fv.Usable() {
		return nil
	}
	return &model.HistoryError{
		AthleteID: fv.AthleteID,
		WeekIndex: fv.WeekIndex,
		Need:      v.cfg.MinHistoryWeeks,
	}
}

// RecomputeFunc rebuilds the feature vectors for one athlete from the
// given records. Used by CheckLeakage to rerun the pipeline on truncated
// input.
type RecomputeFunc func(profile model.AthleteProfile, records []model.TrainingRecord) ([]model.FeatureVector, error)

// CheckLeakage verifies the no-lookahead property structurally: for each
// produced row, recomputing from only the records at or before the row's
// week must reproduce the row bit for bit. A mismatch means some feature
// depends on future records, i.e. an implementation bug, and aborts
// validation for the athlete.
func (v *Validator) CheckLeakage(profile model.AthleteProfile, records []model.TrainingRecord, rows []model.FeatureVector, recompute RecomputeFunc) error {
	for i := range rows {
		row := &rows[i]

		truncated := make([]model.TrainingRecord, 0, len(records))
		for j := range records {
			if records[j].WeekIndex <= row.WeekIndex {
				truncated = append(truncated, records[j])
			}
		}

		partial, err := recompute(profile, truncated)
		if err != nil {
			return fmt.Errorf("leakage check recompute for athlete %s week %d: %w",
				row.AthleteID, row.WeekIndex, err)
		}

		var match *model.FeatureVector
		for k := range partial {
			if partial[k].WeekIndex == row.WeekIndex {
				match = &partial[k]
				break
			}
		}
		if match == nil {
			return fmt.Errorf("leakage check: athlete %s week %d missing from truncated recompute",
				row.AthleteID, row.WeekIndex)
		}
		if !reflect.DeepEqual(*match, *row) {
			return fmt.Errorf("leakage detected: athlete %s week %d differs when future records are removed",
				row.AthleteID, row.WeekIndex)
		}
	}
	return nil
}
