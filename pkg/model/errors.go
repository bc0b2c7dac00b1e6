package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline's error taxonomy. Zero-denominator
// conditions are not errors: they propagate as missing Metric values.
var (
	// ErrInvalidRecord marks structurally bad input: negative load,
	// non-monotonic week index, malformed daily loads.
	ErrInvalidRecord = errors.New("invalid training record")

	// ErrInsufficientHistory marks an athlete-week with fewer than the
	// configured minimum weeks of history.
	ErrInsufficientHistory = errors.New("insufficient training history")

	// ErrSchemaMismatch marks a feature set that does not match the
	// classifier's expected schema.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)

// RecordError describes why a specific record was rejected at ingestion.
type RecordError struct {
	AthleteID string
	WeekIndex int
	Reason    string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid training record: athlete %s week %d: %s", e.AthleteID, e.WeekIndex, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }

// HistoryError reports an athlete-week that cannot produce a usable
// feature row yet.
type HistoryError struct {
	AthleteID string
	WeekIndex int
	Need      int
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("insufficient history: athlete %s week %d: need at least %d weeks",
		e.AthleteID, e.WeekIndex, e.Need)
}

func (e *HistoryError) Unwrap() error { return ErrInsufficientHistory }

// SchemaError reports the exact field-set difference between the composed
// features and the classifier's training-time schema.
type SchemaError struct {
	Missing    []string // expected by the classifier, absent from the features
	Unexpected []string // produced by the composer, unknown to the classifier
	Detail     string   // extra context, e.g. an ordering difference
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("feature schema mismatch: missing=%v unexpected=%v", e.Missing, e.Unexpected)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }
