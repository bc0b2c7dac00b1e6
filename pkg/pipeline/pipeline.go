// Package pipeline orchestrates the feature computation: training-log
// store to rolling-window engine to feature composer to validator. Each
// athlete's history is processed independently, so athletes fan out
// across workers with no shared mutable state.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oyabun/tendon/pkg/feature"
	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/validate"
	"github.com/oyabun/tendon/pkg/window"
)

// Source provides athlete training data in week order. Implementations
// must return immutable snapshots: the pipeline never mutates records.
type Source interface {
	ListAthletes(ctx context.Context) ([]string, error)
	Records(ctx context.Context, athleteID string) ([]model.TrainingRecord, error)
	Profile(ctx context.Context, athleteID string) (*model.AthleteProfile, error)
}

// Config holds pipeline configuration.
type Config struct {
	Workers  int
	Window   window.Config
	Feature  feature.Config
	Validate validate.Config

	// CheckLeakage reruns every athlete on truncated histories and
	// compares row for row. Quadratic in history length; intended for CI
	// and small batch runs, not steady-state recomputation.
	CheckLeakage bool
}

// DefaultConfig returns pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Workers:  4,
		Window:   window.DefaultConfig(),
		Feature:  feature.DefaultConfig(),
		Validate: validate.DefaultConfig(),
	}
}

// AthleteError reports a per-athlete failure. One athlete's bad data
// aborts that athlete only; the rest of the batch proceeds.
type AthleteError struct {
	AthleteID string
	Err       error
}

func (e *AthleteError) Error() string {
	return fmt.Sprintf("athlete %s: %v", e.AthleteID, e.Err)
}

func (e *AthleteError) Unwrap() error { return e.Err }

// Result is one full pipeline run.
type Result struct {
	// Rows are all composed feature vectors, including rows that fail
	// the minimum-history gate, ordered by (athlete_id, week_index).
	Rows []model.FeatureVector

	// Matrix is the validated training matrix: usable rows only.
	Matrix []model.FeatureVector

	Report   *validate.Report
	Failures []AthleteError
}

// Pipeline runs the feature computation over a Source.
type Pipeline struct {
	cfg       Config
	src       Source
	validator *validate.Validator
	log       *logrus.Logger
}

// New creates a pipeline, applying defaults for zero config fields.
func New(cfg Config, src Source, log *logrus.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		cfg:       cfg,
		src:       src,
		validator: validate.New(cfg.Validate),
		log:       log,
	}
}

// ComputeAthlete is the pure per-athlete computation: rolling windows then
// feature composition. It is deterministic, touches no shared state, and
// doubles as the recompute function for the structural leakage check.
func ComputeAthlete(windowCfg window.Config, featureCfg feature.Config, profile model.AthleteProfile, records []model.TrainingRecord) ([]model.FeatureVector, error) {
	stats, err := window.NewEngine(windowCfg).Compute(records)
	if err != nil {
		return nil, err
	}
	return feature.NewComposer(featureCfg).Compose(profile, stats)
}

type athleteResult struct {
	athleteID string
	rows      []model.FeatureVector
	err       error
}

// Run computes the feature matrix for every athlete in the source.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	athletes, err := p.src.ListAthletes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}

	jobs := make(chan string)
	results := make(chan athleteResult)

	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				rows, err := p.runAthlete(ctx, id)
				results <- athleteResult{athleteID: id, rows: rows, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range athletes {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	res := &Result{}
	for ar := range results {
		if ar.err != nil {
			p.log.WithFields(logrus.Fields{
				"athlete_id": ar.athleteID,
			}).WithError(ar.err).Warn("athlete failed, skipping")
			athleteFailures.Inc()
			res.Failures = append(res.Failures, AthleteError{AthleteID: ar.athleteID, Err: ar.err})
			continue
		}
		res.Rows = append(res.Rows, ar.rows...)
		athletesProcessed.Inc()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Worker completion order is nondeterministic; sort so identical
	// inputs always yield an identical matrix.
	sort.Slice(res.Rows, func(i, j int) bool {
		if res.Rows[i].AthleteID != res.Rows[j].AthleteID {
			return res.Rows[i].AthleteID < res.Rows[j].AthleteID
		}
		return res.Rows[i].WeekIndex < res.Rows[j].WeekIndex
	})

	res.Matrix, res.Report = p.validator.Validate(res.Rows)
	rowsComposed.Add(float64(res.Report.TotalRows))
	rowsAccepted.Add(float64(res.Report.AcceptedRows))
	rowsInsufficientHistory.Add(float64(res.Report.InsufficientHistoryRows))

	p.log.WithFields(logrus.Fields{
		"athletes":             len(athletes),
		"rows":                 res.Report.TotalRows,
		"accepted":             res.Report.AcceptedRows,
		"insufficient_history": res.Report.InsufficientHistoryRows,
		"out_of_range":         len(res.Report.OutOfRange),
		"injured":              res.Report.InjuredRows,
		"uninjured":            res.Report.UninjuredRows,
	}).Info("pipeline run complete")

	return res, nil
}

// runAthlete computes and, when configured, leakage-checks one athlete.
func (p *Pipeline) runAthlete(ctx context.Context, athleteID string) ([]model.FeatureVector, error) {
	records, err := p.src.Records(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	profile, err := p.src.Profile(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	rows, err := ComputeAthlete(p.cfg.Window, p.cfg.Feature, *profile, records)
	if err != nil {
		return nil, err
	}

	if p.cfg.CheckLeakage {
		recompute := func(prof model.AthleteProfile, recs []model.TrainingRecord) ([]model.FeatureVector, error) {
			return ComputeAthlete(p.cfg.Window, p.cfg.Feature, prof, recs)
		}
		if err := p.validator.CheckLeakage(*profile, records, rows, recompute); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
