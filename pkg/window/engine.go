package window

import (
	"github.com/oyabun/tendon/pkg/model"
)

// Stat is the rolling-window output for a single week, aligned with the
// athlete's (gap-filled) week timeline.
type Stat struct {
	WeekIndex   int
	WeeklyLoad  float64
	AcuteLoad   float64
	ChronicLoad model.Metric // mean weekly-equivalent load over the chronic window
	RollingMean model.Metric // mean weekly load over the monotony window
	RollingStd  model.Metric // sample std of weekly load over the monotony window
	Observed    bool         // false for weeks synthesized to fill a gap
	Injured     *bool        // label passthrough; nil when absent or synthesized
}

// WasInjured reports the injury label, treating an absent label as false.
func (s *Stat) WasInjured() bool {
	return s.Injured != nil && *s.Injured
}

// Config holds rolling-window configuration.
type Config struct {
	ChronicWeeks  int // chronic load window, defaults to 4 (28-day equivalent)
	MonotonyWeeks int // rolling mean/std window, defaults to 4
}

// DefaultConfig returns a Config with the standard 4-week windows.
func DefaultConfig() Config {
	return Config{
		ChronicWeeks:  4,
		MonotonyWeeks: 4,
	}
}

// Engine computes causal right-aligned rolling statistics over one
// athlete's ordered record sequence. The value at week w uses only weeks
// <= w. Missing weeks in the record sequence are treated as true zero-load
// rest weeks, not as absent data: they enter every window as zeros.
//
// An Engine processes a single athlete and is not safe for concurrent use.
type Engine struct {
	cfg Config

	chronic *RingBuffer // weekly loads, chronic window
	mono    *RingBuffer // weekly loads, monotony window
	daily   *RingBuffer // daily loads, chronic window in days

	weeksSeen int
	useDaily  bool
}

// NewEngine creates an engine with the given configuration, applying
// defaults for zero fields.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ChronicWeeks <= 0 {
		cfg.ChronicWeeks = def.ChronicWeeks
	}
	if cfg.MonotonyWeeks <= 0 {
		cfg.MonotonyWeeks = def.MonotonyWeeks
	}
	return &Engine{
		cfg:     cfg,
		chronic: NewRingBuffer(cfg.ChronicWeeks),
		mono:    NewRingBuffer(cfg.MonotonyWeeks),
		daily:   NewRingBuffer(cfg.ChronicWeeks * model.DaysPerWeek),
	}
}

// Reset clears all window state.
func (e *Engine) Reset() {
	e.chronic.Clear()
	e.mono.Clear()
	e.daily.Clear()
	e.weeksSeen = 0
	e.useDaily = false
}

// Compute produces one Stat per week from the athlete's first recorded week
// through the last, synthesizing zero-load weeks for gaps. The returned
// sequence therefore has no holes in WeekIndex.
func (e *Engine) Compute(records []model.TrainingRecord) ([]Stat, error) {
	if err := model.ValidateSeries(records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	e.Reset()

	// Daily granularity only applies when every observed week carries a
	// daily breakdown; a mixed series degrades to weekly granularity.
	e.useDaily = true
	for i := range records {
		if !records[i].HasDailyLoads() {
			e.useDaily = false
			break
		}
	}

	first := records[0].WeekIndex
	last := records[len(records)-1].WeekIndex
	byWeek := make(map[int]*model.TrainingRecord, len(records))
	for i := range records {
		byWeek[records[i].WeekIndex] = &records[i]
	}

	stats := make([]Stat, 0, last-first+1)
	for w := first; w <= last; w++ {
		rec := byWeek[w]
		stats = append(stats, e.push(w, rec))
	}
	return stats, nil
}

// push advances the engine by one week. A nil record is a synthesized
// zero-load week.
func (e *Engine) push(weekIndex int, rec *model.TrainingRecord) Stat {
	var load float64
	var dailies []float64
	var injured *bool
	observed := rec != nil

	if observed {
		load = rec.WeeklyLoad
		injured = rec.Injured
		if e.useDaily {
			dailies = rec.DailyLoads
		}
	}
	if e.useDaily && dailies == nil {
		dailies = make([]float64, model.DaysPerWeek)
	}

	e.weeksSeen++
	e.chronic.Push(load)
	e.mono.Push(load)
	if e.useDaily {
		for _, d := range dailies {
			e.daily.Push(d)
		}
	}

	st := Stat{
		WeekIndex:  weekIndex,
		WeeklyLoad: load,
		Observed:   observed,
		Injured:    injured,
	}

	// Acute load: the trailing short window. At weekly granularity that is
	// the week's own load; at daily granularity, the literal trailing
	// 7-day sum, which for aligned weeks is the same quantity.
	if e.useDaily {
		for _, d := range dailies {
			st.AcuteLoad += d
		}
	} else {
		st.AcuteLoad = load
	}

	// Chronic load is undefined until the full window of history exists.
	// Partial averages would understate the denominator and inflate ACWR.
	if e.weeksSeen >= e.cfg.ChronicWeeks {
		if e.useDaily {
			st.ChronicLoad = model.Defined(e.daily.Sum() / float64(e.cfg.ChronicWeeks))
		} else {
			st.ChronicLoad = model.Defined(e.chronic.Mean())
		}
	}

	// Rolling mean/std need at least two weeks. A zero std stays defined:
	// downstream monotony special-cases it as the flat-load sentinel.
	if e.weeksSeen >= 2 {
		st.RollingMean = model.Defined(e.mono.Mean())
		st.RollingStd = model.Defined(e.mono.SampleStd())
	}

	return st
}
