package feature

import (
	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/window"
)

// Config holds feature composition parameters.
type Config struct {
	// ACWRThreshold is the ratio above which a week counts toward the
	// consecutive-weeks-above-threshold streak. 1.3 is the upper edge of
	// the commonly cited ACWR sweet spot.
	ACWRThreshold float64

	// MaxMonotony caps the monotony ratio. A perfectly flat load has zero
	// variance; rather than dividing by zero, monotony saturates at this
	// value, keeping "maximally repetitive training" distinguishable from
	// "not enough data".
	MaxMonotony float64

	// InjuryLookbackWeeks sets the recent-injury window. Only weeks
	// strictly before the current one are inspected, so the flag can
	// never encode the current week's own outcome.
	InjuryLookbackWeeks int
}

// DefaultConfig returns the standard composition parameters.
func DefaultConfig() Config {
	return Config{
		ACWRThreshold:       1.3,
		MaxMonotony:         10.0,
		InjuryLookbackWeeks: 8,
	}
}

// Composer turns rolling-window statistics into fixed-schema feature
// vectors, one per observed athlete-week. Undefined upstream quantities
// propagate as missing metrics, never as zeros.
type Composer struct {
	cfg Config
}

// NewComposer creates a composer with the given configuration, applying
// defaults for zero fields.
func NewComposer(cfg Config) *Composer {
	def := DefaultConfig()
	if cfg.ACWRThreshold <= 0 {
		cfg.ACWRThreshold = def.ACWRThreshold
	}
	if cfg.MaxMonotony <= 0 {
		cfg.MaxMonotony = def.MaxMonotony
	}
	if cfg.InjuryLookbackWeeks <= 0 {
		cfg.InjuryLookbackWeeks = def.InjuryLookbackWeeks
	}
	return &Composer{cfg: cfg}
}

// Compose produces feature vectors for every observed week in stats. The
// stats sequence must be the gap-free timeline produced by window.Engine:
// synthesized rest weeks contribute to streaks, lags and trends but do not
// emit vectors of their own.
func (c *Composer) Compose(profile model.AthleteProfile, stats []window.Stat) ([]model.FeatureVector, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}

	acwrs := make([]model.Metric, len(stats))
	streak := 0
	vectors := make([]model.FeatureVector, 0, len(stats))

	for i := range stats {
		st := &stats[i]

		acwr := c.acwr(st)
		acwrs[i] = acwr

		// The streak counts consecutive weeks with ACWR above threshold,
		// resetting on any week at/below it or with ACWR undefined.
		if acwr.Valid && acwr.Value > c.cfg.ACWRThreshold {
			streak++
		} else {
			streak = 0
		}

		if !st.Observed {
			continue
		}

		fv := model.NewFeatureVector(profile.AthleteID, st.WeekIndex)
		fv.AcuteLoad = st.AcuteLoad
		fv.ChronicLoad = st.ChronicLoad
		fv.ACWR = acwr
		fv.Monotony = c.monotony(st)
		fv.Strain = c.strain(st, fv.Monotony)
		fv.WeekOverWeekChange = weekOverWeekChange(stats, i)
		fv.ACWRTrend = acwrTrend(acwrs, i)
		fv.WeeksAboveThreshold = streak
		fv.DistanceFromBaseline = distanceFromBaseline(st.WeeklyLoad, profile.BaselineWeeklyLoad)
		fv.PreviousWeekACWR = lag(acwrs, i, 1)
		fv.TwoWeekAgoACWR = lag(acwrs, i, 2)
		fv.RecentInjuryFlag = c.recentInjuryFlag(stats, i)

		fv.Age = profile.Age
		fv.AgeGroup = model.BinAge(profile.Age)
		fv.ExperienceYears = profile.ExperienceYears
		fv.ExperienceLevel = model.BinExperience(profile.ExperienceYears)
		fv.BaselineWeeklyLoad = profile.BaselineWeeklyLoad

		if st.Injured != nil {
			label := *st.Injured
			fv.Injured = &label
		}

		vectors = append(vectors, *fv)
	}
	return vectors, nil
}

// acwr divides acute by chronic load. Undefined when chronic load is
// missing or zero.
func (c *Composer) acwr(st *window.Stat) model.Metric {
	if !st.ChronicLoad.Valid || st.ChronicLoad.Value == 0 {
		return model.Missing
	}
	return model.Defined(st.AcuteLoad / st.ChronicLoad.Value)
}

// monotony is rolling mean over rolling std, capped at MaxMonotony. A zero
// std means perfectly repetitive load and saturates to the cap.
func (c *Composer) monotony(st *window.Stat) model.Metric {
	if !st.RollingStd.Valid || !st.RollingMean.Valid {
		return model.Missing
	}
	if st.RollingStd.Value == 0 {
		return model.Defined(c.cfg.MaxMonotony)
	}
	m := st.RollingMean.Value / st.RollingStd.Value
	if m > c.cfg.MaxMonotony {
		m = c.cfg.MaxMonotony
	}
	return model.Defined(m)
}

// strain multiplies the week's load by monotony.
func (c *Composer) strain(st *window.Stat, monotony model.Metric) model.Metric {
	if !monotony.Valid {
		return model.Missing
	}
	return model.Defined(st.WeeklyLoad * monotony.Value)
}

// weekOverWeekChange is the fractional load change from the previous week.
// Undefined on the first week of the timeline and when the previous week's
// load is zero.
func weekOverWeekChange(stats []window.Stat, i int) model.Metric {
	if i == 0 {
		return model.Missing
	}
	prev := stats[i-1].WeeklyLoad
	if prev == 0 {
		return model.Missing
	}
	return model.Defined((stats[i].WeeklyLoad - prev) / prev)
}

// acwrTrend is the two-point slope of ACWR: acwr[w] - acwr[w-1].
func acwrTrend(acwrs []model.Metric, i int) model.Metric {
	if i == 0 || !acwrs[i].Valid || !acwrs[i-1].Valid {
		return model.Missing
	}
	return model.Defined(acwrs[i].Value - acwrs[i-1].Value)
}

// lag returns the ACWR from n timeline weeks ago.
func lag(acwrs []model.Metric, i, n int) model.Metric {
	if i-n < 0 {
		return model.Missing
	}
	return acwrs[i-n]
}

// distanceFromBaseline is the fractional deviation of the current load from
// the athlete's profile baseline, undefined when no baseline exists.
func distanceFromBaseline(load, baseline float64) model.Metric {
	if baseline == 0 {
		return model.Missing
	}
	return model.Defined((load - baseline) / baseline)
}

// recentInjuryFlag is 1 when any of the trailing InjuryLookbackWeeks weeks
// strictly before week i carries an injury. The current week is excluded:
// including it would leak the very outcome the classifier predicts.
func (c *Composer) recentInjuryFlag(stats []window.Stat, i int) int {
	start := i - c.cfg.InjuryLookbackWeeks
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if stats[j].WasInjured() {
			return 1
		}
	}
	return 0
}
