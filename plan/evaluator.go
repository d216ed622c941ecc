package plan

import (
	"fmt"
	"math"
	"time"
)

// Evaluator turns a GoalInput into a feasible Plan or a Rejection.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	cfg Config
	now func() time.Time
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithClock sets the source of the evaluation date. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator builds an Evaluator over a copy of cfg.
func NewEvaluator(cfg Config, opts ...Option) *Evaluator {
	e := &Evaluator{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the thresholds this evaluator was built with.
func (e *Evaluator) Config() Config { return e.cfg }

// Today returns the evaluator's current evaluation date.
func (e *Evaluator) Today() time.Time { return calendarDate(e.now()) }

// Evaluate runs the decision gates in order: horizon, then either the deficit and
// calorie-floor gates (loss) or the surplus gate (gain). Unsafe or impossible goals come
// back as a Result with Feasible=false; the error is reserved for inputs that should
// never have passed validation (unknown sex, no weight change) and is only checked once
// the horizon gate has passed.
func (e *Evaluator) Evaluate(in GoalInput) (Result, error) {
	days := DaysUntil(e.now(), in.TargetDate)
	if days <= 0 {
		return rejected(
			"The date must be in the future",
			nil,
			"Hello! Unfortunately, the date you selected is not valid because it must be a future date. Please try another date.",
		), nil
	}

	if !in.Sex.Valid() {
		return Result{}, fmt.Errorf("evaluate: %w: got %q", ErrUnknownSex, string(in.Sex))
	}
	weightChange := in.WeightChangeKG()
	if weightChange == 0 {
		return Result{}, fmt.Errorf("evaluate: %w", ErrNoWeightChange)
	}

	bmr := EstimateBMR(in.CurrentWeightKG, in.HeightCM, in.AgeYears, in.Sex)
	tdee := bmr * e.cfg.ActivityMultiplier
	dailyChange := math.Abs(weightChange) * e.cfg.KcalPerKG / float64(days)

	if weightChange < 0 {
		return e.loss(dailyChange, tdee, days, in.Sex), nil
	}
	return e.gain(dailyChange, tdee, days), nil
}

func (e *Evaluator) loss(deficit, tdee float64, days int, sex Sex) Result {
	values := map[string]any{
		"tdee":          floor(tdee),
		"daily_deficit": floor(deficit),
		"type":          string(Loss),
	}
	if deficit > e.cfg.MaxDailyDeficit {
		return rejected(
			fmt.Sprintf("Required daily deficit (%d kcal) is greater than the safe limit of %.0f kcal.",
				floor(deficit), e.cfg.MaxDailyDeficit),
			values,
			fmt.Sprintf("Hello! The plan you propose is not healthy because it requires a daily calorie deficit of %d kcal, "+
				"which exceeds the recommended limit of %.0f kcal. I suggest extending the timeframe or adjusting your goal.",
				floor(deficit), e.cfg.MaxDailyDeficit),
		)
	}

	target := tdee - deficit
	minAllowed := e.cfg.MinCalories(sex)
	if target < minAllowed {
		return rejected(
			fmt.Sprintf("Target calories (%d) are below the healthy minimum (%.0f).", floor(target), minAllowed),
			values,
			"Hello! The amount of calories you would need to consume to reach your goal is too low and could be "+
				"harmful to your health. Please consider a more realistic goal or consult a professional.",
		)
	}

	d := floor(deficit)
	return feasible(Plan{
		TargetCalories: floor(target),
		GoalType:       Loss,
		TDEE:           floor(tdee),
		Days:           days,
		DailyDeficit:   &d,
	})
}

func (e *Evaluator) gain(surplus, tdee float64, days int) Result {
	if surplus > e.cfg.MaxDailySurplus {
		return rejected(
			fmt.Sprintf("Required daily surplus (%d kcal) is greater than the safe limit of %.0f kcal (not recommended).",
				floor(surplus), e.cfg.MaxDailySurplus),
			map[string]any{
				"tdee":          floor(tdee),
				"daily_surplus": floor(surplus),
				"type":          string(Gain),
			},
			fmt.Sprintf("Hello! The plan you propose implies a very rapid weight gain with a daily calorie surplus of %d kcal, "+
				"which exceeds the recommended limit of %.0f kcal. Consider a longer timeframe or a more moderate goal for your health.",
				floor(surplus), e.cfg.MaxDailySurplus),
		)
	}

	s := floor(surplus)
	return feasible(Plan{
		TargetCalories: floor(tdee + surplus),
		GoalType:       Gain,
		TDEE:           floor(tdee),
		Days:           days,
		DailySurplus:   &s,
	})
}

func floor(x float64) int {
	return int(math.Floor(x))
}
