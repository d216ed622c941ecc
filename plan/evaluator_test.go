package plan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalDate is the fixed "today" for every evaluator test. The time of day is
// deliberately not midnight so tests also cover calendar-date truncation.
var evalDate = time.Date(2026, 10, 14, 17, 45, 0, 0, time.UTC)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(DefaultConfig(), WithClock(func() time.Time { return evalDate }))
}

// goal builds a GoalInput whose target date is days after evalDate.
func goal(weight, height float64, age int, sex Sex, target float64, days int) GoalInput {
	return GoalInput{
		CurrentWeightKG: weight,
		HeightCM:        height,
		AgeYears:        age,
		Sex:             sex,
		TargetWeightKG:  target,
		TargetDate:      time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days),
	}
}

func evaluate(t *testing.T, in GoalInput) Result {
	t.Helper()
	res, err := newTestEvaluator().Evaluate(in)
	require.NoError(t, err)
	return res
}

/* ─── Concrete scenarios ─────────────────────────────────────────────── */

// 80kg male, 180cm, 30y, down to 77kg in 60 days.
// BMR 1780, TDEE 2136, deficit 23100/60 = 385, target 1751.
func TestEvaluate_LossFeasible(t *testing.T) {
	res := evaluate(t, goal(80, 180, 30, Male, 77, 60))

	require.True(t, res.Feasible)
	require.NotNil(t, res.Plan)
	assert.Nil(t, res.Rejection)
	assert.Equal(t, Loss, res.GoalType)
	assert.Equal(t, 2136, res.TDEE)
	assert.Equal(t, 60, res.Days)
	assert.Equal(t, 1751, res.TargetCalories)
	require.NotNil(t, res.DailyDeficit)
	assert.Equal(t, 385, *res.DailyDeficit)
	assert.Nil(t, res.DailySurplus)
}

// Same profile, 10kg in 30 days: deficit ≈ 2566.67 > 1000.
func TestEvaluate_LossRejectedByDeficitGate(t *testing.T) {
	res := evaluate(t, goal(80, 180, 30, Male, 70, 30))

	require.False(t, res.Feasible)
	require.NotNil(t, res.Rejection)
	assert.Nil(t, res.Plan)
	assert.Equal(t, "loss", res.Values["type"])
	assert.Equal(t, 2566, res.Values["daily_deficit"])
	assert.Equal(t, 2136, res.Values["tdee"])
	assert.Contains(t, res.Reason, "2566")
	assert.Contains(t, res.Reason, "1000")
	assert.Contains(t, res.UserMessage, "extending the timeframe")
}

// 5kg in 60 days: deficit 641.67 is under the cap but 2136-641.67 = 1494.33 < 1500.
func TestEvaluate_LossRejectedByMaleFloor(t *testing.T) {
	res := evaluate(t, goal(80, 180, 30, Male, 75, 60))

	require.False(t, res.Feasible)
	assert.Nil(t, res.Plan)
	assert.Equal(t, "loss", res.Values["type"])
	assert.Equal(t, 641, res.Values["daily_deficit"])
	assert.Equal(t, 2136, res.Values["tdee"])
	assert.Contains(t, res.Reason, "(1494)")
	assert.Contains(t, res.Reason, "(1500)")
	assert.Contains(t, res.UserMessage, "more realistic goal")

	// 5kg in 40 days: deficit 962.5, target 1173.5.
	faster := evaluate(t, goal(80, 180, 30, Male, 75, 40))
	require.False(t, faster.Feasible)
	assert.Equal(t, 962, faster.Values["daily_deficit"])
	assert.Contains(t, faster.Reason, "(1173)")
}

// The calorie floor is chosen by sex: 1200 for women, 1500 for men.
func TestEvaluate_FloorDependsOnSex(t *testing.T) {
	// Female: BMR 1614, TDEE 1936.8; 2kg over 60 days: deficit ≈ 256.67, target ≈ 1680.13.
	female := evaluate(t, goal(80, 180, 30, Female, 78, 60))
	require.True(t, female.Feasible)
	assert.Equal(t, 1680, female.TargetCalories)

	// 80kg -> 75kg in 60 days lands at 1295 kcal for a woman (ok) and 1494 for a man (rejected).
	femaleLoss := evaluate(t, goal(80, 180, 30, Female, 75, 60))
	require.True(t, femaleLoss.Feasible)
	assert.Equal(t, 1295, femaleLoss.TargetCalories)
	maleLoss := evaluate(t, goal(80, 180, 30, Male, 75, 60))
	require.False(t, maleLoss.Feasible)
	assert.Contains(t, maleLoss.Reason, "(1500)")

	// Female: 60kg/165cm/25y TDEE 1614.3; 3kg in 30 days: deficit 770, target 844.3 < 1200.
	low := evaluate(t, goal(60, 165, 25, Female, 57, 30))
	require.False(t, low.Feasible)
	assert.Equal(t, 770, low.Values["daily_deficit"])
	assert.Contains(t, low.Reason, "(844)")
	assert.Contains(t, low.Reason, "(1200)")
}

// 60kg female, 165cm, 25y, up to 63kg in 90 days.
// BMR 1345.25, TDEE 1614.3, surplus 23100/90 ≈ 256.67, target ≈ 1870.97.
func TestEvaluate_GainFeasible(t *testing.T) {
	res := evaluate(t, goal(60, 165, 25, Female, 63, 90))

	require.True(t, res.Feasible)
	assert.Equal(t, Gain, res.GoalType)
	assert.Equal(t, 1614, res.TDEE)
	assert.Equal(t, 1870, res.TargetCalories)
	assert.Equal(t, 90, res.Days)
	require.NotNil(t, res.DailySurplus)
	assert.Equal(t, 256, *res.DailySurplus)
	assert.Nil(t, res.DailyDeficit)
}

// 3kg in 30 days: surplus 770 > 500.
func TestEvaluate_GainRejectedBySurplusGate(t *testing.T) {
	res := evaluate(t, goal(60, 165, 25, Female, 63, 30))

	require.False(t, res.Feasible)
	assert.Equal(t, "gain", res.Values["type"])
	assert.Equal(t, 770, res.Values["daily_surplus"])
	assert.Equal(t, 1614, res.Values["tdee"])
	assert.NotContains(t, res.Values, "daily_deficit")
	assert.Contains(t, res.Reason, "500")
	assert.Contains(t, res.UserMessage, "longer timeframe")
}

func TestEvaluate_NonFutureDate(t *testing.T) {
	for _, days := range []int{0, -1, -365} {
		res := evaluate(t, goal(80, 180, 30, Male, 75, days))

		require.False(t, res.Feasible, "days=%d", days)
		assert.Contains(t, res.Reason, "future")
		require.NotNil(t, res.Values)
		assert.Empty(t, res.Values)
		assert.NotEmpty(t, res.UserMessage)
	}
}

/* ─── Gate boundaries ────────────────────────────────────────────────── */

// Gates compare the precise value, not the floored one: 1000.0 exactly passes, while a
// deficit that floors to 1000 but is above it fails.
func TestEvaluate_DeficitGateUsesPreciseValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinCaloriesMale = 1 // isolate gate A

	e := NewEvaluator(cfg, WithClock(func() time.Time { return evalDate }))

	// 7700 * 10 / 77 = 1000 exactly.
	atLimit, err := e.Evaluate(goal(100, 180, 30, Male, 90, 77))
	require.NoError(t, err)
	assert.True(t, atLimit.Feasible)

	// 1.0390625kg (exact in binary) over 8 days: 1000.09765625 kcal, reported as 1000.
	over, err := e.Evaluate(goal(100, 180, 30, Male, 98.9609375, 8))
	require.NoError(t, err)
	require.False(t, over.Feasible)
	assert.Equal(t, 1000, over.Values["daily_deficit"])
}

func TestEvaluate_SurplusAtLimitIsFeasible(t *testing.T) {
	// 7700 * 5 / 77 = 500 exactly.
	res := evaluate(t, goal(60, 165, 25, Female, 65, 77))
	require.True(t, res.Feasible)
	assert.Equal(t, 500, *res.DailySurplus)
}

/* ─── Properties ─────────────────────────────────────────────────────── */

// Every feasible result carries exactly one of deficit/surplus, matching its type
// and the sign of the weight change.
func TestEvaluate_FeasibleShapeMatchesDirection(t *testing.T) {
	inputs := []GoalInput{
		goal(80, 180, 30, Male, 77, 60),
		goal(80, 180, 30, Male, 79, 200),
		goal(60, 165, 25, Female, 63, 90),
		goal(95, 175, 45, Male, 85, 120),
		goal(55, 160, 60, Female, 57, 365),
	}
	for _, in := range inputs {
		res := evaluate(t, in)
		require.True(t, res.Feasible, "%+v", in)
		if in.WeightChangeKG() < 0 {
			assert.Equal(t, Loss, res.GoalType)
			assert.NotNil(t, res.DailyDeficit)
			assert.Nil(t, res.DailySurplus)
		} else {
			assert.Equal(t, Gain, res.GoalType)
			assert.Nil(t, res.DailyDeficit)
			assert.NotNil(t, res.DailySurplus)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEvaluator()
	for _, in := range []GoalInput{
		goal(80, 180, 30, Male, 75, 60),
		goal(80, 180, 30, Male, 70, 30),
		goal(60, 165, 25, Female, 63, 30),
		goal(80, 180, 30, Male, 75, 0),
	} {
		first, err := e.Evaluate(in)
		require.NoError(t, err)
		second, err := e.Evaluate(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestEvaluate_ConfigIsSwappable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDailyDeficit = 500
	e := NewEvaluator(cfg, WithClock(func() time.Time { return evalDate }))

	// 4kg in 60 days: 513 kcal/day, target 1622. Feasible under defaults, rejected under a 500 kcal cap.
	in := goal(80, 180, 30, Male, 76, 60)
	require.True(t, evaluate(t, in).Feasible)

	res, err := e.Evaluate(in)
	require.NoError(t, err)
	require.False(t, res.Feasible)
	assert.Contains(t, res.Reason, "safe limit of 500 kcal")
}

// The horizon check runs first, so a past date is a rejection even when the other
// inputs could not be planned.
func TestEvaluate_HorizonBeforePreconditions(t *testing.T) {
	for _, in := range []GoalInput{
		goal(80, 180, 30, Male, 80, -1),
		goal(80, 180, 30, Sex("X"), 75, 0),
	} {
		res := evaluate(t, in)
		require.False(t, res.Feasible)
		assert.Contains(t, res.Reason, "future")
	}
}

func TestEvaluate_PreconditionErrors(t *testing.T) {
	e := newTestEvaluator()

	_, err := e.Evaluate(goal(80, 180, 30, Sex("X"), 75, 60))
	assert.ErrorIs(t, err, ErrUnknownSex)

	_, err = e.Evaluate(goal(80, 180, 30, Male, 80, 60))
	assert.ErrorIs(t, err, ErrNoWeightChange)
}

/* ─── JSON shape ─────────────────────────────────────────────────────── */

func TestResult_JSONShape(t *testing.T) {
	b, err := json.Marshal(evaluate(t, goal(80, 180, 30, Male, 77, 60)))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"feasible":true,"target_calories":1751,"type":"loss","tdee":2136,"days":60,"daily_deficit":385}`,
		string(b))

	b, err = json.Marshal(evaluate(t, goal(80, 180, 30, Male, 75, 0)))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, false, decoded["feasible"])
	assert.Equal(t, map[string]any{}, decoded["values"])
	assert.NotContains(t, decoded, "target_calories")
}
