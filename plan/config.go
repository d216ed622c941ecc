package plan

import "fmt"

// Config holds the energy-balance constants and safety thresholds used by an Evaluator.
// It is copied into the Evaluator at construction, so later changes to the caller's value
// have no effect.
type Config struct {
	KcalPerKG          float64 // energy density of one kilogram of body mass
	ActivityMultiplier float64 // BMR -> TDEE
	MaxDailyDeficit    float64 // kcal/day
	MaxDailySurplus    float64 // kcal/day
	MinCaloriesMale    float64
	MinCaloriesFemale  float64
}

// DefaultConfig returns the production constants: 7700 kcal/kg, light activity (1.2),
// 1000 kcal max deficit (~0.9 kg/week), 500 kcal max surplus, floors of 1500 (M) / 1200 (F).
func DefaultConfig() Config {
	return Config{
		KcalPerKG:          7700,
		ActivityMultiplier: 1.2,
		MaxDailyDeficit:    1000,
		MaxDailySurplus:    500,
		MinCaloriesMale:    1500,
		MinCaloriesFemale:  1200,
	}
}

// MinCalories returns the daily intake floor for sex.
func (c Config) MinCalories(sex Sex) float64 {
	if sex == Male {
		return c.MinCaloriesMale
	}
	return c.MinCaloriesFemale
}

// Validate rejects configs with non-positive constants.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"KcalPerKG", c.KcalPerKG},
		{"ActivityMultiplier", c.ActivityMultiplier},
		{"MaxDailyDeficit", c.MaxDailyDeficit},
		{"MaxDailySurplus", c.MaxDailySurplus},
		{"MinCaloriesMale", c.MinCaloriesMale},
		{"MinCaloriesFemale", c.MinCaloriesFemale},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("plan config: %s must be positive, got %v", f.name, f.value)
		}
	}
	return nil
}
