// Package narrative attaches a generated diet and training plan to a feasible calorie plan.
// Generation never changes the plan.Result it is given.
package narrative

import (
	"context"
	"errors"

	"lg/fitpal-go-api/plan"
)

var (
	// ErrInvalidContent means the model answered but not with the required JSON shape.
	ErrInvalidContent = errors.New("the model did not return valid JSON")
	// ErrUpstream covers transport failures, non-200 responses and empty completions.
	ErrUpstream = errors.New("narrative provider request failed")
	// ErrNotFeasible is returned when asked to enrich a rejected result.
	ErrNotFeasible = errors.New("narrative requires a feasible plan")
	// ErrDisabled is returned by a generator with no credentials configured.
	ErrDisabled = errors.New("narrative generation is not configured")
)

// Plan is the generated content attached to a feasible calorie plan.
type Plan struct {
	DietPlan     DietPlan     `json:"diet_plan"`
	TrainingPlan TrainingPlan `json:"training_plan"`
	Explanation  string       `json:"explanation"`
}

// DietPlan lists one day of meals.
type DietPlan struct {
	Breakfast string   `json:"breakfast"`
	Lunch     string   `json:"lunch"`
	Dinner    string   `json:"dinner"`
	Snacks    []string `json:"snacks"`
	Notes     string   `json:"notes"`
}

// TrainingPlan is a weekly schedule plus notes.
type TrainingPlan struct {
	WeeklySchedule WeeklySchedule `json:"weekly_schedule"`
	Notes          string         `json:"notes"`
}

// WeeklySchedule has one session description per weekday.
type WeeklySchedule struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// Generator produces a narrative for a feasible result.
// Implementations wrap their failures in ErrInvalidContent or ErrUpstream.
type Generator interface {
	Generate(ctx context.Context, result plan.Result) (*Plan, error)
}
