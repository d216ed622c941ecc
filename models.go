package main

import (
	"bytes"
	"time"

	"lg/fitpal-go-api/narrative"
	"lg/fitpal-go-api/plan"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON parses "YYYY-MM-DD" as a UTC date. null leaves the zero value so the
// handler can report the field as missing.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// planRequest is the request body for POST /api/plan. Sex is "M"/"F", case-insensitive.
type planRequest struct {
	CurrentWeight float64  `json:"current_weight" binding:"required,gt=0,lte=500"`
	Height        float64  `json:"height"         binding:"required,gt=0,lte=300"`
	Age           int      `json:"age"            binding:"required,gt=0,lte=130"`
	Sex           string   `json:"sex"            binding:"required,sex"`
	TargetWeight  float64  `json:"target_weight"  binding:"required,gt=0,lte=500"`
	TargetDate    DateOnly `json:"target_date"`
}

// goalInput converts a bound request into the evaluator's input. ParseSex only fails here
// if the request skipped the "sex" binding rule.
func (r planRequest) goalInput() (plan.GoalInput, error) {
	sex, err := plan.ParseSex(r.Sex)
	if err != nil {
		return plan.GoalInput{}, err
	}
	return plan.GoalInput{
		CurrentWeightKG: r.CurrentWeight,
		HeightCM:        r.Height,
		AgeYears:        r.Age,
		Sex:             sex,
		TargetWeightKG:  r.TargetWeight,
		TargetDate:      r.TargetDate.Time,
	}, nil
}

// planResponse is the POST /api/plan response: the evaluation result, plus the
// generated narrative (or why it is missing) when one was requested.
type planResponse struct {
	plan.Result
	AIPlan      *narrative.Plan `json:"ai_plan,omitempty"`
	AIPlanError string          `json:"ai_plan_error,omitempty"`
}
