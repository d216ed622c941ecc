package plan

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput wraps every GoalInput.Validate failure.
	ErrInvalidInput = errors.New("invalid goal input")
	// ErrNoWeightChange means target and current weight are equal; there is no goal to plan for.
	ErrNoWeightChange = errors.New("target_weight cannot be equal to current_weight")
	// ErrDateNotFuture means the target date is today or earlier.
	ErrDateNotFuture = errors.New("target_date must be in the future")
)

// GoalInput is a single plan request. Weights are kilograms, height centimetres.
// Only the calendar date of TargetDate is used.
type GoalInput struct {
	CurrentWeightKG float64
	HeightCM        float64
	AgeYears        int
	Sex             Sex
	TargetWeightKG  float64
	TargetDate      time.Time
}

// WeightChangeKG is target minus current: negative for loss, positive for gain.
func (in GoalInput) WeightChangeKG() float64 {
	return in.TargetWeightKG - in.CurrentWeightKG
}

// Validate enforces the request invariants front ends must check before calling Evaluate.
// today is the evaluation date; its time of day is ignored.
func (in GoalInput) Validate(today time.Time) error {
	switch {
	case in.CurrentWeightKG <= 0:
		return fmt.Errorf("%w: current_weight must be positive", ErrInvalidInput)
	case in.HeightCM <= 0:
		return fmt.Errorf("%w: height must be positive", ErrInvalidInput)
	case in.AgeYears <= 0:
		return fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	case in.TargetWeightKG <= 0:
		return fmt.Errorf("%w: target_weight must be positive", ErrInvalidInput)
	case !in.Sex.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrUnknownSex)
	case in.TargetWeightKG == in.CurrentWeightKG:
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoWeightChange)
	case DaysUntil(today, in.TargetDate) <= 0:
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrDateNotFuture)
	}
	return nil
}

// DaysUntil counts whole calendar days from the date of from to the date of to.
// Each value's own location decides its calendar date.
func DaysUntil(from, to time.Time) int {
	return int(calendarDate(to).Sub(calendarDate(from)).Hours() / 24)
}

// calendarDate drops the clock and zone, keeping year/month/day as UTC midnight so
// subtraction is always a multiple of 24h (no DST drift).
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
